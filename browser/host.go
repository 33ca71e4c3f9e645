package browser

// LocateHostElement returns the element that loaded the library, or nil when
// the document has no script elements.
//
// The result is only meaningful when called while the library's own script
// is the last one registered in the document, which holds for classic
// synchronous script loading. Deferred, async and module scripts can break
// that assumption and it cannot be detected from here.
func LocateHostElement(doc *Document) *Element {
	if doc == nil || len(doc.scripts) == 0 {
		return nil
	}
	return doc.scripts[len(doc.scripts)-1]
}
