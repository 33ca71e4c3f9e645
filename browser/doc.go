// Package browser reads tracer configuration from the page that embeds the
// library: data attributes on the host <script> element and lightstep_
// prefixed parameters in the page URL.
//
// Callers pre-allocate the TracerOptions and EmbeddingOptions records,
// fill them with defaults, then apply ParseElementOptions followed by
// ParseQueryOptions. Each step only adds or overwrites keys whose source value
// is present and well formed, so later steps win:
//
//	doc, _ := browser.ParseDocument(r)
//	host := browser.LocateHostElement(doc)
//	browser.ParseElementOptions(&tracer, &embedding, host)
//	browser.ParseQueryOptions(&tracer, browser.ParseQuery(href))
package browser
