package layering

// Level identifies the precedence of a configuration source. Higher levels
// override lower levels when layering.
type Level int

const (
	// LevelUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	LevelUnknown Level = iota
	// LevelDefaults is the caller supplied defaults object, the weakest layer.
	LevelDefaults
	// LevelElement is the host script element's data attributes.
	LevelElement
	// LevelQuery is the page URL's query parameters, the strongest layer.
	LevelQuery
)

func (l Level) String() string {
	switch l {
	case LevelDefaults:
		return "defaults"
	case LevelElement:
		return "element"
	case LevelQuery:
		return "query"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string representation into the corresponding Level.
// Returns LevelUnknown for unrecognised values.
func ParseLevel(value string) Level {
	switch value {
	case "defaults", "DEFAULTS":
		return LevelDefaults
	case "element", "ELEMENT":
		return LevelElement
	case "query", "QUERY":
		return LevelQuery
	default:
		return LevelUnknown
	}
}

// Priority maps the level onto the scope priority scale used by stacks.
func (l Level) Priority() int {
	return int(l) * 100
}
