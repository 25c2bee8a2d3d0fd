package adapters

type BuiltInSourceType = string

const (
	InlineSourceType BuiltInSourceType = "inline"
	HTTPSourceType   BuiltInSourceType = "http"
)

// RegisterBuiltins registers all built-in providers by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, sourceTypes ...BuiltInSourceType) {
	if len(sourceTypes) == 0 {
		sourceTypes = append(sourceTypes, InlineSourceType, HTTPSourceType)
	}

	for _, key := range sourceTypes {
		switch key {
		case InlineSourceType:
			RegisterInline(r)
		case HTTPSourceType:
			RegisterHTTP(r)
		}
	}
}
