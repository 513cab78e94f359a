package session

import (
	"net/url"

	"github.com/google/uuid"
)

// UnknownFormat is reported when no format name can be read from a result.
const UnknownFormat = "Unknown"

// formatPaths are probed in order on the driver's result object; the first
// non-empty string wins. The shape differs between decoder versions.
var formatPaths = [][]string{
	{"result", "format", "formatName"},
	{"result", "format", "format"},
	{"decodedResult", "format"},
	{"format", "formatName"},
	{"format", "name"},
	{"formatName"},
}

// dispatchLocked applies dedupe and builds the presentation for a decode.
// Caller holds mu.
func (s *Session) dispatchLocked(text string, result any) (Presentation, bool) {
	if text == "" || text == s.lastDecodedText {
		return Presentation{}, false
	}
	s.lastDecodedText = text

	return Presentation{
		ID:         uuid.NewString(),
		Text:       text,
		FormatName: ExtractFormatName(result),
		IsURL:      IsURL(text),
		DecodedAt:  s.now(),
	}, true
}

// ExtractFormatName reads the symbology name from a driver result object.
func ExtractFormatName(result any) string {
	for _, path := range formatPaths {
		if name, ok := lookupString(result, path); ok && name != "" {
			return name
		}
	}
	return UnknownFormat
}

func lookupString(v any, path []string) (string, bool) {
	cur := v
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// IsURL reports whether text parses as an absolute URL.
func IsURL(text string) bool {
	u, err := url.Parse(text)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}
