package session

import "testing"

func TestExtractFormatName(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{"result.format.formatName", map[string]any{"result": map[string]any{"format": map[string]any{"formatName": "QR_CODE"}}}, "QR_CODE"},
		{"result.format.format", map[string]any{"result": map[string]any{"format": map[string]any{"format": "PDF_417"}}}, "PDF_417"},
		{"decodedResult.format", map[string]any{"decodedResult": map[string]any{"format": "EAN_13"}}, "EAN_13"},
		{"format.formatName", map[string]any{"format": map[string]any{"formatName": "AZTEC"}}, "AZTEC"},
		{"format.name", map[string]any{"format": map[string]any{"name": "ITF"}}, "ITF"},
		{"formatName", map[string]any{"formatName": "CODABAR"}, "CODABAR"},
		{"first path wins", map[string]any{
			"result":     map[string]any{"format": map[string]any{"formatName": "QR_CODE"}},
			"formatName": "OTHER",
		}, "QR_CODE"},
		{"empty string skipped", map[string]any{
			"result":     map[string]any{"format": map[string]any{"formatName": ""}},
			"formatName": "UPC_A",
		}, "UPC_A"},
		{"non-string ignored", map[string]any{"result": map[string]any{"format": 11}}, UnknownFormat},
		{"empty object", map[string]any{}, UnknownFormat},
		{"nil", nil, UnknownFormat},
		{"not a map", "QR_CODE", UnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFormatName(tt.result); got != tt.want {
				t.Errorf("ExtractFormatName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"https://example.com/", true},
		{"http://localhost:8080/path?q=1", true},
		{"mailto:someone@example.com", true},
		{"9780140449136", false},
		{"ABC", false},
		{"example.com/path", false},
		{"", false},
		{"://missing-scheme", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.text); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
