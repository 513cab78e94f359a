package scanner

import "testing"

func TestCapabilitiesHasTorch(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want bool
	}{
		{"nil", nil, false},
		{"empty", Capabilities{}, false},
		{"top level", Capabilities{"torch": true}, true},
		{"advanced any", Capabilities{"advanced": []any{map[string]any{"torch": true}}}, true},
		{"advanced maps", Capabilities{"advanced": []map[string]any{{"zoom": 2}, {"torch": false}}}, true},
		{"advanced capabilities", Capabilities{"advanced": []Capabilities{{"torch": true}}}, true},
		{"advanced without torch", Capabilities{"advanced": []any{map[string]any{"zoom": 1}}}, false},
		{"advanced wrong type", Capabilities{"advanced": "torch"}, false},
		{"other keys", Capabilities{"width": 1920, "height": 1080}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.HasTorch(); got != tt.want {
				t.Errorf("HasTorch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultConstraints(t *testing.T) {
	cam := DefaultCameraConstraints()
	if cam.FacingMode != "environment" || cam.IdealWidth != 1920 || cam.IdealHeight != 1080 {
		t.Errorf("camera constraints = %+v", cam)
	}
	dec := DefaultDecoderConfig()
	if dec.FPS != 20 || dec.DisableFlip || dec.UseBarcodeDetector || dec.ScanRegion == nil {
		t.Errorf("decoder config = %+v", dec)
	}
}
