package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	doc := `
highlight = "#00ff00"

[classifier]
knob_brightness_threshold = 0.3

[camera]
duration_ms = 250
`
	s, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Highlight != "#00ff00" {
		t.Errorf("Highlight = %q, want #00ff00", s.Highlight)
	}
	if s.Classifier.KnobBrightnessThreshold != 0.3 {
		t.Errorf("threshold = %v, want 0.3", s.Classifier.KnobBrightnessThreshold)
	}
	if s.Camera.DurationMs != 250 {
		t.Errorf("DurationMs = %v, want 250", s.Camera.DurationMs)
	}
	def := Default()
	if s.Classifier.Tokens != def.Classifier.Tokens {
		t.Errorf("Tokens = %+v, want defaults %+v", s.Classifier.Tokens, def.Classifier.Tokens)
	}
	if s.Camera.Overview != def.Camera.Overview {
		t.Errorf("Overview = %+v, want default", s.Camera.Overview)
	}
}

func TestLoadPose(t *testing.T) {
	doc := `
[camera.detail]
position = [1.0, 2.0, 3.0]
target = [4.0, 5.0, 6.0]
`
	s, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Pose{Position: Vec{1, 2, 3}, Target: Vec{4, 5, 6}}
	if s.Camera.Detail != want {
		t.Errorf("Detail = %+v, want %+v", s.Camera.Detail, want)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad toml", `highlight = `, "parse"},
		{"threshold too high", "[classifier]\nknob_brightness_threshold = 2.0", "knob_brightness_threshold"},
		{"empty token", "[classifier.tokens]\nknob = \"\"", "tokens"},
		{"zero duration", "[camera]\nduration_ms = 0", "duration_ms"},
		{"bad fov", "[snapshot]\nfov = 0.0", "fov"},
		{"black highlight", `highlight = "#000000"`, "highlight"},
		{"unparsable highlight", `highlight = "pink"`, "highlight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadFileMissingIsDefault(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s != Default() {
		t.Errorf("missing file did not yield defaults")
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	want := Default()
	want.CheckoutURL = "https://shop.example/checkout"
	data, err := want.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "padforge.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padforge.toml")
	if err := os.WriteFile(path, []byte(`button_clip = "click"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, path)
	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.ButtonClip != "click" {
		t.Errorf("ButtonClip = %q, want click", s.ButtonClip)
	}
}
