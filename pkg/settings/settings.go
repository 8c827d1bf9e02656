// Package settings holds the tunable data of the configurator: classifier
// tokens, the knob brightness threshold, camera presets and timings, the
// snapshot pose and the checkout location. Values come from an optional
// TOML file layered over Default().
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// EnvVar names the environment variable holding the settings file path.
const EnvVar = "PADFORGE_SETTINGS"

// Vec is a point or direction in scene units.
type Vec [3]float64

// Pose is a camera position/target pair.
type Pose struct {
	Position Vec `toml:"position"`
	Target   Vec `toml:"target"`
}

// Tokens are the lower-case name substrings the classifier matches on.
type Tokens struct {
	Chasis string `toml:"chasis"`
	Button string `toml:"button"`
	Knob   string `toml:"knob"`
}

// Classifier configures group classification.
type Classifier struct {
	Tokens Tokens `toml:"tokens"`

	// KnobBrightnessThreshold is the average RGB channel value (0..1) below
	// which a knob-named node counts as a colourable cap.
	KnobBrightnessThreshold float64 `toml:"knob_brightness_threshold"`
}

// Camera configures presets and animation.
type Camera struct {
	DurationMs    float64 `toml:"duration_ms"`
	FOV           float64 `toml:"fov"`
	Overview      Pose    `toml:"overview"`
	Detail        Pose    `toml:"detail"`
	LateralOffset float64 `toml:"lateral_offset"`
	OrbitEnabled  bool    `toml:"orbit_enabled"`
}

// Snapshot configures the catalog capture.
type Snapshot struct {
	Pose   Pose    `toml:"pose"`
	FOV    float64 `toml:"fov"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
}

// Settings is the full settings document.
type Settings struct {
	Classifier  Classifier `toml:"classifier"`
	Highlight   string     `toml:"highlight"` // emissive hex colour
	Camera      Camera     `toml:"camera"`
	Snapshot    Snapshot   `toml:"snapshot"`
	ButtonClip  string     `toml:"button_clip"`
	CheckoutURL string     `toml:"checkout_url"`
	MeshCells   int        `toml:"mesh_cells"`
	Layout      string     `toml:"layout"` // optional script path replacing the built-in controller
}

// Default returns the compiled-in settings.
func Default() Settings {
	return Settings{
		Classifier: Classifier{
			Tokens:                  Tokens{Chasis: "chasis", Button: "boton", Knob: "knob"},
			KnobBrightnessThreshold: 0.5,
		},
		Highlight: "#444444",
		Camera: Camera{
			DurationMs: 1000,
			FOV:        50,
			Overview: Pose{
				Position: Vec{150, 260, 420},
				Target:   Vec{150, 15, 100},
			},
			Detail: Pose{
				Position: Vec{150, 330, 180},
				Target:   Vec{150, 15, 100},
			},
			LateralOffset: 60,
			OrbitEnabled:  true,
		},
		Snapshot: Snapshot{
			Pose: Pose{
				Position: Vec{150, 420, 520},
				Target:   Vec{150, 15, 100},
			},
			FOV:    30,
			Width:  640,
			Height: 480,
		},
		ButtonClip:  "press",
		CheckoutURL: "https://example.com/checkout",
		MeshCells:   48,
	}
}

// Load reads a TOML document over Default(). Keys absent from the document
// keep their default values.
func Load(data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile reads the settings file at path. A missing file yields Default().
func LoadFile(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}
	return Load(data)
}

// FromEnv loads the file named by EnvVar, or Default() if unset.
func FromEnv() (Settings, error) {
	return LoadFile(os.Getenv(EnvVar))
}

// Validate rejects settings the configurator cannot run with.
func (s Settings) Validate() error {
	t := s.Classifier.Tokens
	if t.Chasis == "" || t.Button == "" || t.Knob == "" {
		return fmt.Errorf("settings: classifier tokens must be non-empty")
	}
	hl, err := colorful.Hex(s.Highlight)
	if err != nil {
		return fmt.Errorf("settings: highlight %q is not a hex colour", s.Highlight)
	}
	// A black emissive does not light the selection.
	if hl == (colorful.Color{}) {
		return fmt.Errorf("settings: highlight must not be black")
	}
	if th := s.Classifier.KnobBrightnessThreshold; th < 0 || th > 1 {
		return fmt.Errorf("settings: knob_brightness_threshold %v outside [0, 1]", th)
	}
	if s.Camera.DurationMs <= 0 {
		return fmt.Errorf("settings: camera duration_ms must be positive")
	}
	if s.Camera.FOV <= 0 || s.Camera.FOV >= 180 || s.Snapshot.FOV <= 0 || s.Snapshot.FOV >= 180 {
		return fmt.Errorf("settings: fov must be in (0, 180)")
	}
	if s.Snapshot.Width <= 0 || s.Snapshot.Height <= 0 {
		return fmt.Errorf("settings: snapshot size must be positive")
	}
	return nil
}

// Marshal encodes s as TOML.
func (s Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}
