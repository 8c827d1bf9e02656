package configurator

import "maps"

// Config is the record of every colour choice, keyed by colour name. It is
// the only state the configurator exposes to the hosting page.
type Config struct {
	Chasis  string            `json:"chasis"`
	Buttons map[string]string `json:"buttons"`
	Knobs   map[string]string `json:"knobs"`
}

// NewConfig returns an empty config with non-nil maps.
func NewConfig() Config {
	return Config{Buttons: map[string]string{}, Knobs: map[string]string{}}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := Config{Chasis: c.Chasis, Buttons: maps.Clone(c.Buttons), Knobs: maps.Clone(c.Knobs)}
	if out.Buttons == nil {
		out.Buttons = map[string]string{}
	}
	if out.Knobs == nil {
		out.Knobs = map[string]string{}
	}
	return out
}

// Equal reports whether c and o record the same choices.
func (c Config) Equal(o Config) bool {
	return c.Chasis == o.Chasis && maps.Equal(c.Buttons, o.Buttons) && maps.Equal(c.Knobs, o.Knobs)
}

// set records colour for node in group g. The chassis is a single entry
// regardless of node.
func (c *Config) set(g Group, node, colour string) {
	switch g {
	case GroupChasis:
		c.Chasis = colour
	case GroupButtons:
		c.Buttons[node] = colour
	case GroupKnobs:
		c.Knobs[node] = colour
	}
}

// Store holds the current Config and notifies subscribers once per commit
// that changes it. Store is not safe for concurrent use; Configurator
// serializes access.
type Store struct {
	cfg  Config
	subs []func(Config)
}

// NewStore returns a store holding an empty config.
func NewStore() *Store {
	return &Store{cfg: NewConfig()}
}

// Get returns a copy of the current config.
func (s *Store) Get() Config {
	return s.cfg.Clone()
}

// Subscribe registers fn to receive the whole config after every
// effective commit.
func (s *Store) Subscribe(fn func(Config)) {
	s.subs = append(s.subs, fn)
}

// Update applies fn to a working copy and commits it. Subscribers hear
// about the commit once, and only if it changed something. Update reports
// whether it did.
func (s *Store) Update(fn func(*Config)) bool {
	next := s.cfg.Clone()
	fn(&next)
	if next.Equal(s.cfg) {
		return false
	}
	s.cfg = next
	s.notify()
	return true
}

// Reset replaces the config wholesale and always notifies.
func (s *Store) Reset(cfg Config) {
	s.cfg = cfg.Clone()
	s.notify()
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn(s.cfg.Clone())
	}
}
