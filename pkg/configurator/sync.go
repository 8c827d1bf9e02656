package configurator

// Message types sent to the hosting page.
const (
	MessageConfigUpdate = "configUpdate"
	MessageCheckout     = "checkout"
)

// Message is the wire shape of every outbound message. It always carries
// the whole config, never a delta.
type Message struct {
	Type    string            `json:"type"`
	Chasis  string            `json:"chasis"`
	Buttons map[string]string `json:"buttons"`
	Knobs   map[string]string `json:"knobs"`
}

// NewMessage wraps a copy of cfg.
func NewMessage(kind string, cfg Config) Message {
	c := cfg.Clone()
	return Message{Type: kind, Chasis: c.Chasis, Buttons: c.Buttons, Knobs: c.Knobs}
}

// Poster delivers messages to the hosting page. Delivery is fire and
// forget: Post must not block on the consumer and reports nothing.
type Poster interface {
	Post(Message)
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(Message)

// Post calls f(m).
func (f PosterFunc) Post(m Message) { f(m) }

// Sync posts a configUpdate for every store commit.
func Sync(store *Store, p Poster) {
	store.Subscribe(func(cfg Config) {
		p.Post(NewMessage(MessageConfigUpdate, cfg))
	})
}
