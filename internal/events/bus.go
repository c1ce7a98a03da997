package events

// Topics the view-model publishes on. Subscribers run synchronously after
// each mutation, on the mutating goroutine, with no debouncing.
const (
	TopicThemeChanged = "theme.changed"
	TopicCartChanged  = "cart.changed"
)

type Handler func()

// Bus is a minimal synchronous observer registry. It replaces ambient
// reactive watches with explicit registration: mutation code publishes,
// wiring code subscribes the persistence side effects.
type Bus struct {
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(topic string, h Handler) {
	b.handlers[topic] = append(b.handlers[topic], h)
}

func (b *Bus) Publish(topic string) {
	for _, h := range b.handlers[topic] {
		h()
	}
}
