package broadcast

import (
	"clapshot/internal/events"
	"encoding/json"
	"log"
	"sync"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Msg   string
}

// Broadcaster fans a cabinet's events out to spectators.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		Clients: make(map[chan Message]bool),
	}
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

// Publish sends ev as JSON under its kind as the event name.
func (b *Broadcaster) Publish(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Broadcast] Marshal error: %v\n", err)
		return
	}
	b.Broadcast(string(ev.Kind), string(data))
}

func (b *Broadcaster) Broadcast(event string, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Msg: message}:
		default:
			// skip clients with full data channels
		}
	}
}
