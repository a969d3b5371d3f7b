package server

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// feedEvent is a single server-sent event on the community stream.
type feedEvent struct {
	name string
	data any
}

// Broadcaster fans feed events out to connected SSE clients.
type Broadcaster struct {
	sync.RWMutex
	clients map[string]chan feedEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[string]chan feedEvent),
	}
}

// Broadcast delivers the event to every client without blocking; slow
// clients miss events rather than stalling the feed.
func (b *Broadcaster) Broadcast(name string, data any) {
	b.RLock()
	defer b.RUnlock()

	for id, client := range b.clients {
		select {
		case client <- feedEvent{name: name, data: data}:
		default:
			log.Warnf("Client channel full, skipping event for client: %v", id)
		}
	}
}

func (b *Broadcaster) AddClient(key string, client chan feedEvent) {
	b.Lock()
	defer b.Unlock()

	b.clients[key] = client
	log.WithFields(log.Fields{
		"key":   key,
		"count": len(b.clients),
	}).Info("Adding client to broadcaster")
}

func (b *Broadcaster) RemoveClient(key string) {
	b.Lock()
	defer b.Unlock()

	if client, ok := b.clients[key]; ok {
		close(client)
		delete(b.clients, key)
	}

	log.WithFields(log.Fields{
		"key":   key,
		"count": len(b.clients),
	}).Info("Removed client from broadcaster")
}

func (b *Broadcaster) Shutdown() {
	log.Info("Shutting down broadcaster")
	b.Lock()
	defer b.Unlock()

	for key, client := range b.clients {
		close(client)
		delete(b.clients, key)
	}
}
