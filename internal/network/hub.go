package network

import (
	"sync"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"
)

// Broadcaster занимается только рассылкой ответов подписчикам сессий.
// Один клиент играет, остальные подписчики той же сессии - зрители.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> каналы подписчиков
	subscribers map[string][]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string][]chan api.ServerResponse),
	}
}

// Subscribe создает личный канал подписчика сессии.
func (b *Broadcaster) Subscribe(sessionID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[sessionID] = append(b.subscribers[sessionID], ch)
	return ch
}

// Unsubscribe удаляет канал подписчика и закрывает его.
func (b *Broadcaster) Unsubscribe(sessionID string, ch chan api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	chans := b.subscribers[sessionID]
	for i, c := range chans {
		if c == ch {
			b.subscribers[sessionID] = append(chans[:i], chans[i+1:]...)
			close(c)
			break
		}
	}
	if len(b.subscribers[sessionID]) == 0 {
		delete(b.subscribers, sessionID)
	}
}

// Publish отправляет ответ всем подписчикам сессии.
// Переполненный канал молча пропускается: медленный зритель
// не должен тормозить партию.
func (b *Broadcaster) Publish(sessionID string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount возвращает количество подписчиков сессии.
func (b *Broadcaster) SubscriberCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[sessionID])
}
