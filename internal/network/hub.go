package network

import (
	"sync"

	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"
)

// Broadcaster занимается только рассылкой снимков подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.ServerResponse
	bufferSize  int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
		bufferSize:  100,
	}
}

// Register создает личный канал для сессии (Игрока или Бота)
func (b *Broadcaster) Register(id string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, b.bufferSize)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика. Повторный вызов ничего не делает.
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет сообщение конкретному ID (Unicast).
// Медленный подписчик теряет снимок, игровой цикл не блокируется.
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[id]; ok {
		select {
		case ch <- msg:
		default:
			logger.Log.WithField("session_id", id).Debug("Hub: channel full, snapshot dropped")
		}
	}
}

// Broadcast отправляет всем подписчикам (сервер так сообщает об остановке)
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, смотрит ли кто-то на сессию
func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
