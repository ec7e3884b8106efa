package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/bus_tracking_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Вместимость очереди событий между хранилищем и циклом рассылки.
const eventQueueSize = 256

// SnapshotSource выдаёт согласованную копию текущих записей и ревизию
// хранилища на момент копии.
type SnapshotSource interface {
	Snapshot() ([]models.LocationRecord, uint64)
}

// Hub ведёт реестр подключённых наблюдателей и рассылает им события
// хранилища. Реестр защищён собственным мьютексом и не владеет
// записями: удаление сессии никогда не трогает хранилище. События
// проходят через одну очередь и один цикл рассылки, поэтому каждый
// наблюдатель видит их в порядке применения мутаций.
type Hub struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	events chan Event
	source SnapshotSource
	logger *logrus.Logger
}

func NewHub(source SnapshotSource, logger *logrus.Logger) *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]*Session),
		events:   make(chan Event, eventQueueSize),
		source:   source,
		logger:   logger,
	}
}

// Run запускает цикл рассылки. Должен работать в отдельной горутине;
// останавливается отменой контекста, закрывая все сессии.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("Broadcast hub stopped")
			return
		case event := <-h.events:
			h.fanout(event)
		}
	}
}

// Register добавляет сессию в реестр и выдаёт ей стартовый снапшот.
// Сессия попадает в реестр до снятия снапшота: событие, применённое
// после регистрации, окажется либо в снапшоте, либо в буфере сессии,
// а дубликаты писатель сессии отсекает по ревизии снапшота.
func (h *Hub) Register(session *Session) {
	h.mu.Lock()
	h.sessions[session.ID] = session
	total := len(h.sessions)
	h.mu.Unlock()

	records, rev := h.source.Snapshot()
	session.deliverSnapshot(records, rev)

	h.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"observers":  total,
	}).Info("Observer connected")
}

// Unregister убирает сессию из реестра и закрывает её. Безопасен при
// повторных вызовах: соединения могут закрываться неаккуратно и с двух
// сторон сразу.
func (h *Hub) Unregister(session *Session) {
	h.mu.Lock()
	_, ok := h.sessions[session.ID]
	if ok {
		delete(h.sessions, session.ID)
	}
	total := len(h.sessions)
	h.mu.Unlock()

	session.close()

	if ok {
		h.logger.WithFields(logrus.Fields{
			"session_id": session.ID,
			"observers":  total,
		}).Info("Observer disconnected")
	}
}

// LocationUpdated реализует repository.EventSink. Вызывается внутри
// критической секции хранилища, поэтому только ставит событие в очередь.
func (h *Hub) LocationUpdated(record models.LocationRecord, rev uint64) {
	h.events <- Event{Type: MessageLocationUpdate, Record: record, Rev: rev}
}

// LocationRemoved реализует repository.EventSink.
func (h *Hub) LocationRemoved(agentID string, rev uint64) {
	h.events <- Event{Type: MessageBusRemoved, AgentID: agentID, Rev: rev}
}

// fanout доставляет событие во все зарегистрированные сессии. Реестр
// обходится по стабильной копии, чтобы отключение сессии во время
// рассылки не ломало итерацию. Сессия с переполненным буфером считается
// недостижимой и отключается; остальные продолжают получать события.
func (h *Hub) fanout(event Event) {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.Unlock()

	for _, session := range sessions {
		if !session.enqueue(event) {
			h.logger.WithField("session_id", session.ID).Warn("Observer is not keeping up, dropping session")
			h.Unregister(session)
		}
	}
}

// closeAll отключает всех наблюдателей при остановке хаба.
func (h *Hub) closeAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.sessions = make(map[uuid.UUID]*Session)
	h.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}
}
