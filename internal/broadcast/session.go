package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shenikar/bus_tracking_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// Предельное время записи одного сообщения в сокет.
	writeWait = 10 * time.Second

	// Сколько ждём pong от клиента, прежде чем считать соединение мёртвым.
	pongWait = 60 * time.Second

	// Период отправки ping; должен быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Клиент не шлёт прикладных сообщений, лимит чисто защитный.
	maxMessageSize = 512
)

// snapshotPayload - стартовый снапшот сессии вместе с ревизией
// хранилища на момент его снятия.
type snapshotPayload struct {
	records []models.LocationRecord
	rev     uint64
}

// Session - одно подключение наблюдателя. Живёт от подключения до
// разрыва; повторное подключение клиента создаёт новую сессию и
// получает свежий снапшот. Доменным состоянием сессия не владеет,
// только очередью доставки и сокетом.
type Session struct {
	ID uuid.UUID

	hub    *Hub
	conn   *websocket.Conn
	logger *logrus.Logger

	send      chan Event
	snapshot  chan snapshotPayload
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(hub *Hub, conn *websocket.Conn, sendBuffer int, logger *logrus.Logger) *Session {
	return &Session{
		ID:       uuid.New(),
		hub:      hub,
		conn:     conn,
		logger:   logger,
		send:     make(chan Event, sendBuffer),
		snapshot: make(chan snapshotPayload, 1),
		done:     make(chan struct{}),
	}
}

// deliverSnapshot передаёт сессии стартовый снапшот. Вызывается хабом
// ровно один раз, сразу после регистрации.
func (s *Session) deliverSnapshot(records []models.LocationRecord, rev uint64) {
	select {
	case s.snapshot <- snapshotPayload{records: records, rev: rev}:
	case <-s.done:
	}
}

// enqueue кладёт событие в буфер сессии без блокировки. false означает,
// что буфер полон и сессию нужно отключить; уже закрытая сессия
// отстающей не считается.
func (s *Session) enqueue(event Event) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

// close переводит сессию в терминальное состояние. Повторные вызовы
// безопасны.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// WritePump пишет сообщения в сокет наблюдателя. Первым и ровно один
// раз уходит initialLocations; дальше идут только события с ревизией
// больше ревизии снапшота, поэтому запись, уже вошедшая в снапшот, не
// доставляется повторно. Должен работать в отдельной горутине, по
// одной на сессию.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.hub.Unregister(s)
	}()

	var sinceRev uint64
	select {
	case payload := <-s.snapshot:
		sinceRev = payload.rev
		if err := s.write(Message{Type: MessageInitialLocations, Data: payload.records}); err != nil {
			return
		}
	case <-s.done:
		return
	}

	for {
		select {
		case event := <-s.send:
			if event.Rev <= sinceRev {
				continue
			}
			if err := s.write(event.message()); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) write(message Message) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(message)
}

// ReadPump вычитывает и отбрасывает входящие сообщения: протокол не
// требует сообщений от клиента, но чтение нужно для обработки pong и
// обнаружения разрыва. Должен работать в отдельной горутине.
func (s *Session) ReadPump() {
	defer s.hub.Unregister(s)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.WithField("session_id", s.ID).WithError(err).Debug("Observer connection closed unexpectedly")
			}
			return
		}
	}
}
