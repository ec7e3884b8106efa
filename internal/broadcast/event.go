package broadcast

import (
	"github.com/shenikar/bus_tracking_system/internal/models"
)

// Типы сообщений push-канала наблюдателей.
const (
	MessageInitialLocations = "initialLocations"
	MessageLocationUpdate   = "locationUpdate"
	MessageBusRemoved       = "busRemoved"
)

// Message - конверт сообщения, уходящего наблюдателю по сокету.
// Для busRemoved в Data лежит идентификатор агента, для остальных
// типов запись или список записей.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event - событие изменения хранилища внутри хаба. Rev несёт ревизию
// хранилища на момент применения мутации: сессия отбрасывает события с
// ревизией не больше ревизии своего стартового снапшота, чтобы не
// доставлять уже учтённое в нём повторно.
type Event struct {
	Type    string
	Record  models.LocationRecord
	AgentID string
	Rev     uint64
}

// message собирает проводной конверт события.
func (e Event) message() Message {
	if e.Type == MessageBusRemoved {
		return Message{Type: e.Type, Data: e.AgentID}
	}
	return Message{Type: e.Type, Data: e.Record}
}
