package repository

import (
	"sync"
	"time"

	"github.com/shenikar/bus_tracking_system/internal/models"
)

// EventSink получает события изменения хранилища. Методы вызываются
// внутри критической секции хранилища, в порядке применения мутаций,
// поэтому реализация обязана только ставить событие в очередь и не
// выполнять I/O.
type EventSink interface {
	LocationUpdated(record models.LocationRecord, rev uint64)
	LocationRemoved(agentID string, rev uint64)
}

// LocationStore хранит последнюю известную позицию каждого агента.
// Единственный владелец таблицы: upsert, remove, sweep и snapshot
// взаимоисключающие, частично применённое состояние снаружи не видно.
// Каждая мутация получает монотонно растущую ревизию; ревизия снапшота
// позволяет наблюдателям отсекать уже учтённые в нём события.
type LocationStore struct {
	mu      sync.Mutex
	records map[string]models.LocationRecord
	rev     uint64
	sink    EventSink
}

func NewLocationStore() *LocationStore {
	return &LocationStore{
		records: make(map[string]models.LocationRecord),
	}
}

// SetEventSink подключает получателя событий. Вызывается один раз при
// сборке приложения, до начала приёма отчётов.
func (s *LocationStore) SetEventSink(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Upsert вставляет или полностью заменяет запись агента и возвращает
// сохранённую запись. Запись не сливается по полям: новый отчёт целиком
// вытесняет предыдущий.
func (s *LocationStore) Upsert(record models.LocationRecord) models.LocationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.AgentID] = record
	s.rev++
	if s.sink != nil {
		s.sink.LocationUpdated(record, s.rev)
	}
	return record
}

// Remove удаляет запись, если она есть, и сообщает, была ли она.
// Идемпотентен.
func (s *LocationStore) Remove(agentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[agentID]; !ok {
		return false
	}
	delete(s.records, agentID)
	s.rev++
	if s.sink != nil {
		s.sink.LocationRemoved(agentID, s.rev)
	}
	return true
}

// Snapshot возвращает копию всех текущих записей и ревизию хранилища на
// момент копии. Последующие мутации через копию не наблюдаемы; порядок
// записей не определён.
func (s *LocationStore) Snapshot() ([]models.LocationRecord, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.LocationRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, s.rev
}

// SweepExpired удаляет записи, молчавшие дольше ttl, и возвращает их
// идентификаторы. Возраст считается отдельно для каждой записи на момент
// обхода.
func (s *LocationStore) SweepExpired(now time.Time, ttl time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for agentID, record := range s.records {
		if now.Sub(record.ObservedAt) > ttl {
			delete(s.records, agentID)
			s.rev++
			if s.sink != nil {
				s.sink.LocationRemoved(agentID, s.rev)
			}
			removed = append(removed, agentID)
		}
	}
	return removed
}
