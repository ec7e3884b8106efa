package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/shenikar/bus_tracking_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sinkEvent - одно зафиксированное тестовым приёмником событие хранилища.
type sinkEvent struct {
	kind    string
	agentID string
	rev     uint64
}

// recordingSink записывает события хранилища для проверок.
type recordingSink struct {
	mu     sync.Mutex
	events []sinkEvent
}

func (s *recordingSink) LocationUpdated(record models.LocationRecord, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{kind: "updated", agentID: record.AgentID, rev: rev})
}

func (s *recordingSink) LocationRemoved(agentID string, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{kind: "removed", agentID: agentID, rev: rev})
}

func (s *recordingSink) all() []sinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkEvent(nil), s.events...)
}

func newTestStore() (*LocationStore, *recordingSink) {
	store := NewLocationStore()
	sink := &recordingSink{}
	store.SetEventSink(sink)
	return store, sink
}

func record(agentID string, lat, lon float64, observedAt time.Time) models.LocationRecord {
	return models.LocationRecord{
		AgentID:    agentID,
		Latitude:   lat,
		Longitude:  lon,
		ObservedAt: observedAt,
	}
}

func TestUpsert_OverwritesExistingRecord(t *testing.T) {
	// Подготовка
	store, _ := newTestStore()
	now := time.Now().UTC()

	// Действие: два отчёта одного агента подряд
	store.Upsert(record("Bus-01", 28.6139, 77.2090, now))
	store.Upsert(record("Bus-01", 28.5355, 77.3910, now.Add(time.Second)))

	// Проверки: в снапшоте ровно одна запись с координатами последнего отчёта
	records, _ := store.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "Bus-01", records[0].AgentID)
	assert.Equal(t, 28.5355, records[0].Latitude)
	assert.Equal(t, 77.3910, records[0].Longitude)
	assert.Equal(t, now.Add(time.Second), records[0].ObservedAt)
}

func TestUpsert_EmitsEventsInApplyOrder(t *testing.T) {
	// Подготовка
	store, sink := newTestStore()
	now := time.Now().UTC()

	// Действие
	store.Upsert(record("Bus-01", 10, 20, now))
	store.Upsert(record("Bus-02", 30, 40, now))

	// Проверки: по событию на мутацию, ревизии строго растут
	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, sinkEvent{kind: "updated", agentID: "Bus-01", rev: 1}, events[0])
	assert.Equal(t, sinkEvent{kind: "updated", agentID: "Bus-02", rev: 2}, events[1])

	_, rev := store.Snapshot()
	assert.Equal(t, uint64(2), rev)
}

func TestRemove_Idempotent(t *testing.T) {
	// Подготовка
	store, sink := newTestStore()
	store.Upsert(record("Bus-01", 10, 20, time.Now().UTC()))

	// Действие и проверки: повторное удаление не событие и не ошибка
	assert.True(t, store.Remove("Bus-01"))
	assert.False(t, store.Remove("Bus-01"))
	assert.False(t, store.Remove("never-existed"))

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, "removed", events[1].kind)
	assert.Equal(t, "Bus-01", events[1].agentID)

	records, _ := store.Snapshot()
	assert.Empty(t, records)
}

func TestSnapshot_IsPointInTimeCopy(t *testing.T) {
	// Подготовка
	store, _ := newTestStore()
	store.Upsert(record("Bus-01", 10, 20, time.Now().UTC()))

	// Действие: мутируем хранилище после снятия снапшота
	snapshot, _ := store.Snapshot()
	store.Upsert(record("Bus-02", 30, 40, time.Now().UTC()))
	store.Remove("Bus-01")

	// Проверки: копия не видит последующих мутаций
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Bus-01", snapshot[0].AgentID)
	assert.Equal(t, 10.0, snapshot[0].Latitude)
}

func TestSweepExpired_RemovesOnlyStaleRecords(t *testing.T) {
	// Подготовка: одна запись устарела, вторая в пределах TTL
	store, sink := newTestStore()
	now := time.Now().UTC()
	ttl := 5 * time.Minute

	store.Upsert(record("Bus-01", 10, 20, now.Add(-10*time.Minute)))
	store.Upsert(record("Bus-02", 30, 40, now.Add(-time.Minute)))

	// Действие
	removed := store.SweepExpired(now, ttl)

	// Проверки: удалён ровно устаревший, событие removed одно
	assert.Equal(t, []string{"Bus-01"}, removed)

	records, _ := store.Snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "Bus-02", records[0].AgentID)

	var removedEvents []sinkEvent
	for _, event := range sink.all() {
		if event.kind == "removed" {
			removedEvents = append(removedEvents, event)
		}
	}
	require.Len(t, removedEvents, 1)
	assert.Equal(t, "Bus-01", removedEvents[0].agentID)
}

func TestSweepExpired_AgeIsPerRecord(t *testing.T) {
	// Подготовка: запись ровно на границе TTL не считается устаревшей
	store, _ := newTestStore()
	now := time.Now().UTC()
	ttl := 5 * time.Minute

	store.Upsert(record("Bus-01", 10, 20, now.Add(-ttl)))

	// Действие
	removed := store.SweepExpired(now, ttl)

	// Проверки
	assert.Empty(t, removed)
	records, _ := store.Snapshot()
	assert.Len(t, records, 1)
}

func TestStore_WithoutSinkDoesNotPanic(t *testing.T) {
	// Подготовка: приёмник событий не подключён
	store := NewLocationStore()

	// Действие и проверки
	store.Upsert(record("Bus-01", 10, 20, time.Now().UTC().Add(-time.Hour)))
	assert.NotEmpty(t, store.SweepExpired(time.Now().UTC(), time.Minute))
	assert.False(t, store.Remove("Bus-01"))
}
