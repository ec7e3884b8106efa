package models

import (
	"time"
)

// LocationRecord представляет последнюю известную позицию одного агента (автобуса).
// Запись полностью заменяется при каждом новом валидном отчёте и удаляется
// планировщиком очистки после LOCATION_TTL молчания.
type LocationRecord struct {
	AgentID    string    `json:"agentId"`
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lon"`
	ObservedAt time.Time `json:"observedAt"`
}
