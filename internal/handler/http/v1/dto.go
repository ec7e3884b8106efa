package v1

import (
	"time"
)

// UpdateLocationRequest DTO отчёта агента о позиции
// @Description DTO отчёта агента о позиции. Координаты принимаются как
// @Description произвольный JSON: их тип проверяет сервис, чтобы отличить
// @Description нечисловое значение от отсутствующего.
type UpdateLocationRequest struct {
	AgentID string `json:"agentId"`
	Lat     any    `json:"lat" swaggertype:"number"`
	Lon     any    `json:"lon" swaggertype:"number"`
}

// LocationResponse DTO записи о позиции агента
// @Description DTO записи о позиции агента
type LocationResponse struct {
	AgentID    string    `json:"agentId"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ObservedAt time.Time `json:"observedAt"`
}

// ValidationErrorResponse DTO отказа валидации с машиночитаемым кодом причины
// @Description DTO отказа валидации с машиночитаемым кодом причины
type ValidationErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
