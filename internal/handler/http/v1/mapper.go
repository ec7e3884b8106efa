package v1

import (
	"github.com/shenikar/bus_tracking_system/internal/models"
	"github.com/shenikar/bus_tracking_system/internal/service"
)

// DTOToSubmitInput преобразует DTO отчёта во входные данные сервиса
func DTOToSubmitInput(dto UpdateLocationRequest) service.SubmitLocationInput {
	return service.SubmitLocationInput{
		AgentID: dto.AgentID,
		Lat:     dto.Lat,
		Lon:     dto.Lon,
	}
}

// ModelToLocationResponse преобразует доменную модель в DTO для ответа
func ModelToLocationResponse(model models.LocationRecord) LocationResponse {
	return LocationResponse{
		AgentID:    model.AgentID,
		Lat:        model.Latitude,
		Lon:        model.Longitude,
		ObservedAt: model.ObservedAt,
	}
}

// ModelsToLocationResponses преобразует слайс моделей в слайс DTO
func ModelsToLocationResponses(records []models.LocationRecord) []LocationResponse {
	responses := make([]LocationResponse, len(records))
	for i, record := range records {
		responses[i] = ModelToLocationResponse(record)
	}
	return responses
}
