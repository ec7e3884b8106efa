package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/bus_tracking_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks

// LocationRepository определяет контракт хранилища позиций для сервиса
type LocationRepository interface {
	Upsert(record models.LocationRecord) models.LocationRecord
	Snapshot() ([]models.LocationRecord, uint64)
}

// TrackerService определяет контракт приёма отчётов о позиции и чтения снапшота
type TrackerService interface {
	SubmitLocation(ctx context.Context, input SubmitLocationInput) (models.LocationRecord, error)
	ListLocations(ctx context.Context) []models.LocationRecord
}

// SubmitLocationInput - сырой отчёт агента до валидации. Координаты
// приходят как any: их тип проверяет сервис, а не кодек, чтобы отличать
// нечисловое значение от отсутствующего.
type SubmitLocationInput struct {
	AgentID string
	Lat     any
	Lon     any
}

type trackerService struct {
	repo     LocationRepository
	logger   *logrus.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewTrackerService(repo LocationRepository, logger *logrus.Logger) TrackerService {
	return &trackerService{
		repo:     repo,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SubmitLocation валидирует отчёт, проставляет время наблюдения и
// сохраняет запись. Проверки идут по порядку, первая неудачная решает:
// наличие agentId, числовые координаты, допустимый диапазон. При отказе
// хранилище не меняется и событие не рассылается.
func (s *trackerService) SubmitLocation(ctx context.Context, input SubmitLocationInput) (models.LocationRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "tracker",
		"method":   "SubmitLocation",
		"agent_id": input.AgentID,
	})

	if input.AgentID == "" {
		log.Warn("Report rejected: missing agent id")
		return models.LocationRecord{}, ErrMissingAgentID
	}

	lat, ok := coordinateValue(input.Lat)
	if !ok {
		log.Warn("Report rejected: latitude is not a finite number")
		return models.LocationRecord{}, ErrInvalidCoordinate
	}
	lon, ok := coordinateValue(input.Lon)
	if !ok {
		log.Warn("Report rejected: longitude is not a finite number")
		return models.LocationRecord{}, ErrInvalidCoordinate
	}

	if err := s.validate.Var(lat, "latitude"); err != nil {
		log.WithField("lat", lat).Warn("Report rejected: latitude out of range")
		return models.LocationRecord{}, ErrOutOfRange
	}
	if err := s.validate.Var(lon, "longitude"); err != nil {
		log.WithField("lon", lon).Warn("Report rejected: longitude out of range")
		return models.LocationRecord{}, ErrOutOfRange
	}

	record := s.repo.Upsert(models.LocationRecord{
		AgentID:    input.AgentID,
		Latitude:   lat,
		Longitude:  lon,
		ObservedAt: s.now().UTC(),
	})

	log.WithFields(logrus.Fields{"lat": lat, "lon": lon}).Info("Location stored")
	return record, nil
}

// ListLocations возвращает снапшот всех текущих записей без побочных эффектов
func (s *trackerService) ListLocations(ctx context.Context) []models.LocationRecord {
	records, _ := s.repo.Snapshot()
	return records
}

// coordinateValue приводит декодированное из JSON значение координаты к
// float64. Булевы, строковые, отсутствующие и нечисловые значения
// отвергаются; NaN и бесконечности тоже.
func coordinateValue(v any) (float64, bool) {
	value, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
