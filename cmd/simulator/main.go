package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/bus_tracking_system/pkg/logger"
)

// Симулятор движения: проигрывает фиксированные маршруты по кругу и
// отправляет отчёты о позиции на бэкенд с постоянным интервалом.

type waypoint struct {
	Lat float64
	Lon float64
}

// Маршруты как последовательности точек; каждый тик автобус переходит
// к следующей точке своего маршрута.
var routes = map[string][]waypoint{
	"Bus-01": {
		{Lat: 28.6139, Lon: 77.2090}, // Delhi
		{Lat: 28.5355, Lon: 77.3910}, // Noida
		{Lat: 28.4595, Lon: 77.0266}, // Gurgaon
	},
	"Bus-02": {
		{Lat: 19.0760, Lon: 72.8777}, // Mumbai
		{Lat: 19.0213, Lon: 72.8424}, // Dadar
		{Lat: 19.1176, Lon: 72.8631}, // Andheri
	},
}

type reportPayload struct {
	AgentID string  `json:"agentId"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func main() {
	log := logger.New(getEnv("LOG_LEVEL", "info"))

	backendURL := getEnv("BACKEND_URL", "http://localhost:8080/api/v1/locations")
	interval := getEnvAsDuration("SIMULATOR_INTERVAL", 5*time.Second)

	client := &http.Client{Timeout: 5 * time.Second}
	positions := make(map[string]int)

	log.WithFields(logrus.Fields{
		"backend":  backendURL,
		"interval": interval.String(),
		"buses":    len(routes),
	}).Info("Starting bus simulator...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Info("Simulator stopped")
			return
		case <-ticker.C:
			for busID, route := range routes {
				positions[busID] = (positions[busID] + 1) % len(route)
				point := route[positions[busID]]

				if err := sendReport(client, backendURL, busID, point); err != nil {
					// Недоступный бэкенд не останавливает симуляцию.
					log.WithError(err).WithField("bus_id", busID).Error("Failed to send location report")
					continue
				}
				log.WithFields(logrus.Fields{
					"bus_id": busID,
					"lat":    point.Lat,
					"lon":    point.Lon,
				}).Info("Sent location report")
			}
		}
	}
}

// sendReport отправляет один отчёт о позиции на бэкенд.
func sendReport(client *http.Client, url, busID string, point waypoint) error {
	payload, err := json.Marshal(reportPayload{AgentID: busID, Lat: point.Lat, Lon: point.Lon})
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend rejected report: status %d", resp.StatusCode)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
