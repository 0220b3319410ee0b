package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"homesense/pkg/common"
)

var (
	mqttBroker = flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	interval   = flag.Duration("interval", 15*time.Second, "Publish interval per room")
	clientID   = flag.String("client", "smart-home-hub", "MQTT client id")
)

type roomConfig struct {
	deviceID      string
	tempMin       float64
	tempMax       float64
	humidityMin   float64
	humidityMax   float64
	poorAirChance float64
}

// Rooms behave differently: the kitchen runs warmer and more humid
// from cooking and has a higher chance of poor air.
var rooms = map[string]roomConfig{
	"living_room": {
		deviceID:      "smart-home-sensor-01",
		tempMin:       18.0,
		tempMax:       26.0,
		humidityMin:   40.0,
		humidityMax:   60.0,
		poorAirChance: 0.15,
	},
	"kitchen": {
		deviceID:      "smart-home-sensor-02",
		tempMin:       20.0,
		tempMax:       30.0,
		humidityMin:   45.0,
		humidityMax:   70.0,
		poorAirChance: 0.3,
	},
	"bedroom": {
		deviceID:      "smart-home-sensor-03",
		tempMin:       16.0,
		tempMax:       24.0,
		humidityMin:   40.0,
		humidityMax:   55.0,
		poorAirChance: 0.15,
	},
}

type sensorData struct {
	DeviceID       string  `json:"device_id"`
	Room           string  `json:"room"`
	Temperature    float64 `json:"temperature"`
	TempStatus     string  `json:"temp_status"`
	Humidity       float64 `json:"humidity"`
	HumidityStatus string  `json:"humidity_status"`
	AirQuality     float64 `json:"air_quality"`
	AirStatus      string  `json:"air_status"`
	LightLevel     float64 `json:"light_level"`
	LightStatus    string  `json:"light_status"`
	Timestamp      string  `json:"timestamp"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func uniform(min, max float64) float64 {
	return round1(min + rand.Float64()*(max-min))
}

func generateSensorData(room string, cfg roomConfig) sensorData {
	temperature := uniform(cfg.tempMin, cfg.tempMax)

	tempStatus := "NORMAL"
	if temperature > 28.0 {
		tempStatus = "HIGH"
	} else if temperature < 18.0 {
		tempStatus = "LOW"
	}

	humidity := uniform(cfg.humidityMin, cfg.humidityMax)

	var airQuality float64
	airStatus := "GOOD"
	if rand.Float64() < cfg.poorAirChance {
		airQuality = uniform(150.0, 500.0)
		airStatus = "POOR"
	} else {
		airQuality = uniform(0.0, 150.0)
	}

	return sensorData{
		DeviceID:       cfg.deviceID,
		Room:           room,
		Temperature:    temperature,
		TempStatus:     tempStatus,
		Humidity:       humidity,
		HumidityStatus: "NORMAL",
		AirQuality:     airQuality,
		AirStatus:      airStatus,
		LightLevel:     lightLevelFor(room, time.Now().Hour()),
		LightStatus:    "NORMAL",
		Timestamp:      time.Now().Format(time.RFC3339Nano),
	}
}

// lightLevelFor approximates daylight per room: the bedroom stays dim,
// the kitchen peaks around cooking hours, the living room follows the
// plain daylight pattern.
func lightLevelFor(room string, hour int) float64 {
	switch room {
	case "bedroom":
		if hour >= 6 && hour <= 18 {
			return uniform(100.0, 400.0)
		}
		return uniform(0.0, 50.0)
	case "kitchen":
		if (hour >= 7 && hour <= 9) || (hour >= 12 && hour <= 13) || (hour >= 18 && hour <= 20) {
			return uniform(500.0, 1000.0)
		}
		if hour >= 6 && hour <= 22 {
			return uniform(200.0, 600.0)
		}
		return uniform(0.0, 100.0)
	default:
		if hour >= 6 && hour <= 18 {
			return uniform(300.0, 1000.0)
		}
		return uniform(50.0, 200.0)
	}
}

func publishRoom(client mqtt.Client, room string, data sensorData, logger *zap.Logger) {
	base := fmt.Sprintf("smart-home/%s", room)

	publish := func(topic string, payload any) {
		body, err := json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to marshal payload", zap.String("topic", topic), zap.Error(err))
			return
		}
		client.Publish(topic, 0, false, body)
	}

	// One topic per metric, plus the combined payload the hub stores.
	publish(base+"/temperature", map[string]any{"temperature": data.Temperature, "status": data.TempStatus})
	publish(base+"/humidity", map[string]any{"humidity": data.Humidity, "status": data.HumidityStatus})
	publish(base+"/air_quality", map[string]any{"air_quality": data.AirQuality, "status": data.AirStatus})
	publish(base+"/light", map[string]any{"light": data.LightLevel, "status": data.LightStatus})
	publish(base+"/all", data)

	logger.Info("Published readings",
		zap.String("room", room),
		zap.Float64("temperature", data.Temperature),
		zap.Float64("humidity", data.Humidity),
		zap.Float64("air_quality", data.AirQuality),
		zap.String("air_status", data.AirStatus),
		zap.Float64("light_level", data.LightLevel),
	)
}

func runRoom(ctx context.Context, client mqtt.Client, room string, cfg roomConfig, logger *zap.Logger) {
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	publishRoom(client, room, generateSensorData(room, cfg), logger)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publishRoom(client, room, generateSensorData(room, cfg), logger)
		}
	}
}

func main() {
	flag.Parse()

	logger := common.GetLoggerWith("simulator")
	defer logger.Sync()

	opts := mqtt.NewClientOptions().
		AddBroker(*mqttBroker).
		SetClientID(*clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Fatal("Cannot connect to MQTT broker",
			zap.String("broker", *mqttBroker),
			zap.Error(token.Error()))
	}
	logger.Info("Connected to MQTT broker",
		zap.String("broker", *mqttBroker),
		zap.Int("rooms", len(rooms)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for room, cfg := range rooms {
		wg.Add(1)
		go func(room string, cfg roomConfig) {
			defer wg.Done()
			runRoom(ctx, client, room, cfg, logger)
		}(room, cfg)
		time.Sleep(500 * time.Millisecond)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Stopping room simulators")
	cancel()
	wg.Wait()
	client.Disconnect(250)
}
