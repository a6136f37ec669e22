package config

import (
	"os"
	"strconv"
)

// Config hostel-sentinel service configuration, loaded from environment
// variables with local-dev defaults.
type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Store struct {
		KeyPrefix string
	}
	Forecast struct {
		WindowDays  int
		HorizonDays int
	}
	MQTT struct {
		Enabled  bool
		Broker   string
		ClientID string
		Username string
		Password string
		Topic    string
		QoS      byte
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Store.KeyPrefix = getEnv("STORE_KEY_PREFIX", "sentinel:")

	cfg.Forecast.WindowDays = parseInt(getEnv("FORECAST_WINDOW_DAYS", "30"), 30)
	cfg.Forecast.HorizonDays = parseInt(getEnv("FORECAST_HORIZON_DAYS", "7"), 7)

	// Spike-alert publishing is opt-in.
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "hostel-sentinel")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_ALERT_TOPIC", "sentinel/alerts")
	cfg.MQTT.QoS = 1

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
