package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`

	GeocodeProvider   string `mapstructure:"GEOCODE_PROVIDER"`
	GoogleMapsAPIKey  string `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GoogleMapsBaseURL string `mapstructure:"GOOGLE_MAPS_BASE_URL"`

	ProfileStore  string `mapstructure:"PROFILE_STORE"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`

	ProxyBaseURL   string        `mapstructure:"PROXY_BASE_URL"`
	ProfileBaseURL string        `mapstructure:"PROFILE_BASE_URL"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	LocalStorePath string        `mapstructure:"LOCAL_STORE_PATH"`

	MQTTBroker         string  `mapstructure:"MQTT_BROKER"`
	MQTTTopic          string  `mapstructure:"MQTT_TOPIC"`
	MQTTClientID       string  `mapstructure:"MQTT_CLIENT_ID"`
	HighAccuracyMeters float64 `mapstructure:"HIGH_ACCURACY_METERS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":       "0.0.0.0:8080",
	"DB_SOURCE":            "",
	"GOOGLE_MAPS_API_KEY":  "",
	"MONGO_URI":            "",
	"JWT_SECRET":           "",
	"MQTT_BROKER":          "",
	"LOG_PRETTY":           false,
	"GEOCODE_PROVIDER":     "google",
	"GOOGLE_MAPS_BASE_URL": "https://maps.googleapis.com/maps/api/geocode/json",
	"PROFILE_STORE":        "postgres",
	"MONGO_DATABASE":       "storefront",
	"PROXY_BASE_URL":       "http://localhost:8080",
	"PROFILE_BASE_URL":     "http://localhost:8080",
	"HTTP_TIMEOUT":         "10s",
	"LOCAL_STORE_PATH":     "./data/local.db",
	"MQTT_TOPIC":           "devices/+/position",
	"MQTT_CLIENT_ID":       "locate",
	"HIGH_ACCURACY_METERS": 50.0,
	"LOG_LEVEL":            "info",
}

// LoadConfig reads configuration from app.env in path, a local .env file and the environment.
// Environment variables take precedence over both files.
func LoadConfig(path string) (config Config, err error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}
	return config, nil
}
