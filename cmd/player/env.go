package main

import (
	"log"
	"os"
)

type Environment struct {
	Environment   string
	APIBaseURL    string
	ScreenToken   string
	StatusAddress string

	MQTTBrokerURL string

	CacheBackend  string
	RedisAddress  string
	RedisUsername string
	RedisPassword string
	CacheDir      string

	DeviceIDFile string
	VideoPlayer  string
	WeatherCity  string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	env := Environment{
		Environment: os.Getenv("APP_ENV"),
		APIBaseURL:  os.Getenv("API_BASE_URL"),
		ScreenToken: os.Getenv("SCREEN_TOKEN"),

		StatusAddress: os.Getenv("STATUS_ADDRESS"),
		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),

		CacheBackend:  os.Getenv("CACHE_BACKEND"),
		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheDir:      os.Getenv("CACHE_DIR"),

		DeviceIDFile: os.Getenv("DEVICE_ID_FILE"),
		VideoPlayer:  os.Getenv("VIDEO_PLAYER"),
		WeatherCity:  os.Getenv("WEATHER_CITY"),
	}

	if env.APIBaseURL == "" || env.ScreenToken == "" {
		log.Fatal("Missing required environment variables")
	}

	if env.StatusAddress == "" {
		env.StatusAddress = ":9090"
	}
	if env.CacheDir == "" {
		env.CacheDir = "./cache"
	}
	if env.DeviceIDFile == "" {
		env.DeviceIDFile = "./device-id"
	}
	if env.VideoPlayer == "" {
		env.VideoPlayer = "cvlc"
	}

	return env
}
