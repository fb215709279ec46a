package configs

import (
	"os"
	"strconv"
	"strings"
)

type Envs struct {
	Addr           string
	AllowedOrigins []string
	GinMode        string
	LogLevel       string
	MaxStrokeWidth int
}

// Load reads the process environment once. Every variable has a default
// suitable for a local run; MaxStrokeWidth zero means the canvas default.
func Load() Envs {
	return Envs{
		Addr:           envOrDefault("CANVAS_ADDR", ":5000"),
		AllowedOrigins: strings.Split(envOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		GinMode:        os.Getenv("GIN_MODE"),
		LogLevel:       envOrDefault("LOG_LEVEL", "debug"),
		MaxStrokeWidth: envIntOrDefault("MAX_STROKE_WIDTH", 0),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
