// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every runtime knob for the gameshow server. Values come from
// environment variables (godotenv autoload in main) with sensible defaults.
type Config struct {
	// Port the HTTP/WebSocket server listens on.
	Port string

	// ContentBaseURL is the base URL of the external catalog + question-bank
	// service (events and question fetches share one upstream).
	ContentBaseURL string

	// PointsBaseURL is the base URL of the external user-profile/points sink.
	PointsBaseURL string

	// GameName filters the event catalog to one game/category.
	GameName string

	// GameStartDelay is D in the join-window computation:
	// joinFrom = start + D, gameStart = joinFrom + D, joinUntil = gameStart.
	GameStartDelay time.Duration

	// QuestionTime is how long answers are accepted after a question is pushed.
	QuestionTime time.Duration

	// QuestionPause is the gap between the answer reveal and the next question.
	QuestionPause time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "3000"),
		ContentBaseURL: getEnv("CONTENT_BASE_URL", "http://localhost:5001"),
		PointsBaseURL:  getEnv("POINTS_BASE_URL", "http://localhost:5002"),
		GameName:       getEnv("GAME_NAME", "Trivia"),
		GameStartDelay: getEnvDurationMs("GAME_START_DELAY_MS", 30000),
		QuestionTime:   getEnvDurationMs("QUESTION_TIME_MS", 10000),
		QuestionPause:  getEnvDurationMs("QUESTION_PAUSE_MS", 3000),
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvDurationMs parses an environment variable as integer milliseconds,
// else returns the default.
func getEnvDurationMs(key string, defMs int) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return time.Duration(defMs) * time.Millisecond
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return time.Duration(defMs) * time.Millisecond
	}
	return time.Duration(v) * time.Millisecond
}
