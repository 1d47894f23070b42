package models

import "errors"

var (
	ErrNotFound    = errors.New("city not found")
	ErrProvider    = errors.New("weather provider error")
	ErrNetwork     = errors.New("network error")
	ErrPersistence = errors.New("persistence error")

	// ErrCacheMiss means the response cache holds no usable entry.
	ErrCacheMiss = errors.New("cache miss")
)

const (
	msgNotFound = "City not found. Please check the spelling and try again."
	msgProvider = "Failed to fetch weather data. Please try again."
	msgNetwork  = "Network error. Please check your connection and try again."
)

// UserMessage returns the text shown to a user for a resolution error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return msgNotFound
	case errors.Is(err, ErrNetwork):
		return msgNetwork
	default:
		return msgProvider
	}
}
