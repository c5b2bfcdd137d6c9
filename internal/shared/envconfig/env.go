package envconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Get returns the value of the requested environment variable or the supplied fallback when empty.
func Get(name string, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// GetInt parses the requested environment variable as an integer, returning fallback when unset.
func GetInt(name string, fallback int) (int, error) {
	raw := Get(name, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("env %s: expected integer, got %q", name, raw)
	}
	return value, nil
}

// GetDuration parses the requested environment variable with time.ParseDuration, returning fallback when unset.
func GetDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := Get(name, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("env %s: expected duration, got %q", name, raw)
	}
	return value, nil
}

// Validate validates a struct using validator tags.
func Validate(v any) error {
	return validate.Struct(v)
}
