package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"tones/internal/config"
)

func TestStringFallback(t *testing.T) {
	os.Unsetenv("TONES_TEST_STRING")
	assert.Equal(t, "fallback", config.String("TONES_TEST_STRING", "fallback"))

	os.Setenv("TONES_TEST_STRING", "set")
	defer os.Unsetenv("TONES_TEST_STRING")
	assert.Equal(t, "set", config.String("TONES_TEST_STRING", "fallback"))
}

func TestIntFallbackOnUnparsable(t *testing.T) {
	os.Setenv("TONES_TEST_INT", "not-a-number")
	defer os.Unsetenv("TONES_TEST_INT")
	assert.Equal(t, 7, config.Int("TONES_TEST_INT", 7))
}

func TestFloatParsing(t *testing.T) {
	os.Setenv("TONES_TEST_FLOAT", "3.5")
	defer os.Unsetenv("TONES_TEST_FLOAT")
	assert.Equal(t, 3.5, config.Float("TONES_TEST_FLOAT", 0))
}

func TestDatabaseDSNPrefersDatabaseURL(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://example")
	defer os.Unsetenv("DATABASE_URL")
	assert.Equal(t, "postgres://example", config.DatabaseDSN())
}
