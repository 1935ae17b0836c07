// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"KDF_ENSCRYPT_BUDGET":        "5s",
		"KDF_DEFAULT_LOG2N":          "9",
		"KDF_HINT_LENGTH":            "4",
		"KDF_HINT_LOCK_IDLE_TIMEOUT": "15m",

		"ENTROPY_MINIMUM_BITS": "128",

		"WORKERS_POOL_SIZE": "4",

		"TRANSPORT_REQUEST_TIMEOUT": "30s",

		"IDENTITY_DEFAULT_OPTIONS": "63",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, 5*time.Second, cfg.KDF.EnScryptBudget)
	assert.Equal(t, uint(9), cfg.KDF.DefaultLog2N)
	assert.Equal(t, 4, cfg.KDF.HintLength)
	assert.Equal(t, 15*time.Minute, cfg.KDF.HintLockIdleTimeout)

	assert.Equal(t, uint64(128), cfg.Entropy.MinimumBits)

	assert.Equal(t, 4, cfg.Workers.PoolSize)

	assert.Equal(t, 30*time.Second, cfg.Transport.RequestTimeout)

	assert.Equal(t, uint16(63), cfg.Identity.DefaultOptions)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"KDF_DEFAULT_LOG2N": "10",
		"WORKERS_POOL_SIZE": "3",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, uint(10), cfg.KDF.DefaultLog2N)
	assert.Zero(t, cfg.KDF.EnScryptBudget)
	assert.Zero(t, cfg.KDF.HintLength)

	assert.Equal(t, 3, cfg.Workers.PoolSize)

	assert.Zero(t, cfg.Transport.RequestTimeout)
	assert.Zero(t, cfg.Entropy.MinimumBits)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "", cfg.JSONFilePath)
	assert.Equal(t, KDF{}, cfg.KDF)
	assert.Equal(t, Entropy{}, cfg.Entropy)
	assert.Equal(t, Workers{}, cfg.Workers)
	assert.Equal(t, Transport{}, cfg.Transport)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"KDF_ENSCRYPT_BUDGET": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"TRANSPORT_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Transport.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"KDF_ENSCRYPT_BUDGET",
		"KDF_DEFAULT_LOG2N",
		"KDF_HINT_LENGTH",
		"KDF_HINT_LOCK_IDLE_TIMEOUT",

		"ENTROPY_MINIMUM_BITS",

		"WORKERS_POOL_SIZE",

		"TRANSPORT_REQUEST_TIMEOUT",

		"IDENTITY_DEFAULT_OPTIONS",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
