package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFlags tests the ParseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-c", "/path/to/config.json",
				"-enscrypt-budget", "5s",
				"-default-log2n", "9",
				"-hint-length", "4",
				"-hint-idle-timeout", "15m",
				"-entropy-minimum-bits", "128",
				"-worker-pool-size", "3",
				"-request-timeout", "30s",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
				assert.Equal(t, 5*time.Second, cfg.KDF.EnScryptBudget)
				assert.Equal(t, uint(9), cfg.KDF.DefaultLog2N)
				assert.Equal(t, 4, cfg.KDF.HintLength)
				assert.Equal(t, 15*time.Minute, cfg.KDF.HintLockIdleTimeout)
				assert.Equal(t, uint64(128), cfg.Entropy.MinimumBits)
				assert.Equal(t, 3, cfg.Workers.PoolSize)
				assert.Equal(t, 30*time.Second, cfg.Transport.RequestTimeout)
			},
		},
		{
			name: "config alias flag",
			args: []string{
				"-config", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "partial flags",
			args: []string{
				"-default-log2n", "12",
				"-worker-pool-size", "2",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, uint(12), cfg.KDF.DefaultLog2N)
				assert.Equal(t, 2, cfg.Workers.PoolSize)
				assert.Zero(t, cfg.KDF.EnScryptBudget)
				assert.Empty(t, cfg.JSONFilePath)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.JSONFilePath)
				assert.Zero(t, cfg.KDF.DefaultLog2N)
				assert.Zero(t, cfg.Workers.PoolSize)
				assert.Zero(t, cfg.Transport.RequestTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			// Set os.Args to simulate command line arguments
			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}
