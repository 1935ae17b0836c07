package config

import (
	"fmt"
	"time"
)

// ClientKDF holds client-facing key-stretching tunables.
type ClientKDF struct {
	// EnScryptBudget bounds how long EnScrypt runs during identity
	// generation and unlock.
	EnScryptBudget time.Duration
	// DefaultLog2N is the scrypt N exponent used for newly generated
	// identities.
	DefaultLog2N uint
	// HintLength is the number of password characters retained for
	// hint-lock. [GetClientConfig] never yields zero here: a zero value is
	// replaced by the default of 4.
	HintLength int
	// HintLockIdleTimeout is the idle duration after which a held identity
	// is forced back into hint-locked state.
	HintLockIdleTimeout time.Duration
}

// ClientEntropy holds the minimum entropy floor enforced before identity
// generation may draw key material.
type ClientEntropy struct {
	// MinimumBits is the [internal/entropy.Pool.EstimateBits] floor.
	MinimumBits uint64
}

// ClientWorkers holds client background KDF worker pool settings.
type ClientWorkers struct {
	// PoolSize bounds concurrent EnScrypt/Argon2id jobs.
	PoolSize int
}

// ClientTransport holds outbound SQRL transaction transport settings.
type ClientTransport struct {
	// RequestTimeout bounds a single client-to-server transaction.
	RequestTimeout time.Duration
}

// ClientIdentity holds defaults applied to newly generated identities.
type ClientIdentity struct {
	// DefaultOptions is the default option-flags bitmask.
	DefaultOptions uint16
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig]. The demo embedder (cmd/sqrldemo) maps it into the
// [internal/action.Deps] it passes to [internal/client.New].
type ClientConfig struct {
	// KDF contains key-stretching tunables.
	KDF ClientKDF
	// Entropy contains the minimum entropy-bits floor.
	Entropy ClientEntropy
	// Workers contains KDF worker pool settings.
	Workers ClientWorkers
	// Transport contains outbound transaction timeout settings.
	Transport ClientTransport
	// Identity contains defaults for newly generated identities.
	Identity ClientIdentity
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		KDF: ClientKDF{
			EnScryptBudget:      cfg.KDF.EnScryptBudget,
			DefaultLog2N:        cfg.KDF.DefaultLog2N,
			HintLength:          cfg.KDF.HintLength,
			HintLockIdleTimeout: cfg.KDF.HintLockIdleTimeout,
		},
		Entropy: ClientEntropy{
			MinimumBits: cfg.Entropy.MinimumBits,
		},
		Workers: ClientWorkers{
			PoolSize: cfg.Workers.PoolSize,
		},
		Transport: ClientTransport{
			RequestTimeout: cfg.Transport.RequestTimeout,
		},
		Identity: ClientIdentity{
			DefaultOptions: cfg.Identity.DefaultOptions,
		},
	}

	return clientCfg, clientCfg.validate()
}
