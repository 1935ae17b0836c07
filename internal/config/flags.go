package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-c/-config json file path with configs
//	-enscrypt-budget EnScrypt wall-clock time budget (e.g., "5s")
//	-default-log2n default scrypt N exponent for new identities
//	-hint-length hint-lock password suffix length (0 means the default, 4)
//	-hint-idle-timeout idle duration before forcing a re-lock (e.g., "15m")
//	-entropy-minimum-bits minimum entropy pool estimate required to generate keys
//	-worker-pool-size concurrent EnScrypt/Argon2id job limit
//	-request-timeout outbound transaction request timeout (e.g., "15s")
func ParseFlags() *StructuredConfig {
	var jsonConfigPath string
	var enScryptBudget time.Duration
	var defaultLog2N uint
	var hintLength int
	var hintIdleTimeout time.Duration
	var entropyMinimumBits uint64
	var workerPoolSize int
	var requestTimeout time.Duration

	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&enScryptBudget, "enscrypt-budget", 0, "EnScrypt time budget (e.g., 5s)")
	flag.UintVar(&defaultLog2N, "default-log2n", 0, "Default scrypt N exponent")
	flag.IntVar(&hintLength, "hint-length", 0, "Hint-lock password suffix length")
	flag.DurationVar(&hintIdleTimeout, "hint-idle-timeout", 0, "Hint-lock idle timeout (e.g., 15m)")
	flag.Uint64Var(&entropyMinimumBits, "entropy-minimum-bits", 0, "Minimum entropy pool estimate in bits")
	flag.IntVar(&workerPoolSize, "worker-pool-size", 0, "Concurrent KDF job limit")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound transaction request timeout (e.g., 15s)")

	flag.Parse()

	return &StructuredConfig{
		KDF: KDF{
			EnScryptBudget:      enScryptBudget,
			DefaultLog2N:        defaultLog2N,
			HintLength:          hintLength,
			HintLockIdleTimeout: hintIdleTimeout,
		},
		Entropy: Entropy{
			MinimumBits: entropyMinimumBits,
		},
		Workers: Workers{
			PoolSize: workerPoolSize,
		},
		Transport: Transport{
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
