package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the JSON-specific representation of the application
// configuration. It mirrors [StructuredConfig] but uses JSON struct tags and
// the custom [Duration] type so that duration values can be expressed as
// human-readable strings (e.g. "5s", "15m") in the config file.
//
// After decoding, the values are mapped into a [StructuredConfig] by
// [parseJSON].
type StructuredJSONConfig struct {
	KDF struct {
		EnScryptBudget      Duration `json:"enscrypt_budget"`
		DefaultLog2N        uint     `json:"default_log2n"`
		HintLength          int      `json:"hint_length"`
		HintLockIdleTimeout Duration `json:"hint_lock_idle_timeout"`
	} `json:"kdf,omitempty"`

	Entropy struct {
		MinimumBits uint64 `json:"minimum_bits"`
	} `json:"entropy,omitempty"`

	Workers struct {
		PoolSize int `json:"pool_size"`
	} `json:"workers,omitempty"`

	Transport struct {
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"transport,omitempty"`

	Identity struct {
		DefaultOptions uint16 `json:"default_options"`
	} `json:"identity,omitempty"`
}

// parseJSON opens the JSON file at jsonFilePath, decodes it into a
// [StructuredJSONConfig], and maps the result into a [StructuredConfig].
//
// JSONFilePath is intentionally left empty in the returned config so that
// the path is not re-processed during subsequent merge steps.
//
// Returns a wrapped error if the file cannot be opened or its contents
// cannot be decoded as valid JSON.
func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		KDF: KDF{
			EnScryptBudget:      time.Duration(jsonCfg.KDF.EnScryptBudget),
			DefaultLog2N:        jsonCfg.KDF.DefaultLog2N,
			HintLength:          jsonCfg.KDF.HintLength,
			HintLockIdleTimeout: time.Duration(jsonCfg.KDF.HintLockIdleTimeout),
		},
		Entropy: Entropy{
			MinimumBits: jsonCfg.Entropy.MinimumBits,
		},
		Workers: Workers{
			PoolSize: jsonCfg.Workers.PoolSize,
		},
		Transport: Transport{
			RequestTimeout: time.Duration(jsonCfg.Transport.RequestTimeout),
		},
		Identity: Identity{
			DefaultOptions: jsonCfg.Identity.DefaultOptions,
		},
		JSONFilePath: "", // intentionally cleared to prevent re-processing
	}

	return cfg, nil
}

// Duration is a thin wrapper around [time.Duration] that adds JSON
// unmarshaling support for human-readable duration strings such as "1h",
// "30m", or "15s", in addition to raw nanosecond integers.
type Duration time.Duration

// UnmarshalJSON implements [json.Unmarshaler] for Duration.
//
// Supported JSON value types:
//   - string: parsed with [time.ParseDuration] (e.g. "1h30m", "30s").
//   - number: treated as a raw nanosecond count (same as time.Duration).
//
// Returns an error if the value is a string that cannot be parsed as a
// duration, or if the JSON value is of an unsupported type.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

// MarshalJSON implements [json.Marshaler] for Duration.
// The value is serialized as a human-readable string using
// [time.Duration.String] (e.g. "1h0m0s", "30m0s").
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
