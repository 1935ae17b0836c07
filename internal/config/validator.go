// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"context"

	"github.com/MKhiriev/go-sqrl/internal/validators"
)

// Field names accepted by the validator's optional fields argument;
// passing none validates every section.
const (
	FieldKDF       = "kdf"
	FieldEntropy   = "entropy"
	FieldWorkers   = "workers"
	FieldTransport = "transport"
)

// clientConfigValidator is the [validators.Validator] implementation
// [GetClientConfig] runs the merged configuration through before returning
// it to the caller.
type clientConfigValidator struct{}

// NewClientConfigValidator returns a [validators.Validator] that checks a
// *[ClientConfig] (or [ClientConfig]) for the invariants the dispatcher
// relies on: a positive EnScrypt time budget and in-range log2N, a
// non-negative hint length, a positive worker pool size, a positive
// transport timeout, and a non-zero entropy floor.
func NewClientConfigValidator() validators.Validator {
	return &clientConfigValidator{}
}

func (v *clientConfigValidator) Validate(_ context.Context, obj any, fields ...string) error {
	var cfg ClientConfig
	switch value := obj.(type) {
	case ClientConfig:
		cfg = value
	case *ClientConfig:
		cfg = *value
	default:
		return validators.ErrUnsupportedType
	}

	if len(fields) == 0 {
		fields = []string{FieldKDF, FieldEntropy, FieldWorkers, FieldTransport}
	}

	for _, f := range fields {
		switch f {
		case FieldKDF:
			if cfg.KDF.EnScryptBudget <= 0 {
				return ErrInvalidKDFConfigs
			}
			if cfg.KDF.DefaultLog2N == 0 || cfg.KDF.DefaultLog2N > 20 {
				return ErrInvalidKDFConfigs
			}
			if cfg.KDF.HintLength < 0 {
				return ErrInvalidKDFConfigs
			}
		case FieldEntropy:
			if cfg.Entropy.MinimumBits == 0 {
				return ErrInvalidEntropyConfigs
			}
		case FieldWorkers:
			if cfg.Workers.PoolSize <= 0 {
				return ErrInvalidWorkerConfigs
			}
		case FieldTransport:
			if cfg.Transport.RequestTimeout <= 0 {
				return ErrInvalidTransportConfigs
			}
		default:
			return validators.ErrUnknownField
		}
	}

	return nil
}
