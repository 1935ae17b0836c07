// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sqrl/internal/validators"
)

func validClientConfig() ClientConfig {
	return ClientConfig{
		KDF: ClientKDF{
			EnScryptBudget: 5 * time.Second,
			DefaultLog2N:   9,
			HintLength:     4,
		},
		Entropy:   ClientEntropy{MinimumBits: 128},
		Workers:   ClientWorkers{PoolSize: 2},
		Transport: ClientTransport{RequestTimeout: 15 * time.Second},
	}
}

func TestClientConfigValidator_ValidConfig(t *testing.T) {
	v := NewClientConfigValidator()
	require.NoError(t, v.Validate(context.Background(), validClientConfig()))
}

func TestClientConfigValidator_AcceptsPointer(t *testing.T) {
	v := NewClientConfigValidator()
	cfg := validClientConfig()
	require.NoError(t, v.Validate(context.Background(), &cfg))
}

func TestClientConfigValidator_RejectsUnsupportedType(t *testing.T) {
	v := NewClientConfigValidator()
	err := v.Validate(context.Background(), "not a config")
	assert.ErrorIs(t, err, validators.ErrUnsupportedType)
}

func TestClientConfigValidator_RejectsUnknownField(t *testing.T) {
	v := NewClientConfigValidator()
	err := v.Validate(context.Background(), validClientConfig(), "bogus")
	assert.ErrorIs(t, err, validators.ErrUnknownField)
}

func TestClientConfigValidator_InvalidKDF(t *testing.T) {
	v := NewClientConfigValidator()

	cfg := validClientConfig()
	cfg.KDF.EnScryptBudget = 0
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidKDFConfigs)

	cfg = validClientConfig()
	cfg.KDF.DefaultLog2N = 0
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidKDFConfigs)

	cfg = validClientConfig()
	cfg.KDF.DefaultLog2N = 21
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidKDFConfigs)

	cfg = validClientConfig()
	cfg.KDF.HintLength = -1
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidKDFConfigs)
}

func TestClientConfigValidator_InvalidEntropy(t *testing.T) {
	v := NewClientConfigValidator()
	cfg := validClientConfig()
	cfg.Entropy.MinimumBits = 0
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidEntropyConfigs)
}

func TestClientConfigValidator_InvalidWorkers(t *testing.T) {
	v := NewClientConfigValidator()
	cfg := validClientConfig()
	cfg.Workers.PoolSize = 0
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidWorkerConfigs)
}

func TestClientConfigValidator_InvalidTransport(t *testing.T) {
	v := NewClientConfigValidator()
	cfg := validClientConfig()
	cfg.Transport.RequestTimeout = 0
	assert.ErrorIs(t, v.Validate(context.Background(), cfg), ErrInvalidTransportConfigs)
}

func TestClientConfigValidator_ScopedField(t *testing.T) {
	v := NewClientConfigValidator()
	cfg := validClientConfig()
	cfg.Workers.PoolSize = 0

	// Scoping to "kdf" alone must not trip on the invalid worker field.
	require.NoError(t, v.Validate(context.Background(), cfg, FieldKDF))
}

func TestClientConfig_ValidateDelegatesToValidator(t *testing.T) {
	cfg := validClientConfig()
	require.NoError(t, cfg.validate())

	cfg.Entropy.MinimumBits = 0
	assert.ErrorIs(t, cfg.validate(), ErrInvalidEntropyConfigs)
}
