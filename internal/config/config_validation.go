// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "context"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op placeholder; [ClientConfig.validate] carries the
// meaningful checks since the structured config's defaults are always
// applied by [configBuilder.withDefaults].
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

// validate runs cfg through [NewClientConfigValidator], the package's
// [github.com/MKhiriev/go-sqrl/internal/validators.Validator]
// implementation, checking every field group.
func (cfg *ClientConfig) validate() error {
	return clientValidator.Validate(context.Background(), cfg)
}

var clientValidator = NewClientConfigValidator()
