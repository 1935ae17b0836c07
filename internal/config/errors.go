package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidKDFConfigs indicates an invalid EnScrypt/hint-lock tunable
	// (for example, a non-positive time budget or out-of-range log2N).
	ErrInvalidKDFConfigs = errors.New("invalid kdf configuration")
	// ErrInvalidWorkerConfigs indicates an invalid KDF worker pool setting
	// (for example, a non-positive pool size).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidTransportConfigs indicates an invalid outbound transaction
	// transport setting (for example, a non-positive request timeout).
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
	// ErrInvalidEntropyConfigs indicates a zero entropy-bits floor, which
	// would allow key generation before the pool is ever seeded.
	ErrInvalidEntropyConfigs = errors.New("invalid entropy configuration")
)
