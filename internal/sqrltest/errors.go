// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrltest

import "errors"

// ErrMalformedCommand is returned when an inbound POST's "client" field
// does not decode to a well-formed SQRL command body.
var ErrMalformedCommand = errors.New("sqrltest: malformed client command")
