// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrltest

import (
	"strings"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
)

// clientCommand is a decoded inbound SQRL client command body.
type clientCommand struct {
	cmd, idk, suk, vuk, ids string
	fields                  map[string]string
	// signedMessage is the body exactly as it was signed: every line up
	// to, but not including, the trailing "ids=" line.
	signedMessage []byte
}

// decodeClientBody Base64URL-decodes payload and splits its
// newline-separated "key=value" lines, recovering the exact byte range
// that was signed: everything before the "ids=" line.
func decodeClientBody(payload string) (*clientCommand, error) {
	raw, err := encoding.Base64URLDecode(payload)
	if err != nil {
		return nil, ErrMalformedCommand
	}

	body := string(raw)
	idsIdx := strings.Index(body, "ids=")
	if idsIdx < 0 {
		return nil, ErrMalformedCommand
	}

	signedMessage := []byte(body[:idsIdx])

	fields := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = value
	}

	if fields["idk"] == "" {
		return nil, ErrMalformedCommand
	}

	return &clientCommand{
		cmd:           fields["cmd"],
		idk:           fields["idk"],
		suk:           fields["suk"],
		vuk:           fields["vuk"],
		ids:           fields["ids"],
		fields:        fields,
		signedMessage: signedMessage,
	}, nil
}
