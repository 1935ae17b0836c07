// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package protocol parses the two wire shapes the core emits and consumes,
// the sqrl://|qrl:// identity URL a site presents (as a link
// or QR code), and the server's Base64URL, newline-separated key=value
// reply body (tif=, nut=, qry=, suk=, ask=).
//
// It does not implement transport framing; [github.com/MKhiriev/go-sqrl/internal/transport]
// carries the bytes this package parses.
package protocol
