// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import (
	"strconv"
	"strings"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
)

// ServerReply is a parsed SQRL server response body: Base64URL of
// newline-separated key=value pairs. TIF, Nut, and Qry are
// present in every well-formed reply; SUK and Ask are present only when
// the server includes them.
type ServerReply struct {
	// TIF is the Transaction Information Flags bitmask, parsed from the
	// reply's hexadecimal "tif=" value.
	TIF uint32
	// Nut is the next nonce the client must echo in its following
	// command for this transaction.
	Nut string
	// Qry is the path component of the next server endpoint the client
	// should POST to.
	Qry string
	// SUK is the Server Unlock Key the server reports storing for this
	// identity, present only for queries against a previously unlocked
	// identity.
	SUK string
	// Ask, if non-empty, is the raw "ask=" value: a tilde-separated
	// message and up to two button labels the dispatcher surfaces as an
	// ASK callback.
	Ask string
	// Fields holds every key=value pair observed, including unknown
	// ones, so callers never lose data this type does not surface.
	Fields map[string]string
}

// ParseServerReply decodes a Base64URL server reply body and parses its
// newline-separated key=value pairs. Returns [ErrMalformedReply] if the
// body fails to decode, or is missing a well-formed "tif=" line.
func ParseServerReply(payload string) (*ServerReply, error) {
	raw, err := encoding.Base64URLDecode(payload)
	if err != nil {
		return nil, ErrMalformedReply
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, ErrMalformedReply
		}
		fields[key] = value
	}

	tifHex, ok := fields["tif"]
	if !ok {
		return nil, ErrMalformedReply
	}
	tif, err := strconv.ParseUint(tifHex, 16, 32)
	if err != nil {
		return nil, ErrMalformedReply
	}

	return &ServerReply{
		TIF:    uint32(tif),
		Nut:    fields["nut"],
		Qry:    fields["qry"],
		SUK:    fields["suk"],
		Ask:    fields["ask"],
		Fields: fields,
	}, nil
}

// AskPrompt splits an "ask=" value into a message and up to two button
// labels, tilde-separated per the SQRL wire format. Buttons beyond the
// first two are ignored; a reply with no buttons leaves both empty.
func (r *ServerReply) AskPrompt() (message, button1, button2 string) {
	parts := strings.Split(r.Ask, "~")
	if len(parts) > 0 {
		message = parts[0]
	}
	if len(parts) > 1 {
		button1 = parts[1]
	}
	if len(parts) > 2 {
		button2 = parts[2]
	}
	return message, button1, button2
}

// TIF bit values, per the SQRL protocol's Transaction Information Flags.
const (
	TIFIDMatch              uint32 = 0x01
	TIFPreviousIDMatch      uint32 = 0x02
	TIFIPMatched            uint32 = 0x04
	TIFSQRLDisabled         uint32 = 0x08
	TIFFunctionNotSupported uint32 = 0x10
	TIFTransientError       uint32 = 0x20
	TIFCommandFailed        uint32 = 0x40
	TIFClientFailure        uint32 = 0x80
	TIFBadIDAssociation     uint32 = 0x100
)

// Has reports whether every bit set in flag is also set in the reply's TIF.
func (r *ServerReply) Has(flag uint32) bool {
	return r.TIF&flag == flag
}

// BuildClientBody renders an outbound SQRL client command body from an
// ordered field list: "ver=1", "cmd=<cmd>", then each additional field in
// the order given, newline-separated. Callers pass fields in the order the
// protocol expects (idk before suk before vuk, etc.); this function does
// not reorder them.
func BuildClientBody(cmd string, fields [][2]string) string {
	var b strings.Builder
	b.WriteString("ver=1\n")
	b.WriteString("cmd=")
	b.WriteString(cmd)
	b.WriteString("\n")
	for _, kv := range fields {
		b.WriteString(kv[0])
		b.WriteString("=")
		b.WriteString(kv[1])
		b.WriteString("\n")
	}
	return b.String()
}

// EncodeClientBody Base64URL-encodes a client command body for inclusion
// in the outbound "client=" POST field.
func EncodeClientBody(body string) string {
	return encoding.Base64URLEncode([]byte(body))
}
