// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package identity

import (
	"encoding/binary"
	"fmt"
)

// Container is a parsed S4 identity file: a canonical slot for each of the
// three well-known block types plus any unrecognized blocks preserved
// verbatim for round-tripping.
type Container struct {
	// UserAccess is the Type 1 block, or nil if absent.
	UserAccess *UserAccessBlock
	// Rescue is the Type 2 block, or nil if absent.
	Rescue *RescueBlock
	// PreviousIdentities is the Type 3 block, or nil if absent.
	PreviousIdentities *PreviousIdentitiesBlock
	// Unknown holds every block whose type this package does not
	// interpret, in the order they were parsed.
	Unknown []RawBlock
}

// Parse decodes an S4 container from its binary block stream. Unknown
// block types are preserved verbatim in [Container.Unknown]; any truncated
// block, or a length field that would run past the end of data, is
// reported as [ErrCorrupt].
func Parse(data []byte) (*Container, error) {
	c := &Container{}

	for len(data) > 0 {
		if len(data) < blockHeaderLen {
			return nil, fmt.Errorf("%w: trailing bytes too short for a block header", ErrCorrupt)
		}

		length := binary.LittleEndian.Uint16(data)
		blockType := binary.LittleEndian.Uint16(data[2:])

		if int(length) < blockHeaderLen || int(length) > len(data) {
			return nil, fmt.Errorf("%w: block length %d out of range", ErrCorrupt, length)
		}

		raw := data[:length]
		body := raw[blockHeaderLen:]

		switch BlockType(blockType) {
		case BlockTypeUserAccess:
			block, err := decodeUserAccessBlock(body)
			if err != nil {
				return nil, err
			}
			c.UserAccess = block
		case BlockTypeRescue:
			block, err := decodeRescueBlock(body)
			if err != nil {
				return nil, err
			}
			c.Rescue = block
		case BlockTypePreviousIdentities:
			block, err := decodePreviousIdentitiesBlock(body)
			if err != nil {
				return nil, err
			}
			c.PreviousIdentities = block
		default:
			c.Unknown = append(c.Unknown, RawBlock{
				Type: blockType,
				Raw:  append([]byte(nil), raw...),
			})
		}

		data = data[length:]
	}

	return c, nil
}

// Emit serializes the container back to its binary block stream in
// canonical order: Type 1, Type 2, Type 3, then unknown blocks in parse
// order.
func (c *Container) Emit() []byte {
	var out []byte
	if c.UserAccess != nil {
		out = append(out, c.UserAccess.encode()...)
	}
	if c.Rescue != nil {
		out = append(out, c.Rescue.encode()...)
	}
	if c.PreviousIdentities != nil {
		out = append(out, c.PreviousIdentities.encode()...)
	}
	for _, u := range c.Unknown {
		out = append(out, u.Raw...)
	}
	return out
}
