// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"errors"
	"fmt"
)

// CompressionType selects the wire compression algorithm forwarded verbatim
// to Connection.CreateProducer. The producer actor never compresses
// payloads itself; this is recorded and validated here purely because it is
// part of the ProducerOptions surface the caller sees.
type CompressionType string

const (
	CompressionNone   CompressionType = "none"
	CompressionLZ4    CompressionType = "lz4"
	CompressionZLib   CompressionType = "zlib"
	CompressionZSTD   CompressionType = "zstd"
	CompressionSnappy CompressionType = "snappy"
)

var validCompressionTypes map[CompressionType]struct{}

func init() {
	validCompressionTypes = map[CompressionType]struct{}{
		CompressionNone:   {},
		CompressionLZ4:    {},
		CompressionZLib:   {},
		CompressionZSTD:   {},
		CompressionSnappy: {},
	}
}

func validateCompressionType(c CompressionType) error {
	if _, ok := validCompressionTypes[c]; !ok {
		return errors.Join(ErrValidation, fmt.Errorf("unrecognized compression type %q", c))
	}
	return nil
}

// HashingScheme selects the key-hashing algorithm the router (not this
// package) uses to pick a partition. It travels with ProducerOptions
// because the broker records it alongside producer metadata, but this
// package never evaluates it.
type HashingScheme string

const (
	HashingJavaStringHash HashingScheme = "java_string_hash"
	HashingMurmur3_32Hash HashingScheme = "murmur3_32_hash"
)

var validHashingSchemes map[HashingScheme]struct{}

func init() {
	validHashingSchemes = map[HashingScheme]struct{}{
		HashingJavaStringHash: {},
		HashingMurmur3_32Hash: {},
	}
}

func validateHashingScheme(h HashingScheme) error {
	if _, ok := validHashingSchemes[h]; !ok {
		return errors.Join(ErrValidation, fmt.Errorf("unrecognized hashing scheme %q", h))
	}
	return nil
}
