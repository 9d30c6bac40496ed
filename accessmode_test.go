// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccessMode(t *testing.T) {
	for _, mode := range []AccessMode{AccessModeShared, AccessModeExclusive, AccessModeWaitForExclusive, AccessModeExclusiveWithFencing} {
		assert.NoError(t, validateAccessMode(mode))
	}
	err := validateAccessMode(AccessMode("bogus"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateCompressionType(t *testing.T) {
	for _, c := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZLib, CompressionZSTD, CompressionSnappy} {
		assert.NoError(t, validateCompressionType(c))
	}
	assert.Error(t, validateCompressionType(CompressionType("bogus")))
}

func TestValidateHashingScheme(t *testing.T) {
	for _, h := range []HashingScheme{HashingJavaStringHash, HashingMurmur3_32Hash} {
		assert.NoError(t, validateHashingScheme(h))
	}
	assert.Error(t, validateHashingScheme(HashingScheme("bogus")))
}
