// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"errors"
	"fmt"
)

// AccessMode records the producer access mode the broker granted at
// creation time. Negotiation itself is out of scope; the value is accepted
// verbatim from the broker's reply and validated only against the set of
// modes the wire protocol defines.
type AccessMode string

const (
	AccessModeShared               AccessMode = "shared"
	AccessModeExclusive            AccessMode = "exclusive"
	AccessModeWaitForExclusive     AccessMode = "wait_for_exclusive"
	AccessModeExclusiveWithFencing AccessMode = "exclusive_with_fencing"
)

var validAccessModes map[AccessMode]struct{}

func init() {
	validAccessModes = map[AccessMode]struct{}{
		AccessModeShared:               {},
		AccessModeExclusive:            {},
		AccessModeWaitForExclusive:     {},
		AccessModeExclusiveWithFencing: {},
	}
}

func validateAccessMode(mode AccessMode) error {
	if _, ok := validAccessModes[mode]; !ok {
		return errors.Join(ErrValidation, fmt.Errorf("unrecognized access mode %q", mode))
	}
	return nil
}
