// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import "github.com/stretchr/testify/mock"

// Named mock.Anything aliases purely for readability at call sites; they
// all resolve to the same matcher.
var (
	mock_anyCtx  = mock.Anything
	mock_anyOpts = mock.Anything
	mock_anyMsg  = mock.Anything
	mock_anyMsgs = mock.Anything
)

type mockArgs = mock.Arguments
