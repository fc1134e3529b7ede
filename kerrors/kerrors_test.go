// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lkgv/kcfa2/kerrors"
	"github.com/stretchr/testify/require"
)

func TestConfigurationErrorMessage(t *testing.T) {
	err := &kerrors.ConfigurationError{Field: "context_policy", Msg: "unknown policy"}
	require.Equal(t, "configuration error: context_policy: unknown policy", err.Error())
}

func TestConfigurationErrorUnwrapsViaErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", &kerrors.ConfigurationError{Field: "f", Msg: "m"})
	var cerr *kerrors.ConfigurationError
	require.True(t, errors.As(wrapped, &cerr))
	require.Equal(t, "f", cerr.Field)
}

func TestAdapterErrorMessage(t *testing.T) {
	err := &kerrors.AdapterError{Fn: "main", Kind: "bogus", Reason: "unrecognized"}
	require.Contains(t, err.Error(), "main")
	require.Contains(t, err.Error(), "bogus")
}

func TestSoundnessWarningString(t *testing.T) {
	w := kerrors.SoundnessWarning{Site: "s1", Message: "unresolved call"}
	require.Equal(t, "s1: unresolved call", w.String())
}
