// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuscoVersionAccepted(t *testing.T) {
	major, minor, rev, err := ParseBuscoVersion("BUSCO 4.1.4\n")
	require.NoError(t, err)
	assert.Equal(t, 4, major)
	assert.Equal(t, 1, minor)
	assert.Equal(t, 4, rev)
}

func TestParseBuscoVersionRejectsOldMajor(t *testing.T) {
	_, _, _, err := ParseBuscoVersion("BUSCO 3.0.2\n")
	require.Error(t, err)
}

func TestParseBuscoVersionRejectsGarbage(t *testing.T) {
	_, _, _, err := ParseBuscoVersion("not a version string")
	require.Error(t, err)
}
