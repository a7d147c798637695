package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetCurrentVersion(t *testing.T) {
	require.Equal(t, Version, GetCurrentVersion("prod"))
	require.Equal(t, DevVersion, GetCurrentVersion("dev"))
	require.Equal(t, DevVersion, GetCurrentVersion("demo"))
}
