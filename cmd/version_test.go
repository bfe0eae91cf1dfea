package cmd

import (
	"bytes"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersionCmd(t *testing.T, version string, args ...string) string {
	t.Helper()

	originalVersion := rootCmd.Version
	defer func() {
		rootCmd.Version = originalVersion
	}()
	rootCmd.Version = version

	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVersionCmd(t *testing.T) {
	expected := fmt.Sprintf("mcp-gitops v1.2.3 (%s, %s/%s)\n",
		runtime.Version(), runtime.GOOS, runtime.GOARCH)

	assert.Equal(t, expected, runVersionCmd(t, "v1.2.3"))
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "v1.2.3\n", runVersionCmd(t, "v1.2.3", "--short"))
	assert.Equal(t, "dev\n", runVersionCmd(t, "dev", "--short"))
}

func TestVersionCmdProperties(t *testing.T) {
	cmd := newVersionCmd()

	assert.Equal(t, "version", cmd.Use)
	assert.Equal(t, "Show version and build information", cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("short"))
}
