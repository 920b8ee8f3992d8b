package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/clicktrans/internal/testutil/testlog"
)

const chromeID = "abcdefghijklmnopabcdefghijklmnop"

func TestBuildChrome(t *testing.T) {
	testlog.Start(t)
	m, err := Build(Chrome, "/usr/local/bin/clicktrans-host", []string{chromeID})
	require.NoError(t, err)
	assert.Equal(t, HostName, m.Name)
	assert.Equal(t, "stdio", m.Type)
	assert.Equal(t, []string{"chrome-extension://" + chromeID + "/"}, m.AllowedOrigins)
	assert.Empty(t, m.AllowedExtensions)

	data, err := Marshal(m)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "allowed_extensions")
}

func TestBuildFirefox(t *testing.T) {
	testlog.Start(t)
	m, err := Build(Firefox, "/opt/clicktrans-host", []string{"clicktrans@danmuck.dev"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clicktrans@danmuck.dev"}, m.AllowedExtensions)
	assert.Empty(t, m.AllowedOrigins)
}

func TestBuildRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	_, err := Build(Chrome, "clicktrans-host", []string{chromeID})
	assert.ErrorIs(t, err, ErrRelativePath)
	_, err = Build(Chrome, "/bin/x", nil)
	assert.ErrorIs(t, err, ErrNoExtension)
	_, err = Build(Chrome, "/bin/x", []string{"short"})
	assert.ErrorIs(t, err, ErrInvalidExtension)
	_, err = Build(Chrome, "/bin/x", []string{strings.ToUpper(chromeID)})
	assert.ErrorIs(t, err, ErrInvalidExtension)
	_, err = Build(Browser("opera"), "/bin/x", []string{chromeID})
	assert.ErrorIs(t, err, ErrUnknownBrowser)
}

func TestParseBrowser(t *testing.T) {
	testlog.Start(t)
	b, err := ParseBrowser(" Firefox ")
	require.NoError(t, err)
	assert.Equal(t, Firefox, b)
	_, err = ParseBrowser("safari")
	assert.ErrorIs(t, err, ErrUnknownBrowser)
}

func TestInstallDirAndWrite(t *testing.T) {
	testlog.Start(t)
	home := t.TempDir()
	dir, err := InstallDir(Firefox, home)
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		assert.ErrorIs(t, err, ErrUnsupportedOS)
		return
	}
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dir, home))

	m, err := Build(Firefox, "/opt/clicktrans-host", []string{"clicktrans@danmuck.dev"})
	require.NoError(t, err)
	path, err := InstallPath(Firefox, home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, HostName+".json"), path)
	require.NoError(t, Write(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Manifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}
