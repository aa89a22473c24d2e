package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	opt := Default()
	assert.Equal(t, "unconflicted", opt.ShareMode)
	assert.Equal(t, ".ctf", opt.DefaultMemberName)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression_threshold: 1024\n"), 0o600))

	opt, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, opt.CompressionThreshold)
	assert.Equal(t, "unconflicted", opt.ShareMode, "fields absent from the file must keep their default")
}
