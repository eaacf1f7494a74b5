package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/engagevoice/engagevoice"
)

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	f := newTokenFile(path)

	bundle, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, bundle, "missing file means no bundle")

	saved := engagevoice.Bundle{
		"accessToken":  "at-1",
		"refreshToken": "rt-1",
		"agentDetails": []any{map[string]any{"agentId": float64(42)}},
	}
	require.NoError(t, f.Save(saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	require.NoError(t, f.Save(nil))
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// removing an already removed file is fine
	require.NoError(t, f.Save(nil))
}

func TestTokenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := newTokenFile(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func TestTokenFileDisabled(t *testing.T) {
	f := newTokenFile("")

	require.NoError(t, f.Save(engagevoice.Bundle{"accessToken": "x"}))
	bundle, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestTokenFileFollowsClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	f := newTokenFile(path)

	c, err := engagevoice.New(engagevoice.Config{Server: engagevoice.LegacyServer})
	require.NoError(t, err)
	c.OnTokenChanged(func(b engagevoice.Bundle) {
		assert.NoError(t, f.Save(b))
	})

	c.SetToken(engagevoice.Bundle{"authToken": "a", "apiToken": "b"})
	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.APIToken())

	c.SetToken(nil)
	loaded, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
