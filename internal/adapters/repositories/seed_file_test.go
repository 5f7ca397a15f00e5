package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeedFileBundled(t *testing.T) {
	rows, err := LoadSeedFile(filepath.Join("..", "..", "..", "data", "seeds", "deliveries.json"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "PKG-001", rows[0].PackageID)
	assert.Equal(t, "In Transit", string(rows[0].Status))
}

func TestLoadSeedFileClearsTimestamps(t *testing.T) {
	path := writeSeed(t, `[{"packageId":"PKG-9","status":"Pending","timestamp":"2020-01-01T00:00:00.000Z","lastUpdated":"x"}]`)

	rows, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Timestamp)
	assert.Empty(t, rows[0].LastUpdated)
}

func TestLoadSeedFileErrors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read")

	_, err = LoadSeedFile(writeSeed(t, `{"not":"an array"}`))
	assert.ErrorContains(t, err, "parse json")

	_, err = LoadSeedFile(writeSeed(t, `[{"packageId":"ok"},{"packageId":"  "}]`))
	assert.ErrorContains(t, err, "index 2")
}
