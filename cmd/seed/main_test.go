package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRestaurants_BundledFile(t *testing.T) {
	items, err := loadRestaurants(filepath.Join("..", "..", "db", "seed", "restaurants.json"))
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Chez Nous", items[0].Name)
	require.Equal(t, "75001", items[0].PostalCode)
}

func TestLoadRestaurants_RejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"","country":"FR"}]`), 0o600))
	_, err := loadRestaurants(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = loadRestaurants(path)
	require.Error(t, err)
}
