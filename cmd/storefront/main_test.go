package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/config"
)

func TestPrintProducts(t *testing.T) {
	logger = zap.NewNop()

	var out bytes.Buffer
	printProducts(&out, newCatalog().List(t.Context()))

	assert.Contains(t, out.String(), "Handcrafted Terracotta Vase")
	assert.Contains(t, out.String(), "₹1,899.00")
	assert.Equal(t, 4, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestProductsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: memory\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"products", "--config", path})
	t.Cleanup(resetRoot)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Brass Diya Lamp Set")
	assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
}

func TestOpenAppRestoresCart(t *testing.T) {
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "cart.db")

	first, err := openApp(t.Context())
	require.NoError(t, err)
	require.NoError(t, first.service.AddToCart(t.Context(), 2))
	require.NoError(t, first.Close())

	second, err := openApp(t.Context())
	require.NoError(t, err)
	defer second.Close()
	snap, err := second.service.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestChaosCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"chaos"})
	t.Cleanup(resetRoot)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "storage-write-failure")
	assert.NotContains(t, out.String(), "VIOLATED")
}

func resetRoot() {
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	configPath = ""
}
