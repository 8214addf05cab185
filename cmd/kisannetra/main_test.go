package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ougirez/kisannetra/internal/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		seedCSV, seedForce = "", false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitDB(t *testing.T) {
	dir := t.TempDir()
	dbURL := "sqlite:///" + filepath.Join(dir, "kn.db")
	t.Setenv("DB_URL", dbURL)
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCLI(t, "init-db")
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized")

	st, err := store.Open(context.Background(), dbURL, 0)
	require.NoError(t, err)
	defer st.Close()

	first, err := st.CountOffers(context.Background())
	require.NoError(t, err)
	assert.Positive(t, first)

	// повторный запуск ничего не добавляет
	out, err = runCLI(t, "init-db")
	require.NoError(t, err)
	assert.Contains(t, out, " 0 sample offers")

	csvPath := filepath.Join(dir, "extra.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"district,dealer,product_name,brand,crop,disease,unit_price_inr,unit,expected_yield_gain_pct,notes\n"+
			"Guntur,D,P,B,Chilli,Leaf_curl,300,1 L,5,\n"), 0o600))

	_, err = runCLI(t, "init-db", "--csv", csvPath, "--force")
	require.NoError(t, err)

	count, err := st.CountOffers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first+1, count)
}

func TestVerifyModelWithoutURL(t *testing.T) {
	t.Setenv("MODEL_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	_, err := runCLI(t, "verify-model")
	assert.Error(t, err)
}

func TestNoiseImage(t *testing.T) {
	img := noiseImage(16, 8)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}
