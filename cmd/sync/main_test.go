// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/secret-draw/store"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bbdd-amigoinvisible.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	st := store.NewCSVStore(filepath.Join(t.TempDir(), "participants.csv"))

	from := writeRoster(t, "ID;nombre;parentesco;email\n600000001;Ricardo;Liliana;\n600000002;Liliana;Ricardo;\n")
	n, err := sync(ctx, from, st)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Someone registered between syncs keeps their email
	require.NoError(t, st.SetEmail(ctx, "600000001", "r@test.com"))

	from = writeRoster(t, "ID;nombre;parentesco;email\n600000001;Ricardo;Liliana;\n600000002;Liliana;Ricardo;\n600000003;Juan;;\n")
	n, err = sync(ctx, from, st)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	got, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "r@test.com", got[0].Email)
	require.Equal(t, "Juan", got[2].Name)
}

func TestSync_Errors(t *testing.T) {
	ctx := context.Background()
	st := store.NewCSVStore(filepath.Join(t.TempDir(), "participants.csv"))

	_, err := sync(ctx, filepath.Join(t.TempDir(), "missing.csv"), st)
	require.Error(t, err)

	_, err = sync(ctx, writeRoster(t, "ID;nombre\n600000001;Ricardo\n600000001;Ricky\n"), st)
	require.ErrorContains(t, err, "duplicate phone 600000001")

	got, err := st.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
