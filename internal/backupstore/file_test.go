package backupstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
)

func TestFileStore_PutGetList(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "backups")
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	loc, err := s.Put(ctx, "budget_backup_2024-03-01.json", []byte(`{"version":"1.0"}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "budget_backup_2024-03-01.json"), loc)

	_, err = s.Put(ctx, "budget_backup_2024-01-01.json", []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o600))

	got, err := s.Get(ctx, "budget_backup_2024-03-01.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0"}`, string(got))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"budget_backup_2024-01-01.json", "budget_backup_2024-03-01.json"}, names)
}

func TestFileStore_GetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "nope.json")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileStore_RejectsPathNames(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", "../x.json", "a/b.json", "..", `a\b.json`} {
		_, err := s.Put(ctx, name, []byte("{}"))
		assert.ErrorIs(t, err, common.ErrorValidation, name)
	}
}
