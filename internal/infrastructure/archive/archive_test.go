package archive_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/archive"
	"kopikeliling/internal/infrastructure/storage/memory"
)

func TestRoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	backup, err := store.Export(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup"+archive.Extension)
	require.NoError(t, archive.WriteFile(path, backup))

	got, err := archive.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, records.BackupVersion, got.Version)
	assert.Len(t, got.Collections, len(records.AllCollections))
	assert.JSONEq(t, string(backup.Collections[records.Products]), string(got.Collections[records.Products]))
}

func TestReadAcceptsPlainJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []records.Collection
	}{
		{"flat layout", `{"riders":[{"id":"r1","name":"Budi","status":"ACTIVE"}],"extra":1}`, []records.Collection{records.Riders}},
		{"versioned layout", `{"version":1,"collections":{"capital":{"initialCash":5}}}`, []records.Collection{records.CapitalRecord}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := archive.Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			for _, c := range tt.want {
				assert.Contains(t, got.Collections, c)
			}
			assert.Len(t, got.Collections, len(tt.want))
		})
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := archive.Read(bytes.NewReader([]byte("bukan json")))
	assert.True(t, apperror.IsValidation(err))
}
