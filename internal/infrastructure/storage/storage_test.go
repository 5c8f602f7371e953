package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/infrastructure/storage"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"memory default", storage.Config{}, false},
		{"sqlite", storage.Config{Driver: storage.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "k.db")}, false},
		{"sqlite without path", storage.Config{Driver: storage.DriverSQLite}, true},
		{"postgres without url", storage.Config{Driver: storage.DriverPostgres}, true},
		{"unknown", storage.Config{Driver: "mongo"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, err := storage.Open(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, opened.Options())
			_, err = opened.Backend.Load(ctx)
			assert.NoError(t, err)
			assert.NoError(t, opened.Close())
		})
	}
}
