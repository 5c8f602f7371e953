package postgres

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/domain/records"
)

func TestJournalEntryCompression(t *testing.T) {
	j, err := NewJournal(nil)
	require.NoError(t, err)

	small := records.Mutation{
		ID:          "m1",
		Op:          "recap.submit",
		Collections: []records.Collection{records.Transactions},
		Payloads:    map[records.Collection][]byte{records.Transactions: []byte(`[]`)},
		AppliedAt:   time.Date(2026, 10, 14, 9, 0, 0, 0, time.FixedZone("WIB", 7*3600)),
		Duration:    1500 * time.Microsecond,
	}
	large := small
	large.Payloads = map[records.Collection][]byte{
		records.Transactions: []byte(`["` + strings.Repeat("kopi", 4096) + `"]`),
	}

	tests := []struct {
		name string
		m    records.Mutation
		algo CompressionAlgo
	}{
		{"small stays plain", small, CompressionNone},
		{"large is compressed", large, CompressionZstd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := j.entryFor(tt.m)
			require.NoError(t, err)
			assert.Equal(t, tt.algo, e.CompressionAlgo)
			assert.Equal(t, []string{"transactions"}, e.Collections)
			assert.Equal(t, int64(1), e.DurationMs)
			assert.Equal(t, time.UTC, e.AppliedAt.Location())

			require.NoError(t, j.expand(&e))
			var got map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(e.Payload, &got))
			assert.JSONEq(t, string(tt.m.Payloads[records.Transactions]), string(got["transactions"]))
		})
	}
}

func TestMigrationsCreateTables(t *testing.T) {
	joined := strings.Join(Migrations(), "\n")
	assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS collections")
	assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS sys_mutation_journal")
}
