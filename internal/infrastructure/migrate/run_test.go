package migrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogVersion(t *testing.T) {
	cases := []struct {
		name    string
		version uint
		dirty   bool
		err     error
		level   string
		want    map[string]any
	}{
		{"applied", 3, false, nil, "INFO", map[string]any{"version": float64(3), "dirty": false}},
		{"empty database", 0, false, migrate.ErrNilVersion, "INFO", map[string]any{"version": "none"}},
		{"read failure", 0, false, errors.New("connection refused"), "WARN", map[string]any{"error": "connection refused"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logVersion(slog.New(slog.NewJSONHandler(&buf, nil)), tc.version, tc.dirty, tc.err)

			rec := lastRecord(t, &buf)
			assert.Equal(t, tc.level, rec["level"])
			for k, v := range tc.want {
				assert.Equal(t, v, rec[k], k)
			}
		})
	}
}
