package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwelldev/inkwell/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func openTestTrail(t *testing.T) (*Trail, string) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { trail.Close() })
	return trail, path
}

func TestTrail_RecordAndReadAll(t *testing.T) {
	trail, _ := openTestTrail(t)

	require.NoError(t, trail.Record(Entry{Event: EventRegister, UserID: "u1", Email: "a@example.com"}))
	require.NoError(t, trail.Record(Entry{Event: EventLoginFailed, Email: "a@example.com", Detail: "bad password"}))

	entries, err := trail.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, EventRegister, entries[0].Event)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, EventLoginFailed, entries[1].Event)
	assert.Equal(t, "bad password", entries[1].Detail)
}

func TestTrail_StampsTimestamp(t *testing.T) {
	trail, _ := openTestTrail(t)

	before := time.Now()
	require.NoError(t, trail.Record(Entry{Event: EventLogout, UserID: "u2"}))

	entries, err := trail.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Timestamp.Before(before), "Zero timestamp should be stamped at write time")
}

func TestTrail_SkipsCorruptLines(t *testing.T) {
	trail, path := openTestTrail(t)

	require.NoError(t, trail.Record(Entry{Event: EventRegister, UserID: "u3"}))

	// Inject a corrupt line between two good ones.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, trail.Record(Entry{Event: EventLogout, UserID: "u3"}))

	entries, err := trail.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 2, "Corrupt line should be skipped, not fail the read")
}

func TestTrail_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	trail, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, trail.Record(Entry{Event: EventRoleChange, UserID: "u4", Detail: "user -> admin"}))
	require.NoError(t, trail.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EventRoleChange, entries[0].Event)
}
