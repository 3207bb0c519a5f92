package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPutGet(t *testing.T) {
	s := NewInMemory()
	session := NewSession("export.zip")
	require.NoError(t, s.Put(session))

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "export.zip", got.Filename)
	assert.Equal(t, StatusPending, got.Status)
}

func TestInMemoryGetUnknown(t *testing.T) {
	s := NewInMemory()
	_, err := s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInMemoryGetReturnsCopy(t *testing.T) {
	s := NewInMemory()
	session := NewSession("export.zip")
	require.NoError(t, s.Put(session))

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	got.Status = StatusFailed
	got.Reports["bom.csv"] = []byte("tampered")

	again, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
	assert.Empty(t, again.Reports)
}

func TestInMemoryDelete(t *testing.T) {
	s := NewInMemory()
	session := NewSession("export.zip")
	require.NoError(t, s.Put(session))
	require.NoError(t, s.Delete(session.ID))

	_, err := s.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInMemoryExpire(t *testing.T) {
	s := NewInMemory()

	old := NewSession("old.zip")
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.Put(old))

	fresh := NewSession("fresh.zip")
	require.NoError(t, s.Put(fresh))

	dropped := s.Expire(24 * time.Hour)
	assert.Equal(t, 1, dropped)

	_, err := s.Get(old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}
