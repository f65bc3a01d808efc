package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGenerationAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	gen := &Generation{
		Target:     "https://example.com",
		OutputPath: "/tmp/qr.png",
		Level:      "low",
		ImageSize:  410,
		Bytes:      1234,
	}
	require.NoError(t, s.SaveGeneration(gen))

	assert.NotEmpty(t, gen.ID)
	assert.NotZero(t, gen.CreatedAt)

	got, err := s.ListGenerations(10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *gen, got[0])
}

func TestListGenerationsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Unix()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveGeneration(&Generation{
			Target:     "https://example.com",
			OutputPath: "/tmp/qr.png",
			Level:      "low",
			CreatedAt:  base + int64(i),
		}))
	}

	got, err := s.ListGenerations(10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, base+2, got[0].CreatedAt)
	assert.Equal(t, base, got[2].CreatedAt)

	// Pagination.
	page, err := s.ListGenerations(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, base+1, page[0].CreatedAt)
}

func TestSearchGenerations(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveGeneration(&Generation{
		Target: "https://irishlab.io", OutputPath: "website_qr.png", Level: "low",
	}))
	require.NoError(t, s.SaveGeneration(&Generation{
		Target: "https://example.com", OutputPath: "test_qr.png", Level: "low",
	}))

	got, err := s.SearchGenerations("irishlab", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://irishlab.io", got[0].Target)

	// Quotes in the query must not break the FTS expression.
	_, err = s.SearchGenerations(`"quoted"`, 10)
	assert.NoError(t, err)
}

func TestCountGenerations(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CountGenerations()
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.SaveGeneration(&Generation{Target: "a", OutputPath: "a.png"}))
	require.NoError(t, s.SaveGeneration(&Generation{Target: "b", OutputPath: "b.png"}))

	n, err = s.CountGenerations()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPurgeOlderThan(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	require.NoError(t, s.SaveGeneration(&Generation{
		Target: "old", OutputPath: "old.png", CreatedAt: now.Add(-48 * time.Hour).Unix(),
	}))
	require.NoError(t, s.SaveGeneration(&Generation{
		Target: "fresh", OutputPath: "fresh.png", CreatedAt: now.Unix(),
	}))

	purged, err := s.PurgeOlderThan(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	got, err := s.ListGenerations(10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Target)

	// Purged rows also drop out of search results.
	res, err := s.SearchGenerations("old", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}
