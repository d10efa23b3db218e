package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// openPair opens two independent stores on the same database file.
func openPair(t *testing.T) (*Store, *Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "jfp.db")
	first, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { first.Close() })

	second, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })
	return first, second
}

func TestConcurrentWriterWaitsForLock(t *testing.T) {
	first, second := openPair(t)
	ctx := context.Background()

	tx, err := first.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	held := &domain.Prompt{ID: "held", Title: "Held", Content: "c"}
	require.NoError(t, upsertPrompt(ctx, tx, held))

	const hold = 300 * time.Millisecond
	done := make(chan error, 1)
	go func() {
		time.Sleep(hold)
		done <- tx.Commit()
	}()

	start := time.Now()
	err = second.Upsert(ctx, &domain.Prompt{ID: "waiting", Title: "Waiting", Content: "c"})
	elapsed := time.Since(start)

	require.NoError(t, err, "a locked database is waited on, not reported busy")
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, elapsed, hold-50*time.Millisecond)

	n, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReaderNeverSeesPromptWithoutTags(t *testing.T) {
	writer, reader := openPair(t)
	ctx := context.Background()

	original := domain.Prompt{ID: "p", Title: "Original", Content: "c", Tags: []string{"a", "b"}}
	require.NoError(t, writer.Upsert(ctx, &original))

	tx, err := writer.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback() //nolint:errcheck // committed below

	// Replace the row but stop before the tag rows are written.
	_, err = tx.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", "p")
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx,
		"INSERT INTO prompts (id, title, content, tags_text) VALUES (?, ?, ?, ?)",
		"p", "Replaced", "c", "x y")
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO prompts (id, title, content) VALUES (?, ?, ?)",
		"new", "New", "c")
	require.NoError(t, err)

	start := time.Now()
	got, ok, err := reader.Get(ctx, "p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Less(t, time.Since(start), time.Second, "readers are not blocked by a writer")
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	_, ok, err = reader.Get(ctx, "new")
	require.NoError(t, err)
	assert.False(t, ok, "uncommitted rows are invisible")

	listed, err := reader.List(ctx, domain.ListFilter{Tag: "a"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, []string{"a", "b"}, listed[0].Tags)

	for i, tag := range []string{"x", "y"} {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO prompt_tags (prompt_id, tag, position) VALUES (?, ?, ?)", "p", tag, i)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())

	got, ok, err = reader.Get(ctx, "p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Replaced", got.Title)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
}
