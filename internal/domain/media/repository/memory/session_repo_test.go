package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/tubedrop/internal/domain/media/entities"
)

func TestSessionRepository_SetAndGet(t *testing.T) {
	repo := NewSessionRepository(zerolog.Nop())
	key := entities.SessionKey{ChatID: 1, UserID: 2}

	_, ok := repo.Get(key)
	assert.False(t, ok)

	urls := []string{
		"https://youtu.be/abc123",
		"  check this https://www.youtube.com/watch?v=xyz&t=10s  ",
		"https://youtube.com/shorts/ÄÖÜ",
	}
	for _, url := range urls {
		repo.SetURL(key, url)
		sess, ok := repo.Get(key)
		require.True(t, ok)
		assert.Equal(t, url, sess.PendingURL)
	}
	assert.Equal(t, 1, repo.Count())
}

func TestSessionRepository_RevisionAndPrompt(t *testing.T) {
	repo := NewSessionRepository(zerolog.Nop())
	key := entities.SessionKey{ChatID: 1, UserID: 2}

	rev1 := repo.SetURL(key, "https://youtu.be/one")
	repo.BindPrompt(key, 100, rev1)

	sess, _ := repo.Get(key)
	assert.True(t, sess.IsCurrentPrompt(100))

	rev2 := repo.SetURL(key, "https://youtu.be/two")
	assert.Greater(t, rev2, rev1)

	sess, _ = repo.Get(key)
	assert.False(t, sess.IsCurrentPrompt(100), "old prompt must be stale after a new URL")

	// a late bind for the old revision is ignored
	repo.BindPrompt(key, 100, rev1)
	sess, _ = repo.Get(key)
	assert.False(t, sess.IsCurrentPrompt(100))

	repo.BindPrompt(key, 101, rev2)
	sess, _ = repo.Get(key)
	assert.True(t, sess.IsCurrentPrompt(101))
	assert.Equal(t, "https://youtu.be/two", sess.PendingURL)
}

func TestSessionRepository_BindUnknownSession(t *testing.T) {
	repo := NewSessionRepository(zerolog.Nop())
	repo.BindPrompt(entities.SessionKey{ChatID: 9}, 1, 1)
	assert.Equal(t, 0, repo.Count())
}

func TestSessionRepository_KeysAreIsolated(t *testing.T) {
	repo := NewSessionRepository(zerolog.Nop())
	a := entities.SessionKey{ChatID: 1, UserID: 1}
	b := entities.SessionKey{ChatID: 1, UserID: 2}

	repo.SetURL(a, "https://youtu.be/a")
	repo.SetURL(b, "https://youtu.be/b")

	sa, _ := repo.Get(a)
	sb, _ := repo.Get(b)
	assert.Equal(t, "https://youtu.be/a", sa.PendingURL)
	assert.Equal(t, "https://youtu.be/b", sb.PendingURL)
}

func TestSessionRepository_Concurrent(t *testing.T) {
	repo := NewSessionRepository(zerolog.Nop())
	key := entities.SessionKey{ChatID: 1, UserID: 1}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rev := repo.SetURL(key, fmt.Sprintf("https://youtu.be/%d", i))
			repo.BindPrompt(key, i+1, rev)
			repo.Get(key)
		}(i)
	}
	wg.Wait()

	sess, ok := repo.Get(key)
	require.True(t, ok)
	assert.Equal(t, uint64(50), sess.Revision)
}
