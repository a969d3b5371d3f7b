package feed_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberguard/feed"
	"cyberguard/models"
	"cyberguard/storage"
)

var testTime = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTestStore(backend storage.Store, now func() time.Time) *feed.Store {
	if now == nil {
		now = func() time.Time { return testTime }
	}
	return feed.NewStore(feed.Config{
		Backend:    backend,
		Now:        now,
		GuardianID: func() string { return "4242" },
	})
}

func TestValidateDraft(t *testing.T) {
	validContent := "I keep my router firmware updated and rotate passwords monthly."

	tests := []struct {
		name    string
		title   string
		content string
		wantErr error
	}{
		{
			name:    "valid draft",
			title:   "Router hygiene",
			content: validContent,
			wantErr: nil,
		},
		{
			name:    "content at lower bound",
			title:   "Bound",
			content: "123456789012345678901234567890",
			wantErr: nil,
		},
		{
			name:    "empty title",
			title:   "   ",
			content: validContent,
			wantErr: feed.ErrEmptyField,
		},
		{
			name:    "empty content",
			title:   "A title",
			content: "\n\t ",
			wantErr: feed.ErrEmptyField,
		},
		{
			name:    "forbidden word in title",
			title:   "Is this a scam?",
			content: validContent,
			wantErr: feed.ErrContentViolation,
		},
		{
			name:    "forbidden word in content",
			title:   "A question",
			content: "Someone sent me free money offers, should I reply to any of them?",
			wantErr: feed.ErrContentViolation,
		},
		{
			name:    "whole word does not match inside larger word",
			title:   "Scammers everywhere",
			content: "A scammer contacted my grandmother pretending to be her bank.",
			wantErr: nil,
		},
		{
			name:    "content too short",
			title:   "Short",
			content: "Way too short for the feed.",
			wantErr: feed.ErrLengthViolation,
		},
		{
			name:    "content too long",
			title:   "Long",
			content: makeContent(1001),
			wantErr: feed.ErrLengthViolation,
		},
		{
			name:    "content at upper bound",
			title:   "Long but allowed",
			content: makeContent(1000),
			wantErr: nil,
		},
		{
			name:    "content check precedes length check",
			title:   "Short",
			content: "scam alert",
			wantErr: feed.ErrContentViolation,
		},
		{
			name:    "emptiness check precedes content check",
			title:   "",
			content: "scam alert",
			wantErr: feed.ErrEmptyField,
		},
	}

	store := newTestStore(storage.NewMemory(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ValidateDraft(tt.title, tt.content)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDraftCountsUTF16Units(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	// 15 astral-plane runes are 30 UTF-16 code units.
	locks := ""
	for i := 0; i < 15; i++ {
		locks += "\U0001F510"
	}
	assert.NoError(t, store.ValidateDraft("Locks", locks))

	// 29 BMP runes stay under the minimum.
	assert.ErrorIs(t, store.ValidateDraft("Short", makeContent(29)), feed.ErrLengthViolation)
}

func TestListSeedsEmptyStore(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	posts, err := store.List()
	require.NoError(t, err)
	require.Len(t, posts, 3)

	for _, post := range posts {
		assert.Equal(t, feed.SystemSessionID, post.UserSessionID)
	}

	// Seeded posts are never deletable by a real session.
	for _, post := range posts {
		err := store.Delete(post.ID, "sess-1756382400000-abc1234")
		assert.ErrorIs(t, err, feed.ErrForbidden)
	}

	// Listing again does not reseed or duplicate.
	posts, err = store.List()
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestSubmitAppearsFirst(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	post, err := store.Submit("Router hygiene", makeContent(60), models.CategoryTip, "sess-a")
	require.NoError(t, err)

	assert.Equal(t, "tip-"+strconv.FormatInt(testTime.UnixMilli(), 10), post.ID)
	assert.Equal(t, "4242", post.GuardianID)
	assert.Equal(t, testTime, post.Timestamp)

	posts, err := store.List()
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, post.ID, posts[0].ID)

	// Exactly once.
	count := 0
	for _, p := range posts {
		if p.ID == post.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSubmitTrimsFields(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	post, err := store.Submit("  Padded title  ", "  "+makeContent(40)+"  ", models.CategoryQuestion, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, "Padded title", post.Title)
	assert.Equal(t, makeContent(40), post.Content)
}

func TestSubmitAssignsUniqueIDs(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	first, err := store.Submit("One", makeContent(40), models.CategoryTip, "sess-a")
	require.NoError(t, err)
	second, err := store.Submit("Two", makeContent(40), models.CategoryTip, "sess-a")
	require.NoError(t, err)

	// Same clock reading, still distinct ids.
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDeleteOwnership(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	post, err := store.Submit("Mine", makeContent(40), models.CategoryDanger, "sess-owner")
	require.NoError(t, err)

	// Another session cannot delete it, and the post stays.
	err = store.Delete(post.ID, "sess-intruder")
	assert.ErrorIs(t, err, feed.ErrForbidden)

	posts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, posts, 4)

	// The owner can, and the post is gone afterwards.
	require.NoError(t, store.Delete(post.ID, "sess-owner"))

	posts, err = store.List()
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	for _, p := range posts {
		assert.NotEqual(t, post.ID, p.ID)
	}

	// Deleting again reports not found.
	assert.ErrorIs(t, store.Delete(post.ID, "sess-owner"), feed.ErrNotFound)
}

func TestRoundTripThroughBackend(t *testing.T) {
	backend := storage.NewMemory()

	store := newTestStore(backend, nil)
	submitted, err := store.Submit("Persisted", makeContent(50), models.CategoryQuestion, "sess-a")
	require.NoError(t, err)

	// A second store over the same backend sees the identical list.
	reopened := newTestStore(backend, nil)
	posts, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, posts, 4)

	got := posts[0]
	assert.Equal(t, submitted.ID, got.ID)
	assert.Equal(t, submitted.Title, got.Title)
	assert.Equal(t, submitted.Content, got.Content)
	assert.Equal(t, submitted.GuardianID, got.GuardianID)
	assert.Equal(t, submitted.Category, got.Category)
	assert.Equal(t, submitted.UserSessionID, got.UserSessionID)
	assert.True(t, submitted.Timestamp.Equal(got.Timestamp))
}

func TestTidyRemovesOldPosts(t *testing.T) {
	store := newTestStore(storage.NewMemory(), nil)

	// Seeds sit at -3h, -24h and -48h.
	removed, err := store.Tidy(30 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	posts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func makeContent(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
