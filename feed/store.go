// Package feed owns the community post list: validation, persistence,
// newest-first listing and ownership-scoped deletion. The store never
// produces markup; rendering is the caller's concern.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"cyberguard/models"
	"cyberguard/moderation"
	"cyberguard/storage"
)

// StorageKey is the key the whole post list is persisted under. The
// name is part of the on-disk contract.
const StorageKey = "cyberwareCommunityPosts"

// SystemSessionID authors the seeded example posts. It never matches a
// real session id, so seeded posts are never user-deletable.
const SystemSessionID = "system-static"

const (
	MinContentLength = 30
	MaxContentLength = 1000
)

// Validation failures, in the order they are checked.
var (
	ErrEmptyField       = errors.New("title and content are required")
	ErrContentViolation = errors.New("content violates the friendly posts guidelines")
	ErrLengthViolation  = fmt.Errorf("content must be between %d and %d characters", MinContentLength, MaxContentLength)
)

// Deletion failures.
var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("post belongs to another session")
)

// Config carries the store's injected dependencies. Zero fields fall
// back to production defaults.
type Config struct {
	Backend storage.Store
	Filter  *moderation.Filter

	// Now is the current-time source. Defaults to time.Now.
	Now func() time.Time

	// GuardianID generates the 4-digit display pseudonym assigned to
	// each new post. Defaults to a uniform random 1000-9999.
	GuardianID func() string

	// Key overrides the persisted storage key. Defaults to StorageKey.
	Key string
}

// Store is the feed store and moderator. All operations serialize on
// an internal mutex and run to completion before returning; writers in
// other processes race last-writer-wins.
type Store struct {
	mu       sync.Mutex
	backend  storage.Store
	filter   *moderation.Filter
	now      func() time.Time
	guardian func() string
	key      string
}

func NewStore(cfg Config) *Store {
	if cfg.Backend == nil {
		cfg.Backend = storage.NewMemory()
	}
	if cfg.Filter == nil {
		cfg.Filter = moderation.MustNewFilter(moderation.DefaultForbiddenWords)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.GuardianID == nil {
		cfg.GuardianID = RandomGuardianID
	}
	if cfg.Key == "" {
		cfg.Key = StorageKey
	}
	return &Store{
		backend:  cfg.Backend,
		filter:   cfg.Filter,
		now:      cfg.Now,
		guardian: cfg.GuardianID,
		key:      cfg.Key,
	}
}

// RandomGuardianID returns a random 4-digit pseudonym.
func RandomGuardianID() string {
	return fmt.Sprintf("%d", rand.Intn(9000)+1000)
}

// ValidateDraft checks a draft post against the submission rules.
// Checks run in a fixed order so the caller surfaces one error at a
// time: empty fields, then forbidden content, then content length.
func (s *Store) ValidateDraft(title, content string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" || content == "" {
		return ErrEmptyField
	}

	for _, field := range []string{title, content} {
		if token, ok := s.filter.Match(field); ok {
			return fmt.Errorf("%w: %q", ErrContentViolation, token)
		}
	}

	if n := utf16Length(content); n < MinContentLength || n > MaxContentLength {
		return ErrLengthViolation
	}
	return nil
}

// Submit appends a new post to the feed and persists it. The draft is
// assumed to have passed ValidateDraft already; validation and
// submission are split so the caller can interpose a confirmation step
// between them. Submit does not re-validate.
func (s *Store) Submit(title, content string, category models.Category, sessionID string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load()
	if err != nil {
		return models.Post{}, err
	}

	now := s.now()
	post := models.Post{
		ID:            newID(posts, category, now),
		Title:         strings.TrimSpace(title),
		Content:       strings.TrimSpace(content),
		GuardianID:    s.guardian(),
		Category:      category,
		Timestamp:     now,
		UserSessionID: sessionID,
	}

	posts = append(posts, post)
	if err := s.save(posts); err != nil {
		return models.Post{}, err
	}

	log.WithFields(log.Fields{
		"id":       post.ID,
		"category": post.Category,
		"guardian": post.GuardianID,
	}).Info("Post submitted")

	return post, nil
}

// Delete removes the post with the given id, provided the requesting
// session created it. There is no soft delete and no undo.
func (s *Store) Delete(id, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, post := range posts {
		if post.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if posts[idx].UserSessionID != sessionID {
		return ErrForbidden
	}

	posts = append(posts[:idx], posts[idx+1:]...)
	if err := s.save(posts); err != nil {
		return err
	}

	log.WithFields(log.Fields{"id": id}).Info("Post deleted")
	return nil
}

// List returns a fresh snapshot of all posts ordered newest first.
func (s *Store) List() ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
	return posts, nil
}

// Tidy removes posts older than the given age and returns how many
// were dropped. Seeded posts age out like any other.
func (s *Store) Tidy(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load()
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-maxAge)
	kept := posts[:0]
	for _, post := range posts {
		if post.Timestamp.After(cutoff) {
			kept = append(kept, post)
		}
	}

	removed := len(posts) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{"removed": removed}).Info("Tidied feed")
	return removed, nil
}

// load reads the persisted list, seeding the backend with the example
// posts on first use. Callers must hold s.mu.
func (s *Store) load() ([]models.Post, error) {
	raw, err := s.backend.Get(s.key)
	if errors.Is(err, storage.ErrNoValue) {
		seeds := SeedPosts(s.now())
		if err := s.save(seeds); err != nil {
			return nil, err
		}
		return seeds, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// save rewrites the whole list under the storage key in one write.
// Callers must hold s.mu.
func (s *Store) save(posts []models.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := s.backend.Put(s.key, raw); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

// newID derives a fresh id from the creation time and category,
// bumping the millisecond component until it is unique in the list.
func newID(posts []models.Post, category models.Category, now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", category, ms)
		if !idExists(posts, id) {
			return id
		}
		ms++
	}
}

func idExists(posts []models.Post, id string) bool {
	for _, post := range posts {
		if post.ID == id {
			return true
		}
	}
	return false
}

// utf16Length counts UTF-16 code units, the unit the length bounds
// were originally written against. Characters outside the basic
// multilingual plane count as two.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}
