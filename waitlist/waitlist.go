// Package waitlist records mobile app waitlist signups.
package waitlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"cyberguard/storage"
)

// StorageKey holds the signup list as one JSON array, rewritten whole
// on every change like the feed is.
const StorageKey = "cyberwareWaitlistEmails"

var ErrEmptyEmail = errors.New("email is required")

// List is the waitlist signup store.
type List struct {
	mu      sync.Mutex
	backend storage.Store
	key     string
}

func New(backend storage.Store) *List {
	return &List{backend: backend, key: StorageKey}
}

// Join records the email and reports whether it was newly added.
// Addresses are normalized to lower case; duplicates collapse.
func (l *List) Join(email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, ErrEmptyEmail
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	emails, err := l.load()
	if err != nil {
		return false, err
	}

	for _, existing := range emails {
		if existing == email {
			return false, nil
		}
	}

	emails = append(emails, email)
	if err := l.save(emails); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{"count": len(emails)}).Info("Waitlist signup recorded")
	return true, nil
}

// Emails returns a snapshot of all recorded signups in join order.
func (l *List) Emails() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *List) load() ([]string, error) {
	raw, err := l.backend.Get(l.key)
	if errors.Is(err, storage.ErrNoValue) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load waitlist: %w", err)
	}

	var emails []string
	if err := json.Unmarshal(raw, &emails); err != nil {
		return nil, fmt.Errorf("decode waitlist: %w", err)
	}
	return emails, nil
}

func (l *List) save(emails []string) error {
	raw, err := json.Marshal(emails)
	if err != nil {
		return fmt.Errorf("encode waitlist: %w", err)
	}
	if err := l.backend.Put(l.key, raw); err != nil {
		return fmt.Errorf("save waitlist: %w", err)
	}
	return nil
}
