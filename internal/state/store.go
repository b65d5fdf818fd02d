package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/snapback/internal/archive"
	"github.com/five82/snapback/internal/nav"
)

// ListPolicy decides what the item list shows while a bucket is loading.
type ListPolicy int

const (
	// PolicyClear empties the list as soon as a new bucket is requested.
	PolicyClear ListPolicy = iota
	// PolicyKeep keeps the previous list until the new one arrives.
	PolicyKeep
)

// ParseListPolicy accepts "clear" or "keep" (case-insensitive). Empty is clear.
func ParseListPolicy(s string) (ListPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clear":
		return PolicyClear, nil
	case "keep":
		return PolicyKeep, nil
	default:
		return PolicyClear, fmt.Errorf("unknown list policy %q (want clear or keep)", s)
	}
}

func (p ListPolicy) String() string {
	if p == PolicyKeep {
		return "keep"
	}
	return "clear"
}

// Snapshot is everything the presentation layer may read.
type Snapshot struct {
	Authenticated   bool
	Screen          nav.Screen
	Buckets         []archive.Bucket
	ActiveBucket    archive.Bucket
	HasActiveBucket bool
	Items           []archive.MediaItem
	Detail          archive.MediaItem
	HasDetail       bool
	Pending         archive.Bucket
	Loading         bool
	ErrorMessage    string
	LastUpdated     time.Time
}

// Ticket identifies one media request. Only the most recently issued
// ticket may commit.
type Ticket struct {
	Seq    uint64
	Bucket archive.Bucket
}

// errSource records which operation produced the current error message so
// that a later success only clears its own failure.
type errSource int

const (
	errNone errSource = iota
	errBuckets
	errMedia
	errOther
)

// Store coordinates concurrent updates to the published state.
type Store struct {
	mu sync.RWMutex

	machine       nav.Machine
	authenticated bool
	buckets       []archive.Bucket
	errMessage    string
	errFrom       errSource
	lastUpdated   time.Time

	seq     uint64
	pending *archive.Bucket
}

// SignIn records a successful login and moves to an empty browse screen.
func (s *Store) SignIn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.SignedIn(); err != nil {
		return err
	}
	s.authenticated = true
	s.setError(errNone, "")
	s.touch()
	return nil
}

// SetBuckets replaces the bucket list. It clears the error message only
// when that message came from an earlier bucket fetch.
func (s *Store) SetBuckets(buckets []archive.Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = cloneBuckets(buckets)
	if s.errFrom == errBuckets {
		s.setError(errNone, "")
	}
	s.touch()
}

// FailBuckets records msg for a failed bucket fetch. The bucket list is
// left as it is.
func (s *Store) FailBuckets(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setError(errBuckets, msg)
	s.touch()
}

// BeginMedia marks bucket as the one whose items should be shown next and
// returns the ticket the fetch must present to commit. Any earlier ticket
// becomes stale. Buckets can only be selected from the browse screen.
func (s *Store) BeginMedia(bucket archive.Bucket, policy ListPolicy) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if screen := s.machine.Screen(); screen != nav.ScreenBrowse {
		return Ticket{}, fmt.Errorf("%w: select bucket from %s", nav.ErrInvalidTransition, screen)
	}
	s.seq++
	b := bucket
	s.pending = &b
	if policy == PolicyClear {
		_ = s.machine.ClearItems()
	}
	s.touch()
	return Ticket{Seq: s.seq, Bucket: bucket}, nil
}

// CommitMedia shows items for the ticket's bucket. It reports false and
// changes nothing when the ticket is stale.
func (s *Store) CommitMedia(t Ticket, items []archive.MediaItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(t) {
		return false
	}
	if err := s.machine.ShowBucket(t.Bucket, items); err != nil {
		return false
	}
	s.pending = nil
	s.setError(errNone, "")
	s.touch()
	return true
}

// FailMedia records msg for the ticket's request. Stale tickets are ignored.
// The item list is left as it is.
func (s *Store) FailMedia(t Ticket, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(t) {
		return false
	}
	s.pending = nil
	s.setError(errMedia, msg)
	s.touch()
	return true
}

func (s *Store) current(t Ticket) bool {
	return t.Seq == s.seq && s.pending != nil && s.pending.Equal(t.Bucket)
}

// Open moves to the detail screen for item. A media request still in flight
// is superseded so that Back returns to exactly what was on screen.
func (s *Store) Open(item archive.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Open(item); err != nil {
		return err
	}
	if s.pending != nil {
		s.seq++
		s.pending = nil
	}
	s.touch()
	return nil
}

// Back returns from the detail screen.
func (s *Store) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Back(); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SetError replaces the user-facing error message. Empty clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setError(errOther, msg)
	s.touch()
}

func (s *Store) setError(from errSource, msg string) {
	if msg == "" {
		from = errNone
	}
	s.errMessage = msg
	s.errFrom = from
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	browsing := s.machine.Browsing()
	snap := Snapshot{
		Authenticated:   s.authenticated,
		Screen:          s.machine.Screen(),
		Buckets:         cloneBuckets(s.buckets),
		ActiveBucket:    browsing.Bucket,
		HasActiveBucket: browsing.HasBucket,
		Items:           browsing.Items,
		ErrorMessage:    s.errMessage,
		LastUpdated:     s.lastUpdated,
	}
	snap.Detail, snap.HasDetail = s.machine.Detail()
	if s.pending != nil {
		snap.Pending = *s.pending
		snap.Loading = true
	}
	return snap
}

func (s *Store) touch() {
	s.lastUpdated = time.Now()
}

func cloneBuckets(buckets []archive.Bucket) []archive.Bucket {
	if len(buckets) == 0 {
		return nil
	}
	dup := make([]archive.Bucket, len(buckets))
	copy(dup, buckets)
	return dup
}
