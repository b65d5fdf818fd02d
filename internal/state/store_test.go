package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/snapback/internal/archive"
	"github.com/five82/snapback/internal/nav"
)

var (
	bucketA = archive.Bucket{Key: "a", Month: "january", Year: "2024"}
	bucketB = archive.Bucket{Key: "b", Month: "february", Year: "2024"}
	itemsA  = []archive.MediaItem{{ID: 1, MediaType: "image"}, {ID: 2, MediaType: "image"}}
	itemsB  = []archive.MediaItem{{ID: 10, MediaType: "image"}}
)

func signedIn(t *testing.T) *Store {
	t.Helper()
	var s Store
	if err := s.SignIn(); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return &s
}

func begin(t *testing.T, s *Store, b archive.Bucket, p ListPolicy) Ticket {
	t.Helper()
	ticket, err := s.BeginMedia(b, p)
	if err != nil {
		t.Fatalf("BeginMedia: %v", err)
	}
	return ticket
}

func TestStore_InitialSnapshot(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Authenticated || snap.Screen != nav.ScreenLogin || snap.Loading || snap.HasDetail {
		t.Fatalf("initial snapshot = %#v, want unauthenticated login screen", snap)
	}
	if _, err := s.BeginMedia(bucketA, PolicyClear); !errors.Is(err, nav.ErrInvalidTransition) {
		t.Fatalf("BeginMedia before login err = %v, want ErrInvalidTransition", err)
	}
}

func TestStore_SignInAndBucketsClone(t *testing.T) {
	s := signedIn(t)
	before := time.Now()
	s.SetBuckets([]archive.Bucket{bucketA, bucketB})

	snap := s.Snapshot()
	if !snap.Authenticated || snap.Screen != nav.ScreenBrowse {
		t.Fatalf("snapshot = %#v, want authenticated browse", snap)
	}
	if len(snap.Buckets) != 2 || !snap.Buckets[0].Equal(bucketA) {
		t.Fatalf("buckets = %#v, want A,B", snap.Buckets)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Buckets[0].Month = "mutated"
	if s.Snapshot().Buckets[0].Month != "january" {
		t.Fatalf("Snapshot should clone buckets")
	}
}

func TestStore_CommitShowsItems(t *testing.T) {
	s := signedIn(t)
	ticket := begin(t, s, bucketA, PolicyClear)
	if snap := s.Snapshot(); !snap.Loading || !snap.Pending.Equal(bucketA) {
		t.Fatalf("snapshot = %#v, want loading A", snap)
	}
	if !s.CommitMedia(ticket, itemsA) {
		t.Fatalf("CommitMedia returned false for current ticket")
	}
	snap := s.Snapshot()
	if snap.Loading || !snap.HasActiveBucket || !snap.ActiveBucket.Equal(bucketA) || len(snap.Items) != 2 {
		t.Fatalf("snapshot = %#v, want A with 2 items", snap)
	}
	snap.Items[0].ID = 99
	if s.Snapshot().Items[0].ID != 1 {
		t.Fatalf("Snapshot should clone items")
	}
}

func TestStore_StaleCommitIsDiscarded(t *testing.T) {
	s := signedIn(t)
	ticketA := begin(t, s, bucketA, PolicyClear)
	ticketB := begin(t, s, bucketB, PolicyClear)

	if !s.CommitMedia(ticketB, itemsB) {
		t.Fatalf("CommitMedia(B) returned false")
	}
	if s.CommitMedia(ticketA, itemsA) {
		t.Fatalf("CommitMedia(A) after B returned true, want stale")
	}
	if s.FailMedia(ticketA, "late failure") {
		t.Fatalf("FailMedia(A) returned true, want stale")
	}
	snap := s.Snapshot()
	if !snap.ActiveBucket.Equal(bucketB) || len(snap.Items) != 1 || snap.Items[0].ID != 10 || snap.ErrorMessage != "" {
		t.Fatalf("snapshot = %#v, want B's items and no error", snap)
	}
}

func TestStore_StaleCommitBeforeNewerResolves(t *testing.T) {
	s := signedIn(t)
	ticketA := begin(t, s, bucketA, PolicyClear)
	_ = begin(t, s, bucketB, PolicyClear)

	if s.CommitMedia(ticketA, itemsA) {
		t.Fatalf("CommitMedia(A) while B is pending returned true")
	}
	if snap := s.Snapshot(); !snap.Loading || !snap.Pending.Equal(bucketB) || len(snap.Items) != 0 {
		t.Fatalf("snapshot = %#v, want still loading B with empty list", snap)
	}
}

func TestStore_ReselectingSameBucketUsesLatestTicket(t *testing.T) {
	s := signedIn(t)
	first := begin(t, s, bucketA, PolicyClear)
	second := begin(t, s, bucketA, PolicyClear)
	if s.CommitMedia(first, itemsB) {
		t.Fatalf("older ticket for the same bucket committed")
	}
	if !s.CommitMedia(second, itemsA) {
		t.Fatalf("newest ticket did not commit")
	}
}

func TestStore_ListPolicies(t *testing.T) {
	s := signedIn(t)
	if !s.CommitMedia(begin(t, s, bucketA, PolicyClear), itemsA) {
		t.Fatalf("initial commit failed")
	}

	begin(t, s, bucketB, PolicyKeep)
	snap := s.Snapshot()
	if len(snap.Items) != 2 || !snap.ActiveBucket.Equal(bucketA) {
		t.Fatalf("keep policy: snapshot = %#v, want A's items while loading", snap)
	}

	begin(t, s, bucketB, PolicyClear)
	if snap := s.Snapshot(); len(snap.Items) != 0 {
		t.Fatalf("clear policy: items = %#v, want empty while loading", snap.Items)
	}
}

func TestStore_FailMediaKeepsItems(t *testing.T) {
	s := signedIn(t)
	if !s.CommitMedia(begin(t, s, bucketA, PolicyClear), itemsA) {
		t.Fatalf("initial commit failed")
	}
	ticket := begin(t, s, bucketB, PolicyKeep)
	if !s.FailMedia(ticket, "Failed to fetch media: boom") {
		t.Fatalf("FailMedia returned false for current ticket")
	}
	snap := s.Snapshot()
	if snap.Loading || len(snap.Items) != 2 || snap.ErrorMessage != "Failed to fetch media: boom" {
		t.Fatalf("snapshot = %#v, want A's items and the error", snap)
	}
}

func TestStore_OpenSupersedesPendingAndBackRestores(t *testing.T) {
	s := signedIn(t)
	if !s.CommitMedia(begin(t, s, bucketA, PolicyClear), itemsA) {
		t.Fatalf("initial commit failed")
	}
	late := begin(t, s, bucketB, PolicyKeep)

	if err := s.Open(itemsA[1]); err != nil {
		t.Fatalf("Open: %v", err)
	}
	snap := s.Snapshot()
	if snap.Screen != nav.ScreenDetail || !snap.HasDetail || snap.Detail.ID != 2 || snap.Loading {
		t.Fatalf("snapshot = %#v, want detail of item 2 and nothing pending", snap)
	}
	if s.CommitMedia(late, itemsB) {
		t.Fatalf("superseded ticket committed while on detail")
	}

	if err := s.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	snap = s.Snapshot()
	if snap.Screen != nav.ScreenBrowse || !snap.ActiveBucket.Equal(bucketA) || len(snap.Items) != 2 || snap.HasDetail {
		t.Fatalf("snapshot = %#v, want A's browse state restored", snap)
	}
}

func TestStore_BucketsOnlyClearTheirOwnError(t *testing.T) {
	s := signedIn(t)
	s.SetBuckets([]archive.Bucket{bucketA})
	if !s.FailMedia(begin(t, s, bucketB, PolicyKeep), "Failed to fetch media") {
		t.Fatalf("FailMedia rejected the current ticket")
	}

	s.SetBuckets([]archive.Bucket{bucketA, bucketB})
	if got := s.Snapshot().ErrorMessage; got != "Failed to fetch media" {
		t.Fatalf("ErrorMessage = %q, want media failure kept", got)
	}

	s.FailBuckets("Failed to fetch metadata")
	s.SetBuckets([]archive.Bucket{bucketA, bucketB})
	snap := s.Snapshot()
	if snap.ErrorMessage != "" || len(snap.Buckets) != 2 {
		t.Fatalf("snapshot = %#v, want bucket failure cleared", snap)
	}
}

func TestParseListPolicy(t *testing.T) {
	for in, want := range map[string]ListPolicy{"": PolicyClear, "clear": PolicyClear, " Keep ": PolicyKeep} {
		got, err := ParseListPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseListPolicy(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseListPolicy("spinner"); err == nil {
		t.Fatalf("ParseListPolicy(spinner) returned nil error")
	}
}
