package nav

import (
	"errors"
	"testing"

	"github.com/five82/snapback/internal/archive"
)

var (
	may   = archive.Bucket{Key: "k1", Month: "may", Year: "2024"}
	items = []archive.MediaItem{
		{ID: 1, Filepath: "/a.jpg", MediaType: "image"},
		{ID: 3, Filepath: "/c.jpg", MediaType: "image"},
	}
)

func browsing(t *testing.T) *Machine {
	t.Helper()
	var m Machine
	if err := m.SignedIn(); err != nil {
		t.Fatalf("SignedIn: %v", err)
	}
	if err := m.ShowBucket(may, items); err != nil {
		t.Fatalf("ShowBucket: %v", err)
	}
	return &m
}

func TestMachine_StartsOnLogin(t *testing.T) {
	var m Machine
	if m.Screen() != ScreenLogin {
		t.Fatalf("Screen = %v, want login", m.Screen())
	}
	for name, fn := range map[string]func() error{
		"show bucket": func() error { return m.ShowBucket(may, items) },
		"clear":       m.ClearItems,
		"open":        func() error { return m.Open(items[0]) },
		"back":        m.Back,
	} {
		if err := fn(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s from login: err = %v, want ErrInvalidTransition", name, err)
		}
	}
	if m.Screen() != ScreenLogin {
		t.Fatalf("rejected events changed screen to %v", m.Screen())
	}
}

func TestMachine_SignedInStartsEmptyBrowse(t *testing.T) {
	var m Machine
	if err := m.SignedIn(); err != nil {
		t.Fatalf("SignedIn: %v", err)
	}
	b := m.Browsing()
	if m.Screen() != ScreenBrowse || b.HasBucket || len(b.Items) != 0 {
		t.Fatalf("after SignedIn: screen=%v browsing=%#v, want empty browse", m.Screen(), b)
	}
	if err := m.SignedIn(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second SignedIn err = %v, want ErrInvalidTransition", err)
	}
}

func TestMachine_OpenAndBackRestoresBrowse(t *testing.T) {
	m := browsing(t)
	before := m.Browsing()

	if err := m.Open(archive.MediaItem{ID: 3}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	item, ok := m.Detail()
	if m.Screen() != ScreenDetail || !ok || item.Filepath != "/c.jpg" {
		t.Fatalf("after Open: screen=%v item=%#v, want detail of id 3", m.Screen(), item)
	}
	if err := m.ShowBucket(may, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ShowBucket from detail err = %v, want ErrInvalidTransition", err)
	}

	if err := m.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	after := m.Browsing()
	if m.Screen() != ScreenBrowse {
		t.Fatalf("after Back: screen=%v, want browse", m.Screen())
	}
	if !after.Bucket.Equal(before.Bucket) || after.Bucket.Key != before.Bucket.Key || len(after.Items) != len(before.Items) {
		t.Fatalf("Back restored %#v, want %#v", after, before)
	}
	for i := range before.Items {
		if after.Items[i] != before.Items[i] {
			t.Fatalf("item %d = %#v, want %#v", i, after.Items[i], before.Items[i])
		}
	}
	if _, ok := m.Detail(); ok {
		t.Fatalf("Detail should be empty after Back")
	}
}

func TestMachine_OpenRequiresListedItem(t *testing.T) {
	m := browsing(t)
	if err := m.Open(archive.MediaItem{ID: 2}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Open(unlisted) err = %v, want ErrInvalidTransition", err)
	}
	if m.Screen() != ScreenBrowse {
		t.Fatalf("screen = %v, want browse", m.Screen())
	}
}

func TestMachine_ClearItemsKeepsBucket(t *testing.T) {
	m := browsing(t)
	if err := m.ClearItems(); err != nil {
		t.Fatalf("ClearItems: %v", err)
	}
	b := m.Browsing()
	if !b.HasBucket || !b.Bucket.Equal(may) || len(b.Items) != 0 {
		t.Fatalf("after ClearItems: %#v, want bucket kept and no items", b)
	}
}

func TestMachine_BrowsingReturnsCopy(t *testing.T) {
	m := browsing(t)
	b := m.Browsing()
	b.Items[0].ID = 999
	if m.Browsing().Items[0].ID != 1 {
		t.Fatalf("Browsing should return a copy of the items")
	}
}
