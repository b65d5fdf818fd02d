// Package nav tracks which screen the client is on and validates moves
// between them.
//
//	Login --SignedIn--> Browse --Open--> Detail
//	                      ^                |
//	                      +------Back------+
//
// Browse carries the active bucket (if any) and its items. Back restores
// the Browse value exactly as it was before Open; nothing is re-fetched.
// There is no transition out of Browse other than Open, and no logout.
package nav

import (
	"errors"
	"fmt"

	"github.com/five82/snapback/internal/archive"
)

// Screen identifies a navigation state.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenBrowse
	ScreenDetail
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenBrowse:
		return "browse"
	case ScreenDetail:
		return "detail"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// ErrInvalidTransition is wrapped by every rejected event.
var ErrInvalidTransition = errors.New("invalid transition")

// Browsing is the payload of ScreenBrowse.
type Browsing struct {
	Bucket    archive.Bucket
	HasBucket bool
	Items     []archive.MediaItem
}

func (b Browsing) clone() Browsing {
	if b.Items != nil {
		b.Items = append([]archive.MediaItem(nil), b.Items...)
	}
	return b
}

// Machine is the navigation state machine. The zero value is on
// ScreenLogin. It is not safe for concurrent use; state.Store guards it.
type Machine struct {
	screen   Screen
	browsing Browsing
	detail   archive.MediaItem
}

// Screen returns the current screen.
func (m *Machine) Screen() Screen {
	return m.screen
}

// Browsing returns a copy of the browse payload. On ScreenDetail it is the
// state Back will restore.
func (m *Machine) Browsing() Browsing {
	return m.browsing.clone()
}

// Detail returns the item shown on ScreenDetail.
func (m *Machine) Detail() (archive.MediaItem, bool) {
	if m.screen != ScreenDetail {
		return archive.MediaItem{}, false
	}
	return m.detail, true
}

// SignedIn moves Login to an empty Browse.
func (m *Machine) SignedIn() error {
	if m.screen != ScreenLogin {
		return m.reject("signed in")
	}
	m.screen = ScreenBrowse
	m.browsing = Browsing{}
	return nil
}

// ShowBucket replaces the browse payload with bucket and its items.
func (m *Machine) ShowBucket(bucket archive.Bucket, items []archive.MediaItem) error {
	if m.screen != ScreenBrowse {
		return m.reject("show bucket")
	}
	m.browsing = Browsing{
		Bucket:    bucket,
		HasBucket: true,
		Items:     append([]archive.MediaItem(nil), items...),
	}
	return nil
}

// ClearItems empties the item list and keeps the active bucket.
func (m *Machine) ClearItems() error {
	if m.screen != ScreenBrowse {
		return m.reject("clear items")
	}
	m.browsing.Items = nil
	return nil
}

// Open shows item. The item must be in the current list.
func (m *Machine) Open(item archive.MediaItem) error {
	if m.screen != ScreenBrowse {
		return m.reject("open item")
	}
	found := false
	for _, it := range m.browsing.Items {
		if it.ID == item.ID {
			item = it
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: item %d is not in the current list", ErrInvalidTransition, item.ID)
	}
	m.screen = ScreenDetail
	m.detail = item
	return nil
}

// Back returns from Detail to the Browse state it came from.
func (m *Machine) Back() error {
	if m.screen != ScreenDetail {
		return m.reject("back")
	}
	m.screen = ScreenBrowse
	m.detail = archive.MediaItem{}
	return nil
}

func (m *Machine) reject(event string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, m.screen)
}
