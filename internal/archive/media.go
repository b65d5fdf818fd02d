package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Media lists the items of a bucket and derives their download URLs.
type Media struct {
	client  *Client
	session *Session
}

// NewMedia returns a Media client that authorizes through session.
func NewMedia(client *Client, session *Session) *Media {
	return &Media{client: client, session: session}
}

// FetchMedia returns the image items of bucket in server order. Items of
// any other media type are dropped without error.
func (m *Media) FetchMedia(ctx context.Context, bucket Bucket) ([]MediaItem, error) {
	auth, err := m.session.AuthorizationHeader()
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("month", bucket.Month)
	query.Set("year", bucket.Year)

	body, err := m.client.do(ctx, request{
		op:     "fetch media",
		method: http.MethodGet,
		path:   mediaPath,
		query:  query,
		auth:   auth,
	})
	if err != nil {
		return nil, err
	}
	items, err := decodeMedia(body)
	if err != nil {
		return nil, &DecodeError{Op: "fetch media", Err: err}
	}
	return FilterImages(items), nil
}

// ResourceURL joins the base address and the item's server-relative path.
// It does no I/O and returns the same URL for the same item every time.
func (m *Media) ResourceURL(item MediaItem) (*url.URL, error) {
	raw := m.client.base + item.Filepath
	if err := checkURLText(raw); err != nil {
		return nil, &URLError{URL: raw, Err: err}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &URLError{URL: raw, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &URLError{URL: raw, Err: fmt.Errorf("not an absolute url")}
	}
	return u, nil
}

// checkURLText rejects characters that must be escaped before they can
// appear in a URL. net/url accepts some of these (spaces, quotes) in paths.
func checkURLText(raw string) error {
	for i, r := range raw {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune(`"<>\^`+"`{|}", r) {
			return fmt.Errorf("unescaped character %q at offset %d", r, i)
		}
	}
	return nil
}
