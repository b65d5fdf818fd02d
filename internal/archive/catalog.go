package archive

import (
	"context"
	"net/http"
)

// Catalog lists the month/year buckets available in the archive.
type Catalog struct {
	client  *Client
	session *Session
}

// NewCatalog returns a Catalog that authorizes through session.
func NewCatalog(client *Client, session *Session) *Catalog {
	return &Catalog{client: client, session: session}
}

// FetchBuckets returns the buckets in server order. Every call re-fetches.
// Without a session token it fails with ErrNotAuthenticated and sends
// nothing.
func (c *Catalog) FetchBuckets(ctx context.Context) ([]Bucket, error) {
	auth, err := c.session.AuthorizationHeader()
	if err != nil {
		return nil, err
	}
	body, err := c.client.do(ctx, request{
		op:     "fetch buckets",
		method: http.MethodGet,
		path:   metadataPath,
		auth:   auth,
	})
	if err != nil {
		return nil, err
	}
	buckets, err := decodeBuckets(body)
	if err != nil {
		return nil, &DecodeError{Op: "fetch buckets", Err: err}
	}
	return buckets, nil
}
