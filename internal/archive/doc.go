// Package archive provides the HTTP clients for a media backup archive.
//
// # Overview
//
// The archive groups media by month and year. A client logs in once for a
// bearer token, lists the available buckets, lists the items of one bucket
// and derives a download URL per item.
//
// # Architecture
//
//   - client.go: shared transport (Client), URL building, request pacing
//   - session.go: login exchange and the in-memory bearer token (Session)
//   - catalog.go: bucket listing (Catalog)
//   - media.go: per-bucket item listing and resource URLs (Media)
//   - types.go: Bucket, MediaItem and strict response decoding
//   - errors.go: the error taxonomy
//
// Session, Catalog and Media share one *Client. Catalog and Media receive
// the Session explicitly and ask it for the Authorization header on every
// call, so an unauthenticated call fails before anything is sent.
//
// # Usage
//
//	client, err := archive.NewClient(archive.ClientConfig{BaseURL: "127.0.0.1:4000"})
//	if err != nil {
//		return err
//	}
//	session := archive.NewSession(client)
//	if _, err := session.Login(ctx, archive.Credentials{Username: u, Password: p}); err != nil {
//		return err
//	}
//	buckets, err := archive.NewCatalog(client, session).FetchBuckets(ctx)
//	...
//	items, err := archive.NewMedia(client, session).FetchMedia(ctx, buckets[0])
//
// # API Endpoints
//
//   - POST /api/login: {username, password} -> {token} JSON or a raw text token
//   - GET /api/backups/metadata: {data: [{month, year}]}
//   - GET /api/backups?month=&year=: {media: [{filepath, id, media_type, metadata_date}]}
//   - GET <base><filepath>: the media payload itself (not fetched here)
//
// # Login Responses
//
// The login body is read two ways, in order: a JSON object with a string
// "token" field, then the whole body as text. Either value is whitespace
// trimmed. An empty result is a failed login.
//
// # Error Handling
//
//   - *URLError: the endpoint or resource URL could not be built
//   - ErrNotAuthenticated: no token is held
//   - *NetworkError: transport failure or a non-2xx status (see IsStatus)
//   - *DecodeError: the body does not have the documented shape
//   - *AuthError: login failed; wraps the URLError or NetworkError cause
//
// There are no retries. Timeouts are the transport's unless
// ClientConfig.Timeout is set.
//
// # Thread Safety
//
// All types are safe for concurrent use. The token is guarded by a
// sync.RWMutex, so readers never observe a partially written value.
package archive
