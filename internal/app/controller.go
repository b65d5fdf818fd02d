package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/five82/snapback/internal/archive"
	"github.com/five82/snapback/internal/state"
)

// User-facing messages.
const (
	msgMissingCredentials = "Please enter both username and password."
	msgNotAuthenticated   = "User is not authenticated"
	msgInvalidURL         = "Invalid URL"
	msgBadCredentials     = "Login failed: invalid username or password"
)

// Controller turns user gestures into archive calls and records the outcome
// in the store. It is the error boundary: handlers never return errors;
// failures become the store's error message and the rest of the state is
// left as it was.
type Controller struct {
	session *archive.Session
	catalog *archive.Catalog
	media   *archive.Media
	store   *state.Store
	policy  state.ListPolicy
	logger  *slog.Logger
}

// NewController wires a session and the catalog/media clients around client.
func NewController(client *archive.Client, store *state.Store, policy state.ListPolicy, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	session := archive.NewSession(client)
	return &Controller{
		session: session,
		catalog: archive.NewCatalog(client, session),
		media:   archive.NewMedia(client, session),
		store:   store,
		policy:  policy,
		logger:  logger,
	}
}

// Store returns the published state.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Login exchanges the credentials for a token. On success it moves to the
// browse screen, loads the buckets and selects the first one.
func (c *Controller) Login(ctx context.Context, username, password string) {
	if strings.TrimSpace(username) == "" || password == "" {
		c.store.SetError(msgMissingCredentials)
		return
	}
	if _, err := c.session.Login(ctx, archive.Credentials{Username: username, Password: password}); err != nil {
		c.logger.WarnContext(ctx, "login failed", "user", username, "error", err)
		c.store.SetError(loginMessage(err))
		return
	}
	if err := c.store.SignIn(); err != nil {
		// Already browsing; the new token simply replaces the old one.
		c.logger.DebugContext(ctx, "sign in ignored", "error", err)
	}

	buckets, ok := c.refresh(ctx)
	if !ok || len(buckets) == 0 {
		return
	}
	c.SelectBucket(ctx, buckets[0])
}

// RefreshBuckets re-fetches the bucket list. A failure keeps the old list.
func (c *Controller) RefreshBuckets(ctx context.Context) {
	c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) ([]archive.Bucket, bool) {
	buckets, err := c.catalog.FetchBuckets(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch buckets failed", "error", err)
		c.store.FailBuckets(fetchMessage("Failed to fetch metadata", err))
		return nil, false
	}
	c.logger.InfoContext(ctx, "fetched buckets", "count", len(buckets))
	c.store.SetBuckets(buckets)
	return buckets, true
}

// SelectBucket loads the items of bucket. If another bucket is selected
// before this one's response arrives, this response is discarded.
func (c *Controller) SelectBucket(ctx context.Context, bucket archive.Bucket) {
	ticket, ok := c.BeginSelect(bucket)
	if !ok {
		return
	}
	c.LoadMedia(ctx, ticket)
}

// BeginSelect marks bucket as the latest selection and returns the ticket
// its fetch must present. It does no I/O, so callers that dispatch fetches
// asynchronously call it in the order the user made the selections.
func (c *Controller) BeginSelect(bucket archive.Bucket) (state.Ticket, bool) {
	ticket, err := c.store.BeginMedia(bucket, c.policy)
	if err != nil {
		c.logger.Warn("select bucket rejected", "bucket", bucket.String(), "error", err)
		return state.Ticket{}, false
	}
	return ticket, true
}

// LoadMedia fetches the items for ticket's bucket and commits them unless
// a later selection has superseded the ticket.
func (c *Controller) LoadMedia(ctx context.Context, ticket state.Ticket) {
	bucket := ticket.Bucket
	items, err := c.media.FetchMedia(ctx, bucket)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch media failed", "bucket", bucket.String(), "error", err)
		if !c.store.FailMedia(ticket, fetchMessage("Failed to fetch media", err)) {
			c.logger.DebugContext(ctx, "discarded stale media failure", "bucket", bucket.String(), "seq", ticket.Seq)
		}
		return
	}
	if !c.store.CommitMedia(ticket, items) {
		c.logger.DebugContext(ctx, "discarded stale media response", "bucket", bucket.String(), "seq", ticket.Seq)
		return
	}
	c.logger.InfoContext(ctx, "fetched media", "bucket", bucket.String(), "images", len(items))
}

// OpenItem shows the detail screen for item.
func (c *Controller) OpenItem(item archive.MediaItem) {
	if err := c.store.Open(item); err != nil {
		c.logger.Warn("open item rejected", "id", item.ID, "error", err)
	}
}

// Back leaves the detail screen.
func (c *Controller) Back() {
	if err := c.store.Back(); err != nil {
		c.logger.Warn("back rejected", "error", err)
	}
}

// ResourceURL returns the download URL for item, or false after recording
// an error message.
func (c *Controller) ResourceURL(item archive.MediaItem) (string, bool) {
	u, err := c.media.ResourceURL(item)
	if err != nil {
		c.logger.Warn("resource url", "id", item.ID, "error", err)
		c.store.SetError(msgInvalidURL)
		return "", false
	}
	return u.String(), true
}

func loginMessage(err error) string {
	if archive.IsStatus(err, http.StatusUnauthorized) || archive.IsStatus(err, http.StatusForbidden) {
		return msgBadCredentials
	}
	return fetchMessage("Login failed", err)
}

func fetchMessage(prefix string, err error) string {
	var (
		urlErr    *archive.URLError
		netErr    *archive.NetworkError
		decodeErr *archive.DecodeError
	)
	switch {
	case errors.Is(err, archive.ErrNotAuthenticated):
		return msgNotAuthenticated
	case errors.As(err, &urlErr):
		return msgInvalidURL
	case errors.As(err, &netErr) && netErr.StatusCode != 0:
		return fmt.Sprintf("%s: server returned status %d. Try again.", prefix, netErr.StatusCode)
	case errors.As(err, &netErr):
		return prefix + ": the archive could not be reached. Try again."
	case errors.As(err, &decodeErr):
		return prefix + ": unexpected response from the archive."
	default:
		return fmt.Sprintf("%s: %v", prefix, err)
	}
}
