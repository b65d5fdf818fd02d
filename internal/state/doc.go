// Package state holds the state published to the presentation layer.
//
// # Overview
//
// The Store is the single place where controller results meet UI
// rendering. The UI reads Snapshot values and never touches the session
// token or the archive clients directly. A Snapshot carries:
//
//   - Authenticated: whether a login has succeeded
//   - Screen: login, browse or detail (from package nav)
//   - Buckets: the month/year list in server order
//   - ActiveBucket, Items: the bucket on screen and its image items
//   - Detail: the item on the detail screen
//   - Pending, Loading: the bucket whose items are being fetched
//   - ErrorMessage: the single user-facing error line
//
// # Stale Responses
//
// Selecting a bucket calls BeginMedia, which bumps a sequence number and
// returns a Ticket tagged with that number and the bucket. The fetch
// presents the ticket to CommitMedia or FailMedia. Only the newest ticket
// is accepted; older ones are dropped whatever order responses arrive in:
//
//	tA, _ := store.BeginMedia(A, policy) // seq 1
//	tB, _ := store.BeginMedia(B, policy) // seq 2
//	store.CommitMedia(tB, itemsB)        // applied
//	store.CommitMedia(tA, itemsA)        // stale, returns false
//
// Opening an item also retires the pending ticket, so Back returns to
// exactly the list that was on screen.
//
// # List Policy
//
// PolicyClear empties the list as soon as a bucket is requested, so the UI
// can show a loading indicator. PolicyKeep leaves the previous list up
// until the new one commits. A failed fetch never clears the list.
//
// # Concurrency Model
//
// A sync.RWMutex guards everything. Writers are the controller's handlers,
// which may run concurrently as Bubble Tea commands; readers are the UI.
// The lock is held only while copying, never during network I/O.
//
// Snapshot returns deep copies of the bucket and item slices.
//
// # Testing Considerations
//
// The zero Store is ready to use and starts on the login screen.
package state
