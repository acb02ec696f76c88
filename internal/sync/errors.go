package sync

import "errors"

// Failure taxonomy surfaced by the fetch engine and the reconciler.
// Callers are expected to test with errors.Is; every remote failure is
// wrapped around one of these sentinels.
var (
	// ErrRemoteUnavailable covers network, auth, and quota failures of
	// the catalog backend. Recoverable; retry is the caller's call.
	ErrRemoteUnavailable = errors.New("remote catalog unavailable")

	// ErrInvalidToken means a continuation token was used against a
	// query other than the one that produced it, or the token has
	// expired server-side. Programmer error; should not reach end users.
	ErrInvalidToken = errors.New("invalid continuation token")

	// ErrRecordNotFound means the mutation target no longer exists
	// remotely, typically deleted since it was last read.
	ErrRecordNotFound = errors.New("record not found")

	// ErrPublishFailed means a publish did not complete; any partial
	// local work (uploaded attachments, temp payloads) is discarded and
	// nothing is retried.
	ErrPublishFailed = errors.New("publish failed")

	// ErrFetchInFlight means a page fetch was requested while another
	// one for the same session was still outstanding. Callers must gate
	// on IsFetching instead.
	ErrFetchInFlight = errors.New("fetch already in flight")
)
