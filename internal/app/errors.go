package app

import "errors"

// ErrClaimContention means another worker claimed the queue head between
// our read and our claim, twice in a row. The caller should treat the
// run as a no-op and try again next interval.
var ErrClaimContention = errors.New("queue head claimed by another worker")
