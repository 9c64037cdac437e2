package engine

import "errors"

var (
	// ErrNoSession is returned by item operations before a batch has been
	// started or a prior session loaded.
	ErrNoSession = errors.New("no active session")

	// ErrNoSource is returned when an operation needs the source photo and
	// it is not available.
	ErrNoSource = errors.New("source image unavailable")

	// ErrUnknownEra is returned for era keys outside the active session.
	ErrUnknownEra = errors.New("era not part of this session")

	// ErrItemBusy is returned when another operation is already in flight
	// for the same era.
	ErrItemBusy = errors.New("operation already in flight for this era")

	// ErrItemNotReady is returned when an operation's status precondition
	// does not hold, e.g. editing an item that has no finished image.
	ErrItemNotReady = errors.New("item not in a state that allows this operation")

	// ErrAuthorizationRequired is returned when video generation is
	// requested before the API key authorization has been confirmed.
	ErrAuthorizationRequired = errors.New("video generation requires confirmed API key authorization")
)
