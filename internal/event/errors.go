package event

import "errors"

var (
	ErrDuplicateEvent = errors.New("duplicate event")

	ErrInvalidEventType = errors.New("invalid event type")

	ErrInvalidEventID = errors.New("invalid event id")

	ErrInvalidTimestamp = errors.New("invalid timestamp")

	ErrEventNotFound = errors.New("event not found")
)
