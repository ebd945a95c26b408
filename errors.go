package muscle

import "errors"

var (
	// ErrInvalidAttachment is returned when fewer than four attachments are
	// given, an up selector is out of range or a surface cannot be queried.
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrDegenerateGeometry is returned when a direction needed to build the
	// muscle has zero length, such as coincident attachment points.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrZeroRestLength is returned in volume mode when the backbone length
	// or the stored rest length cannot be used as a divisor.
	ErrZeroRestLength = errors.New("zero rest length")
)
