// internal/models/errors.go
package models

import (
	"errors"
	"fmt"
)

// RoomNotFoundError indicates the requested room does not exist.
type RoomNotFoundError struct {
	RoomID string
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %s does not exist", e.RoomID)
}

// RoomIDGenerationError indicates the unique-id retry loop was exhausted.
type RoomIDGenerationError struct {
	Attempts int
}

func (e *RoomIDGenerationError) Error() string {
	return fmt.Sprintf("failed to generate unique room ID after %d attempts", e.Attempts)
}

// NetworkError wraps any store operation failure.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// InvalidRoomIDError indicates the room id is not exactly 6 digits.
type InvalidRoomIDError struct {
	RoomID string
}

func (e *InvalidRoomIDError) Error() string {
	return fmt.Sprintf("invalid room ID %q: must be 6 digits", e.RoomID)
}

// ErrInvalidInput is returned for blank nicknames and words.
var ErrInvalidInput = errors.New("invalid input")

// ErrPermissionDenied is surfaced unchanged from the camera/QR collaborator.
var ErrPermissionDenied = errors.New("camera permission required for QR scanning")

// IsRoomNotFound reports whether err is (or wraps) a RoomNotFoundError.
func IsRoomNotFound(err error) bool {
	var target *RoomNotFoundError
	return errors.As(err, &target)
}

// IsInvalidRoomID reports whether err is (or wraps) an InvalidRoomIDError.
func IsInvalidRoomID(err error) bool {
	var target *InvalidRoomIDError
	return errors.As(err, &target)
}

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
