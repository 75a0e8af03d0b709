// internal/room/code.go
package room

import (
	"regexp"
	"strings"
)

var (
	roomIDPattern = regexp.MustCompile(`^\d{6}$`)
	digitRun      = regexp.MustCompile(`\d{6}`)
)

// ValidRoomID reports whether id is exactly 6 ASCII digits, the only
// accepted room-code format.
func ValidRoomID(id string) bool {
	return roomIDPattern.MatchString(id)
}

// ExtractRoomID pulls a room code out of a scanned QR payload, which is
// either the bare 6 digits or a URL containing them. The first 6-digit run
// found wins.
func ExtractRoomID(payload string) (string, bool) {
	match := digitRun.FindString(payload)
	if match == "" {
		return "", false
	}
	return match, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func upper(s string) string {
	return strings.ToUpper(s)
}
