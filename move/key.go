package move

import (
	"fmt"
	"strings"
)

// Key is a single input.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyCw
	KeyCcw
	Key180
	KeyHold
	KeyHardDrop
)

var keyNames = [...]string{"left", "right", "cw", "ccw", "180", "hold", "harddrop"}

func (k Key) String() string {
	if int(k) >= len(keyNames) {
		return fmt.Sprintf("key(%d)", k)
	}
	return keyNames[k]
}

// ParseKey accepts the names printed by String, plus the usual short
// forms (l, r, z, x, a, c, space).
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return KeyLeft, nil
	case "right", "r":
		return KeyRight, nil
	case "cw", "x":
		return KeyCw, nil
	case "ccw", "z":
		return KeyCcw, nil
	case "180", "a":
		return Key180, nil
	case "hold", "c":
		return KeyHold, nil
	case "harddrop", "drop", "space":
		return KeyHardDrop, nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// rotationKey is the key that takes a piece from spawn to rotation state r.
func rotationKey(r uint8) (Key, bool) {
	switch r % 4 {
	case 1:
		return KeyCw, true
	case 2:
		return Key180, true
	case 3:
		return KeyCcw, true
	}
	return 0, false
}
