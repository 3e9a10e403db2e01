package keypad

import (
	"strconv"
	"strings"
)

// KeyCode identifies a key on the 19-code radio keypad.
// KeyInvalid doubles as the "no key" sentinel and the exclusive upper
// bound of valid codes.
type KeyCode uint8

const (
	Key0 KeyCode = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyMenu
	KeyUp
	KeyDown
	KeyExit
	KeyStar
	KeyF
	KeyPTT // transmit trigger; never injectable remotely
	KeySide2
	KeySide1
	KeyInvalid
)

// Action is the direction of a key event.
type Action uint8

const (
	ActionPress   Action = 0
	ActionRelease Action = 1
)

// Status is the outcome of an Enqueue call.
type Status uint8

const (
	StatusAccepted Status = 0
	StatusBusy     Status = 1
	StatusInvalid  Status = 2
	// StatusStale is reserved in the ack enumeration and never produced.
	StatusStale Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusBusy:
		return "busy"
	case StatusInvalid:
		return "invalid"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	default:
		return "unknown"
	}
}

// KeyName maps key codes to human-readable key names.
var KeyName = map[KeyCode]string{
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",

	KeyMenu:  "MENU",
	KeyUp:    "UP",
	KeyDown:  "DOWN",
	KeyExit:  "EXIT",
	KeyStar:  "STAR",
	KeyF:     "F",
	KeyPTT:   "PTT",
	KeySide2: "SIDE2",
	KeySide1: "SIDE1",
}

func (k KeyCode) String() string {
	if name, ok := KeyName[k]; ok {
		return name
	}
	if k == KeyInvalid {
		return "INVALID"
	}
	return "KEY(" + strconv.Itoa(int(k)) + ")"
}

// ParseKey resolves a key name ("MENU", case-insensitive) or a decimal
// code ("10") to a KeyCode. Codes at or above KeyInvalid are rejected.
func ParseKey(s string) (KeyCode, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for code, name := range KeyName {
		if name == upper {
			return code, true
		}
	}
	n, err := strconv.ParseUint(upper, 10, 8)
	if err != nil || KeyCode(n) >= KeyInvalid {
		return KeyInvalid, false
	}
	return KeyCode(n), true
}
