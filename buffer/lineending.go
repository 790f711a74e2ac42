package buffer

import "strings"

// LineEnding is the delimiter style used when a delimiter must be synthesized,
// e.g. when a line block is moved past the end of the buffer.
type LineEnding int

const (
	LF LineEnding = iota
	CRLF
	CR
)

// Symbol returns the delimiter characters for this style.
func (le LineEnding) Symbol() string {
	switch le {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

func (le LineEnding) String() string {
	switch le {
	case CRLF:
		return "CRLF"
	case CR:
		return "CR"
	default:
		return "LF"
	}
}

// DetectLineEnding picks the style from file content: CRLF wins over bare CR,
// which wins over LF. Content with no delimiters defaults to LF.
func DetectLineEnding(content string) LineEnding {
	if strings.Contains(content, "\r\n") {
		return CRLF
	}
	if strings.Contains(content, "\r") {
		return CR
	}
	return LF
}

// ParseLineEnding maps a config value to a style. Unrecognized values
// (including "auto") report ok=false so the caller falls back to detection.
func ParseLineEnding(name string) (LineEnding, bool) {
	switch strings.ToLower(name) {
	case "lf":
		return LF, true
	case "crlf":
		return CRLF, true
	case "cr":
		return CR, true
	default:
		return LF, false
	}
}
