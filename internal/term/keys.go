package term

// Code identifies a key independent of its byte encoding.
type Code int

const (
	CodeNone Code = iota
	CodeChar
	CodeEnter
	CodeBackspace
	CodeTab
	CodeEsc
	CodeUp
	CodeDown
	CodeRight
	CodeLeft
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeDelete
	CodeInsert
	CodeFunc
)

// KeyEvent is one decoded keypress.
type KeyEvent struct {
	Code Code
	// Rune is set for CodeChar.
	Rune rune
	// FKey is 1-12 for CodeFunc.
	FKey int
	// Ctrl is set when the control modifier was held.
	Ctrl bool
}

// csi prefixes an ANSI control sequence.
func csi(s string) []byte {
	return append([]byte{0x1b, '['}, s...)
}

// Encode translates a key event into the bytes the child shell expects.
// Unrecognized events produce nil.
func Encode(ev KeyEvent) []byte {
	switch ev.Code {
	case CodeChar:
		if ev.Ctrl {
			switch {
			case ev.Rune >= 'a' && ev.Rune <= 'z':
				return []byte{byte(ev.Rune-'a') + 1}
			case ev.Rune == '@':
				return []byte{0}
			case ev.Rune == '[':
				return []byte{27}
			case ev.Rune == '\\':
				return []byte{28}
			case ev.Rune == ']':
				return []byte{29}
			case ev.Rune == '^':
				return []byte{30}
			case ev.Rune == '_':
				return []byte{31}
			}
		}
		return []byte(string(ev.Rune))
	case CodeEnter:
		return []byte{'\r'}
	case CodeBackspace:
		return []byte{0x7f}
	case CodeTab:
		return []byte{'\t'}
	case CodeEsc:
		return []byte{0x1b}
	case CodeUp:
		return csi("A")
	case CodeDown:
		return csi("B")
	case CodeRight:
		return csi("C")
	case CodeLeft:
		return csi("D")
	case CodeHome:
		return csi("H")
	case CodeEnd:
		return csi("F")
	case CodePageUp:
		return csi("5~")
	case CodePageDown:
		return csi("6~")
	case CodeDelete:
		return csi("3~")
	case CodeInsert:
		return csi("2~")
	case CodeFunc:
		return encodeFunc(ev.FKey)
	}
	return nil
}

// fnSequences maps F5-F12 to their CSI parameters; the numbering has the
// historical gaps at 16 and 22.
var fnSequences = map[int]string{
	5:  "15~",
	6:  "17~",
	7:  "18~",
	8:  "19~",
	9:  "20~",
	10: "21~",
	11: "23~",
	12: "24~",
}

func encodeFunc(n int) []byte {
	switch {
	case n >= 1 && n <= 4:
		// F1-F4 use SS3 encoding.
		return []byte{0x1b, 'O', byte('P' + n - 1)}
	case n >= 5 && n <= 12:
		return csi(fnSequences[n])
	}
	return nil
}
