package term

import (
	"os"

	"golang.org/x/term"
)

// State is the saved terminal mode, restored after the session ends.
type State = term.State

// MakeRaw puts the terminal into raw mode: input arrives byte-by-byte with
// no line editing or OS signal generation.
func MakeRaw(f *os.File) (*State, error) {
	return term.MakeRaw(int(f.Fd()))
}

// Restore returns the terminal to its saved mode.
func Restore(f *os.File, state *State) error {
	return term.Restore(int(f.Fd()), state)
}

// Size reads the terminal dimensions, falling back to 80x24 when the file
// is not a terminal.
func Size(f *os.File) (cols, rows int) {
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}
