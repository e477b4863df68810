package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		ev   KeyEvent
		want []byte
	}{
		{"plain letter", KeyEvent{Code: CodeChar, Rune: 'a'}, []byte{0x61}},
		{"ctrl letter", KeyEvent{Code: CodeChar, Rune: 'a', Ctrl: true}, []byte{0x01}},
		{"ctrl z", KeyEvent{Code: CodeChar, Rune: 'z', Ctrl: true}, []byte{26}},
		{"ctrl at", KeyEvent{Code: CodeChar, Rune: '@', Ctrl: true}, []byte{0}},
		{"ctrl backslash", KeyEvent{Code: CodeChar, Rune: '\\', Ctrl: true}, []byte{28}},
		{"utf8 rune", KeyEvent{Code: CodeChar, Rune: 'é'}, []byte("é")},
		{"enter is CR", KeyEvent{Code: CodeEnter}, []byte{'\r'}},
		{"backspace is DEL", KeyEvent{Code: CodeBackspace}, []byte{0x7f}},
		{"tab", KeyEvent{Code: CodeTab}, []byte{'\t'}},
		{"escape", KeyEvent{Code: CodeEsc}, []byte{0x1b}},
		{"up arrow", KeyEvent{Code: CodeUp}, []byte("\x1b[A")},
		{"down arrow", KeyEvent{Code: CodeDown}, []byte("\x1b[B")},
		{"right arrow", KeyEvent{Code: CodeRight}, []byte("\x1b[C")},
		{"left arrow", KeyEvent{Code: CodeLeft}, []byte("\x1b[D")},
		{"home", KeyEvent{Code: CodeHome}, []byte("\x1b[H")},
		{"end", KeyEvent{Code: CodeEnd}, []byte("\x1b[F")},
		{"page up", KeyEvent{Code: CodePageUp}, []byte("\x1b[5~")},
		{"page down", KeyEvent{Code: CodePageDown}, []byte("\x1b[6~")},
		{"delete", KeyEvent{Code: CodeDelete}, []byte("\x1b[3~")},
		{"insert", KeyEvent{Code: CodeInsert}, []byte("\x1b[2~")},
		{"f1", KeyEvent{Code: CodeFunc, FKey: 1}, []byte("\x1bOP")},
		{"f4", KeyEvent{Code: CodeFunc, FKey: 4}, []byte("\x1bOS")},
		{"f5", KeyEvent{Code: CodeFunc, FKey: 5}, []byte("\x1b[15~")},
		{"f12", KeyEvent{Code: CodeFunc, FKey: 12}, []byte("\x1b[24~")},
		{"f13 does not exist", KeyEvent{Code: CodeFunc, FKey: 13}, nil},
		{"none", KeyEvent{Code: CodeNone}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.ev))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	events := []KeyEvent{
		{Code: CodeChar, Rune: 'x'},
		{Code: CodeChar, Rune: 'c', Ctrl: true},
		{Code: CodeEnter},
		{Code: CodeBackspace},
		{Code: CodeUp},
		{Code: CodePageDown},
		{Code: CodeFunc, FKey: 2},
		{Code: CodeFunc, FKey: 7},
	}
	for _, ev := range events {
		decoded := decode(Encode(ev))
		assert.Equal(t, []KeyEvent{ev}, decoded, "event %+v", ev)
	}
}
