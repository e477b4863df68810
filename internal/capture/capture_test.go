package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleCommandLifecycle(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;ls -la\x07total 0\n\x1b]133;D;0\x07", "/home/user")

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, "ls -la", history[0].Command)
	assert.Equal(t, "total 0\n", history[0].Output)
	require.NotNil(t, history[0].ExitCode)
	assert.Equal(t, 0, *history[0].ExitCode)
	assert.Equal(t, "/home/user", history[0].WorkingDir)
	assert.Nil(t, e.Current())
}

func TestMarkersAcrossChunks(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;make test\x07", "/src")
	e.ProcessOutput("compiling...\n", "/src")
	e.ProcessOutput("ok\n\x1b]133;D;2\x07", "/src")

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, "make test", history[0].Command)
	assert.Equal(t, "compiling...\nok\n", history[0].Output)
	require.NotNil(t, history[0].ExitCode)
	assert.Equal(t, 2, *history[0].ExitCode)
}

func TestNewStartMarkerFinalizesOpenCommand(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;sleep 100\x07partial output", "/")
	require.Len(t, e.History(), 0)
	require.NotNil(t, e.Current())

	// No end marker arrived; a new start supersedes the open record.
	e.ProcessOutput("\x1b]133;C;echo next\x07", "/")

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, "sleep 100", history[0].Command)
	assert.Equal(t, "partial output", history[0].Output)
	assert.Nil(t, history[0].ExitCode)

	require.NotNil(t, e.Current())
	assert.Equal(t, "echo next", e.Current().Command)
}

func TestCloseAndOpenInOneChunkAttributesText(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;first\x07", "/")
	e.ProcessOutput("tail of first\n\x1b]133;D;0\x07prompt\x1b]133;C;second\x07head of second", "/")

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, "first", history[0].Command)
	assert.Equal(t, "tail of first\n", history[0].Output)

	require.NotNil(t, e.Current())
	assert.Equal(t, "second", e.Current().Command)
	assert.Equal(t, "head of second", e.Current().Output)
}

func TestMalformedExitCodeIgnored(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;true\x07\x1b]133;D;not-a-number\x07", "/")

	// Record stays open and unclosed.
	require.Len(t, e.History(), 0)
	require.NotNil(t, e.Current())
	assert.Nil(t, e.Current().ExitCode)
	// The malformed marker span is still stripped from the output.
	assert.Equal(t, "", e.Current().Output)
}

func TestOnlyFirstMarkerOfEachKindProcessed(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;one\x07\x1b]133;C;two\x07out", "/")

	require.Len(t, e.History(), 0)
	require.NotNil(t, e.Current())
	assert.Equal(t, "one", e.Current().Command)
	// The second start span is stripped but does not open a record.
	assert.Equal(t, "out", e.Current().Output)
}

func TestUnterminatedMarkerPassesThrough(t *testing.T) {
	e := NewEngine(nil)

	e.ProcessOutput("\x1b]133;C;real\x07", "/")
	e.ProcessOutput("before \x1b]133;D;0", "/")

	// The BEL never arrived in this chunk: no removal, no close.
	require.NotNil(t, e.Current())
	assert.Nil(t, e.Current().ExitCode)
	assert.Equal(t, "before \x1b]133;D;0", e.Current().Output)
}

func TestCleanedOutputNeverContainsMarkerFraming(t *testing.T) {
	inputs := []string{
		"\x1b]133;C;ls\x07a\x1b]133;D;0\x07b",
		"x\x1b]133;A;extra\x07y",
		"\x1b]133;C;a\x07\x1b]133;C;b\x07\x1b]133;D;1\x07\x1b]133;D;2\x07",
	}
	for _, input := range inputs {
		e := NewEngine(nil)
		e.ProcessOutput("\x1b]133;C;probe\x07", "/")
		e.ProcessOutput(input, "/")
		e.Flush()
		for _, cmd := range e.History() {
			assert.NotContains(t, cmd.Output, markerPrefix, "input %q", input)
			assert.NotContains(t, cmd.Output, string(markerTerm), "input %q", input)
		}
	}
}

func TestHeuristicBufferStaysBounded(t *testing.T) {
	e := NewEngine(nil)
	chunk := strings.Repeat("x", 1000)
	for i := 0; i < 100; i++ {
		e.ProcessOutput(chunk, "/")
		assert.LessOrEqual(t, len(e.prompt.buf), promptWindow)
	}
}

func TestFlushFinalizesOpenCommand(t *testing.T) {
	e := NewEngine(nil)
	e.ProcessOutput("\x1b]133;C;vim\x07editing", "/")

	e.Flush()

	require.Len(t, e.History(), 1)
	assert.Equal(t, "vim", e.History()[0].Command)
	assert.Nil(t, e.Current())

	// Idempotent.
	e.Flush()
	assert.Len(t, e.History(), 1)
}

func TestOnFinalizeHook(t *testing.T) {
	var seen []string
	e := NewEngine(nil, WithOnFinalize(func(c Command) {
		seen = append(seen, c.Command)
	}))

	e.ProcessOutput("\x1b]133;C;first\x07\x1b]133;D;0\x07", "/")
	e.ProcessOutput("\x1b]133;C;second\x07", "/")
	e.ProcessOutput("\x1b]133;C;third\x07", "/")

	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestProcessOutputTotalOverArbitraryInput(t *testing.T) {
	inputs := []string{
		"",
		"\x1b",
		"\x1b]133;",
		"\x1b]133;C;",
		"\x07\x07\x07",
		"\xff\xfe garbage \x80",
		"\x1b]133;D;\x07",
		strings.Repeat("\x1b]133;C;x\x07", 500),
	}
	e := NewEngine(nil)
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			e.ProcessOutput(input, "/")
		})
	}
}
