package capture

import "strings"

const (
	markerPrefix = "\x1b]133;"
	markerTerm   = '\a'

	startPayload = "C;"
	endPayload   = "D;"
)

type eventKind int

const (
	eventText eventKind = iota
	eventStart
	eventEnd
)

// event is one positional slice of an output chunk: plain text, a command
// start marker payload, or a command end marker payload.
type event struct {
	kind    eventKind
	payload string
}

// scanMarkers splits a chunk into positional events. Marker spans must be
// fully contained in the chunk: a span whose terminating BEL has not arrived
// yet is treated as plain text, and the next chunk is scanned from scratch.
// OSC 133 subcommands other than C and D are stripped without producing an
// event. Scanning is byte-oriented and never fails.
func scanMarkers(chunk string) []event {
	var events []event
	rest := chunk
	for {
		i := strings.Index(rest, markerPrefix)
		if i < 0 {
			break
		}
		j := strings.IndexByte(rest[i:], markerTerm)
		if j < 0 {
			// Unterminated span: leave everything from the prefix onward
			// as text.
			break
		}
		if i > 0 {
			events = append(events, event{eventText, rest[:i]})
		}
		payload := rest[i+len(markerPrefix) : i+j]
		switch {
		case strings.HasPrefix(payload, startPayload):
			events = append(events, event{eventStart, payload[len(startPayload):]})
		case strings.HasPrefix(payload, endPayload):
			events = append(events, event{eventEnd, payload[len(endPayload):]})
		}
		rest = rest[i+j+1:]
	}
	if rest != "" {
		events = append(events, event{eventText, rest})
	}
	return events
}
