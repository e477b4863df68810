package capture

import "strings"

// promptWindow bounds the heuristic buffer; the last few KB of output are
// enough to recognize a prompt.
const promptWindow = 4096

// maxPromptLine caps how long a line may be and still count as a styled
// prompt.
const maxPromptLine = 200

// promptEndings are short terminators common to plain shell prompts.
var promptEndings = []string{"% ", "$ ", "λ ", "❯ ", "> ", "→ ", "» ", "✗ "}

// promptBuffer is a rolling text window used only for prompt detection.
type promptBuffer struct {
	buf string
}

func (p *promptBuffer) append(chunk string) {
	p.buf += chunk
	if len(p.buf) > promptWindow {
		p.buf = p.buf[len(p.buf)-promptWindow:]
	}
}

func (p *promptBuffer) reset() {
	p.buf = ""
}

// likely reports whether the trailing non-blank line of the buffer looks
// like a shell prompt. This is fuzzy pattern matching over styled text and
// exists only as a fallback behind marker-based detection.
func (p *promptBuffer) likely() bool {
	line := lastNonBlankLine(p.buf)
	if line == "" {
		return false
	}

	for _, ending := range promptEndings {
		if strings.HasSuffix(line, ending) {
			return true
		}
	}

	// Styled prompts (oh-my-zsh and friends) carry an arrow glyph and stay
	// short.
	if strings.Contains(line, "➜") && len(line) < maxPromptLine {
		return true
	}

	// A reset sequence on a short trailing line usually means the shell just
	// redrew its prompt.
	if strings.Contains(line, "\x1b[0m") && len(line) < maxPromptLine {
		return true
	}

	return false
}

func lastNonBlankLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
