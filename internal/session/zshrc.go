package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// hookConfig is the .zshrc the wrapped shell loads via ZDOTDIR. It sources
// the user's real configuration first, then chains the OSC 133 command
// hooks after any hooks the user already registered.
const hookConfig = `# Source the user's real .zshrc first so these hooks are defined last.
if [ -f "$HOME/.zshrc" ]; then
    source "$HOME/.zshrc"
fi

nacre_preexec() {
    # OSC 133;C marks command start
    printf '\033]133;C;%s\007' "$1"
}

nacre_precmd() {
    # OSC 133;D marks command end with exit code
    printf '\033]133;D;%s\007' "$?"
}

if (( $+functions[add-zsh-hook] )); then
    add-zsh-hook preexec nacre_preexec
    add-zsh-hook precmd nacre_precmd
else
    # Fallback: wrap any hooks the user defined directly.
    if (( $+functions[preexec] )); then
        functions[_nacre_user_preexec]=$functions[preexec]
    fi
    if (( $+functions[precmd] )); then
        functions[_nacre_user_precmd]=$functions[precmd]
    fi

    preexec() {
        if (( $+functions[_nacre_user_preexec] )); then
            _nacre_user_preexec "$@"
        fi
        nacre_preexec "$@"
    }

    precmd() {
        if (( $+functions[_nacre_user_precmd] )); then
            _nacre_user_precmd "$@"
        fi
        nacre_precmd "$@"
    }
fi
`

// writeHookConfig materializes a temporary ZDOTDIR containing the
// integration .zshrc. The returned cleanup removes the directory.
func writeHookConfig() (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "nacre-*")
	if err != nil {
		return "", nil, fmt.Errorf("create hook dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	if err := os.WriteFile(filepath.Join(dir, ".zshrc"), []byte(hookConfig), 0o644); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write hook config: %w", err)
	}
	return dir, cleanup, nil
}
