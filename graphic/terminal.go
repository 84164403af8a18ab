package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal works around terminal configurations the rendering
// library chokes on and returns a function that undoes the changes.
//
// Tmux pairs TERM=tmux-* with a TERMINFO entry Termbox cannot parse;
// clearing TERMINFO makes it fall back to a compatible one.
func normalizeTerminal() (func(), error) {
	if !strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		return func() {}, nil
	}

	prev, had := os.LookupEnv("TERMINFO")

	if err := os.Unsetenv("TERMINFO"); err != nil {
		return nil, err
	}

	restore := func() {
		if !had {
			return
		}

		os.Setenv("TERMINFO", prev)
	}

	return restore, nil
}
