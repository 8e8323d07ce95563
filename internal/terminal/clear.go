// Package terminal provides small utilities for terminal output control.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Width reports the current terminal width, falling back to 80 columns when
// stdout is not a terminal.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// ClearPreviousLines erases previously printed text from the terminal. It
// computes how many rows textLength characters occupied at the current width,
// then moves up and clears each row with ANSI escapes. One extra row is
// cleared to account for the newline the user's Enter produced.
func ClearPreviousLines(textLength int) {
	width := Width()
	rows := (textLength + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	rows++

	for i := 0; i < rows; i++ {
		fmt.Print("\r\x1b[2K")
		if i < rows-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
