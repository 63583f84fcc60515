package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm shows a warning box and asks a yes/no question on in.
// Anything other than "y" or "yes" declines.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string, question string) bool {
	p.PrintResult(NewWarningResult(title, warnings))
	_, _ = fmt.Fprintf(p.out, "%s [y/N]: ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
