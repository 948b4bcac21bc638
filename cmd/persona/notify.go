package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/casualjim/persona"
)

// consoleNotifier prints notices the way an editor would flash them.
type consoleNotifier struct {
	out io.Writer
}

func (c consoleNotifier) Notify(n persona.Notice) {
	var label string
	switch n.Kind {
	case persona.NoticeSuccess:
		label = color.GreenString("✓")
	case persona.NoticeError:
		label = color.RedString("✗")
	default:
		label = color.CyanString("•")
	}
	fmt.Fprintf(c.out, "%s %s\n", label, n.Message)
}
