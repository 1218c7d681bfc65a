package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Out receives everything the helpers print.
var Out io.Writer = os.Stdout

func ShowHeader(title string) {
	fmt.Fprintf(Out, " %s\n", strings.Repeat("─", len(title)+2))
	fmt.Fprintf(Out, " %s\n", title)
	fmt.Fprintf(Out, " %s\n", strings.Repeat("─", len(title)+2))
}

// ShowField prints an aligned "label: value" line.
func ShowField(label string, value any) {
	fmt.Fprintf(Out, "  %-14s %v\n", label+":", value)
}

func ShowSuccess(format string, args ...any) {
	fmt.Fprintf(Out, " ✓ %s\n", fmt.Sprintf(format, args...))
}

func ShowWarning(format string, args ...any) {
	fmt.Fprintf(Out, " ! %s\n", fmt.Sprintf(format, args...))
}

func ShowInfo(format string, args ...any) {
	fmt.Fprintf(Out, " ℹ %s\n", fmt.Sprintf(format, args...))
}
