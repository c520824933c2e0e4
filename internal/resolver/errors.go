package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NotFoundError reports a resolved model path that does not exist or cannot be
// read. It carries everything an operator needs to fix the deployment.
type NotFoundError struct {
	Requested string
	Computed  string
	ModelDir  string
	Suffix    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model not found: requested %s, looked for %s", e.Requested, e.Computed)
}

// Remedy is the shell command that places a converted model where the shim looks.
func (e *NotFoundError) Remedy() string {
	return fmt.Sprintf("cp your_model%s %s", e.Suffix, e.Computed)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Diagnostic renders the multi-line report written to the diagnostic stream.
func (e *NotFoundError) Diagnostic() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("neuron-shim: MODEL FILE NOT FOUND"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Application requested:\n  %s\n\n", e.Requested)
	fmt.Fprintf(&b, "Shim looked for:\n  %s\n\n", e.Computed)
	if e.ModelDir != "" {
		fmt.Fprintf(&b, "model_dir is set to:\n  %s\n\n", e.ModelDir)
		fmt.Fprintf(&b, "To fix, place your converted model there:\n  %s", e.Remedy())
	} else {
		fmt.Fprintf(&b, "To fix, place the converted model next to the original:\n  %s\n\n", e.Remedy())
		b.WriteString("Or set model_dir in neuron-shim.conf to redirect:\n  model_dir = /opt/models")
	}
	return boxStyle.Render(b.String())
}
