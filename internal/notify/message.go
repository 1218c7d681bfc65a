package notify

import (
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Template placeholders.
const (
	FieldPackageName    = "packageName"
	FieldCurrentVersion = "currentVersion"
	FieldLatestVersion  = "latestVersion"
	FieldUpdateCommand  = "updateCommand"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_.]+)\}`)

// Fill replaces {name} placeholders with values. Unknown placeholders are
// left untouched.
func Fill(template string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// BoxOptions control the frame drawn around a notice.
type BoxOptions struct {
	Padding     int
	Margin      int
	BorderColor lipgloss.TerminalColor
	Align       lipgloss.Position
}

// DefaultBoxOptions mirror the look users know from npm tooling: a rounded
// yellow frame with the text centred.
func DefaultBoxOptions() BoxOptions {
	return BoxOptions{
		Padding:     1,
		Margin:      1,
		BorderColor: lipgloss.Color("3"),
		Align:       lipgloss.Center,
	}
}

// Renderer styles notices for a particular output, so colours are only
// emitted when that output supports them.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer returns a Renderer that inspects w for colour support.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{r: lipgloss.NewRenderer(w)}
}

// DefaultTemplate is the built-in update notice.
func (r *Renderer) DefaultTemplate() string {
	dim := r.r.NewStyle().Faint(true)
	green := r.r.NewStyle().Foreground(lipgloss.Color("2"))
	cyan := r.r.NewStyle().Foreground(lipgloss.Color("6"))

	return "Update available " +
		dim.Render("{"+FieldCurrentVersion+"}") +
		" → " +
		green.Render("{"+FieldLatestVersion+"}") +
		" \nRun " + cyan.Render("{"+FieldUpdateCommand+"}") + " to update"
}

// Box frames text.
func (r *Renderer) Box(text string, opts BoxOptions) string {
	style := r.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(opts.Padding, opts.Padding*3).
		Margin(opts.Margin).
		Align(opts.Align)
	if opts.BorderColor != nil {
		style = style.BorderForeground(opts.BorderColor)
	}
	return style.Render(text)
}

// UpdateMessage renders the boxed update notice. An empty template selects
// DefaultTemplate.
func (r *Renderer) UpdateMessage(template string, values map[string]string, opts BoxOptions) string {
	if template == "" {
		template = r.DefaultTemplate()
	}
	return r.Box(Fill(template, values), opts)
}

// PermissionMessage explains that the state store under configDir could not
// be written and how to fix ownership.
func (r *Renderer) PermissionMessage(packageName, configDir string) string {
	yellow := r.r.NewStyle().Foreground(lipgloss.Color("3"))
	cyan := r.r.NewStyle().Foreground(lipgloss.Color("6"))

	text := yellow.Render(fmt.Sprintf(" %s update check failed ", packageName)) +
		fmt.Sprintf("\n Try running with %s or get access ", cyan.Render("sudo")) +
		"\n to the local update config store via \n" +
		cyan.Render(fmt.Sprintf(" sudo chown -R $USER:$(id -gn $USER) %s ", configDir))

	return r.Box(text, BoxOptions{Align: lipgloss.Center})
}
