package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	snippetBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "212"}).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}).
			Width(16)
)

// presenter prints session events to the terminal, or as JSON lines.
// Present, printf and showSnippet may be called from different goroutines;
// each writes its whole output under mu.
type presenter struct {
	out  io.Writer
	json bool

	mu sync.Mutex
}

func newPresenter(out io.Writer) *presenter {
	return &presenter{out: out, json: jsonOutput}
}

func (p *presenter) Present(e session.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		p.printJSON(e)
		return
	}

	switch e.Type {
	case session.NoSelection, session.NoText:
		color.New(color.FgYellow).Fprintf(p.out, "⚠ %s\n", e.Message)
	case session.StyleExtracted:
		color.New(color.FgCyan).Fprintf(p.out, "\n📝 %s\n", e.Node)
		p.printStyle(*e.Styles)
	case session.SnippetRendered:
		p.printSnippet(e.Code)
	case session.AliasesLoaded:
		p.printAliases(e.Aliases, e.Scope)
	case session.SettingsLoaded:
		p.printSettings(*e.Settings, e.Scope)
	case session.ScopeChanged:
		color.New(color.FgGreen).Fprintf(p.out, "Storage scope: %s\n", e.Scope.Label())
	case session.Notify:
		fmt.Fprintf(p.out, "• %s\n", e.Message)
	}
}

// printf writes a message outside of any event. A nil c prints uncolored.
func (p *presenter) printf(c *color.Color, format string, a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c == nil {
		fmt.Fprintf(p.out, format, a...)
		return
	}
	c.Fprintf(p.out, format, a...)
}

func (p *presenter) printJSON(v any) {
	if err := json.NewEncoder(p.out).Encode(v); err != nil {
		color.New(color.FgRed).Fprintf(p.out, "✗ encode output: %v\n", err)
	}
}

func (p *presenter) printStyle(s extractor.StyleRecord) {
	rows := [][2]string{
		{"font-size", s.FontSize},
		{"font-weight", s.FontWeight},
		{"font-family", s.FontFamily},
		{"letter-spacing", s.LetterSpacing},
		{"line-height", s.LineHeight},
		{"text-align", s.TextAlign},
	}
	for _, r := range rows {
		fmt.Fprintf(p.out, "  %s%s\n", labelStyle.Render(r[0]), r[1])
	}
}

func (p *presenter) printSnippet(code string) {
	fmt.Fprintln(p.out, snippetBox.Render(strings.TrimRight(code, "\n")))
}

// showSnippet is the manual clipboard fallback.
func (p *presenter) showSnippet(code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	color.New(color.FgYellow).Fprintln(p.out, "Select the snippet below and copy it (Ctrl+C / Cmd+C):")
	p.printSnippet(code)
	return nil
}

func (p *presenter) printAliases(aliases settings.AliasTable, scope settings.Scope) {
	if p.json {
		p.printJSON(session.Event{Type: session.AliasesLoaded, Aliases: aliases, Scope: scope})
		return
	}
	color.New(color.FgCyan).Fprintf(p.out, "Font aliases (%s):\n", scope.Label())
	if len(aliases) == 0 {
		fmt.Fprintln(p.out, "  (none)")
		return
	}
	for _, family := range aliases.Families() {
		fmt.Fprintf(p.out, "  %s→ %s\n", labelStyle.Width(24).Render(family), aliases[family])
	}
}

func (p *presenter) printSettings(s settings.Settings, scope settings.Scope) {
	if p.json {
		p.printJSON(session.Event{Type: session.SettingsLoaded, Settings: &s, Scope: scope})
		return
	}
	color.New(color.FgCyan).Fprintf(p.out, "Settings (%s):\n", scope.Label())
	fmt.Fprintf(p.out, "  %s%d\n", labelStyle.Width(28).Render("base pixel size"), s.BasePixelSize)
	fmt.Fprintf(p.out, "  %s%t\n", labelStyle.Width(28).Render("skip zero letter-spacing"), s.SkipZeroLetterSpacing)
	fmt.Fprintf(p.out, "  %s\n", labelStyle.Render("template"))
	p.printSnippet(s.Template)
}
