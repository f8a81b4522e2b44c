package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/template"
)

// Entry is one exported text element.
type Entry struct {
	Node      string // text node name
	StyleName string // published text style, may be empty
	Style     extractor.StyleRecord
	Snippet   string // rendered template
}

// Title returns the heading used for the entry: the published style name
// when there is one, the node name otherwise.
func (e Entry) Title() string {
	if e.StyleName != "" {
		return e.StyleName
	}
	return e.Node
}

// ToMarkdown transforms exported text styles into a markdown document.
// Each entry gets its rendered snippet followed by CSS variable definitions
// of the normalized style, ready to be pasted into a design system.
func ToMarkdown(fileName string, entries []Entry, aliases map[string]string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Text Styles - %s\n\n", fileName))
	if len(entries) == 0 {
		sb.WriteString("No text elements were found in the selection.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("This document contains %d text style(s) exported from the Figma file.\n\n", len(entries)))

	for _, e := range entries {
		title := e.Title()
		sb.WriteString(fmt.Sprintf("## %s\n\n", title))
		if e.StyleName != "" && e.Node != "" && e.Node != e.StyleName {
			sb.WriteString(fmt.Sprintf("Text element: `%s`\n\n", e.Node))
		}

		sb.WriteString("```scss\n")
		sb.WriteString(e.Snippet)
		if !strings.HasSuffix(e.Snippet, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")

		name := toKebabCase(title)
		if name == "" {
			name = "style"
		}
		family := template.FamilyReference(e.Style.FontFamily, aliases)

		sb.WriteString("```css\n")
		sb.WriteString(fmt.Sprintf("--text-%s-font-family: %s;\n", name, family))
		sb.WriteString(fmt.Sprintf("--text-%s-font-size: %s;\n", name, e.Style.FontSize))
		sb.WriteString(fmt.Sprintf("--text-%s-font-weight: %s;\n", name, e.Style.FontWeight))
		sb.WriteString(fmt.Sprintf("--text-%s-letter-spacing: %s;\n", name, e.Style.LetterSpacing))
		sb.WriteString(fmt.Sprintf("--text-%s-line-height: %s;\n", name, e.Style.LineHeight))
		sb.WriteString(fmt.Sprintf("--text-%s-text-align: %s;\n", name, e.Style.TextAlign))
		sb.WriteString("```\n\n")
	}

	if len(aliases) > 0 {
		families := make([]string, 0, len(aliases))
		for f := range aliases {
			families = append(families, f)
		}
		sort.Strings(families)

		sb.WriteString("## Font Aliases\n\n")
		sb.WriteString("| Font family | Alias |\n")
		sb.WriteString("|---|---|\n")
		for _, f := range families {
			sb.WriteString(fmt.Sprintf("| %s | `%s` |\n", f, aliases[f]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func toKebabCase(s string) string {
	// Remove special characters and replace spaces and separators with hyphens
	s = strings.ToLower(s)
	s = strings.NewReplacer(" ", "-", "_", "-", "/", "-").Replace(s)

	// Remove any non-alphanumeric characters except hyphens
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	// Collapse runs of hyphens left by removed characters
	out := result.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}
