// Package figmatextstyle exports the typography of Figma text elements as
// SASS/SCSS-like snippets rendered through a user-editable template.
//
// The CLI lives in cmd/figma-textstyle; this root package exposes the
// one-shot pipeline (fetch, select, extract, render) as a Go API so that
// callers can embed the exporter in their own tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmatextstyle:
//
//	import "github.com/kataras/figma-textstyle" // package figmatextstyle
//
// # Quick start
//
//	result, err := figmatextstyle.Run(ctx, figmatextstyle.Options{
//	    AccessToken: os.Getenv("FIGMA_TOKEN"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-Design?node-id=1-2",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Snippet)
//
// # Templates
//
// The snippet is produced by [template.Render]. Placeholders have the form
// $name or $name(unit):
//
//	$size        rem (default), px, unitless
//	$weight      name (default), num, number
//	$family      alias from the alias table, else the quoted family name
//	$spacing     em (default), %, px, unitless
//	$lineHeight  unitless ratio (default), %, px
//	$textAlign   left, center, right or justify
//
// With [settings.Settings.SkipZeroLetterSpacing] every template line
// holding a $spacing placeholder is dropped when the letter spacing is zero.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output. [logging.New] adapts zerolog.
//
// # Interactive sessions
//
// For a long-running exporter that follows file changes, persists
// settings and aliases, and copies to the clipboard, see package session.
package figmatextstyle
