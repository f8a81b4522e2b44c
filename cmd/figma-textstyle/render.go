package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/template"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		figmaURL  string
		fileKey   string
		styleFile string
		style     extractor.StyleRecord
		overrides settingsFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a snippet from a style record without contacting Figma",
		Long: `Render the snippet template for a style record given as JSON (the output of
"export --json" or "watch --json") or built from flags. Flags override the
fields of the record. Settings and aliases come from the persisted stores.`,
		Example: `  figma-textstyle render --size 1.5rem --weight bold --family Inter --line-height 1.5
  figma-textstyle render --style heading.json --template '$size(px) / $lineHeight(px)'
  echo '{"fontSize":"1rem","fontFamily":"Inter"}' | figma-textstyle render --style -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record := extractor.StyleRecord{
				FontSize:      "1rem",
				FontWeight:    "normal",
				FontFamily:    "sans-serif",
				LetterSpacing: "0em",
				LineHeight:    "1.2",
				TextAlign:     "left",
			}
			if styleFile != "" {
				if err := readStyle(cmd.InOrStdin(), styleFile, &record); err != nil {
					return err
				}
			}
			record = mergeStyle(record, style)

			key, err := resolveFileKey(figmaURL, fileKey)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chain := openChain(cfg, key)
			current, _, _ := chain.LoadSettings()
			aliases, _, _ := chain.LoadAliases()
			current, err = overrides.apply(cmd, current)
			if err != nil {
				return err
			}

			code := template.Render(current.Template, record, aliases, current.RenderOptions())

			p := newPresenter(cmd.OutOrStdout())
			if jsonOutput {
				p.printJSON(struct {
					Styles extractor.StyleRecord `json:"styles"`
					Code   string                `json:"code"`
				}{record, code})
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}

	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL selecting the file store")
	cmd.Flags().StringVar(&fileKey, "file-key", "", "Figma file key selecting the file store")
	cmd.Flags().StringVarP(&styleFile, "style", "s", "", "JSON style record file, - for stdin")
	cmd.Flags().StringVar(&style.FontSize, "size", "", "Font size in rem, e.g. 1.5rem")
	cmd.Flags().StringVar(&style.FontWeight, "weight", "", "Font weight keyword, e.g. bold")
	cmd.Flags().StringVar(&style.FontFamily, "family", "", "Font family name")
	cmd.Flags().StringVar(&style.LetterSpacing, "spacing", "", "Letter spacing in em, e.g. 0.02em")
	cmd.Flags().StringVar(&style.LineHeight, "line-height", "", "Unitless line height, e.g. 1.5")
	cmd.Flags().StringVar(&style.TextAlign, "align", "", "Text alignment: left, center, right or justify")
	overrides.register(cmd)

	return cmd
}

func readStyle(stdin io.Reader, path string, record *extractor.StyleRecord) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read style: %w", err)
	}

	// Accept a bare record as well as an event carrying one under "styles".
	var wrapped struct {
		Styles *extractor.StyleRecord `json:"styles"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Styles != nil {
		*record = mergeStyle(*record, *wrapped.Styles)
		return nil
	}
	var bare extractor.StyleRecord
	if err := json.Unmarshal(data, &bare); err != nil {
		return fmt.Errorf("parse style: %w", err)
	}
	*record = mergeStyle(*record, bare)
	return nil
}

// mergeStyle returns base with the non-empty fields of over.
func mergeStyle(base, over extractor.StyleRecord) extractor.StyleRecord {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.FontSize, over.FontSize)
	set(&base.FontWeight, over.FontWeight)
	set(&base.FontFamily, over.FontFamily)
	set(&base.LetterSpacing, over.LetterSpacing)
	set(&base.LineHeight, over.LineHeight)
	set(&base.TextAlign, over.TextAlign)
	return base
}
