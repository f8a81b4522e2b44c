package main

import (
	"fmt"
	"os"

	figmatextstyle "github.com/kataras/figma-textstyle"
	"github.com/kataras/figma-textstyle/pkg/clipboard"
	"github.com/kataras/figma-textstyle/pkg/figma"
	"github.com/kataras/figma-textstyle/pkg/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		figmaURL   string
		nodeIDs    string
		outputFile string
		all        bool
		noCopy     bool
		quiet      bool
		overrides  settingsFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the selected text element and copy the snippet",
		Long: `Fetch a Figma file (or the nodes named in the URL or --node-ids), extract the
typography of the first text element and render it through the template.
The snippet is copied to the clipboard unless --no-copy is given.`,
		Example: `  figma-textstyle export -u "https://www.figma.com/design/ABC123/App?node-id=12-34"
  figma-textstyle export -u "$URL" --all -o TEXT_STYLES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if accessToken == "" {
				return fmt.Errorf("missing Figma access token: pass --token or set FIGMA_TOKEN")
			}

			fileKey, err := figma.ExtractFileKey(figmaURL)
			if err != nil {
				return fmt.Errorf("extract file key: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chain := openChain(cfg, fileKey)
			current, _, _ := chain.LoadSettings()
			aliases, _, _ := chain.LoadAliases()
			current, err = overrides.apply(cmd, current)
			if err != nil {
				return err
			}

			var logger figmatextstyle.Logger = &cliLogger{}
			if quiet || jsonOutput {
				logger = logging.New("export")
			}

			opts := figmatextstyle.Options{
				AccessToken: accessToken,
				FileURL:     figmaURL,
				All:         all,
				Settings:    current,
				Aliases:     aliases,
				Logger:      logger,
			}
			if nodeIDs != "" {
				opts.NodeIDs = figmatextstyle.ParseNodeIDs(nodeIDs)
			}

			if !quiet && !jsonOutput {
				color.New(color.FgCyan).Fprintln(os.Stderr, "\n🔤 Figma Text Style Exporter")
				color.New(color.FgCyan).Fprintln(os.Stderr, "============================")
			}

			result, err := figmatextstyle.Run(ctx, opts)
			if err != nil {
				return err
			}

			p := newPresenter(out)
			if jsonOutput {
				p.printJSON(result)
			} else {
				for _, e := range result.Entries {
					color.New(color.FgCyan).Fprintf(out, "\n📝 %s\n", e.Title())
					p.printStyle(e.Style)
					p.printSnippet(e.Snippet)
				}
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, []byte(result.Markdown), 0644); err != nil {
					return fmt.Errorf("write %s: %w", outputFile, err)
				}
				if !jsonOutput {
					color.New(color.FgGreen).Fprintf(out, "\n💾 Wrote %d text style(s) to %s\n", len(result.Entries), outputFile)
				}
			}

			if noCopy {
				return nil
			}
			clip := clipboard.New(out)
			clip.Logger = logging.New("clipboard")
			clip.Methods[len(clip.Methods)-1] = &clipboard.Manual{Show: p.showSnippet}

			method, err := clip.Copy(ctx, result.Snippet)
			if err != nil {
				return fmt.Errorf("copy snippet: %w", err)
			}
			if !jsonOutput {
				color.New(color.FgGreen).Fprintf(out, "\n✨ Copied to clipboard! (%s)\n\n", method)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL (required)")
	cmd.Flags().StringVarP(&nodeIDs, "node-ids", "n", "", "Comma-separated node IDs to select (default: node IDs of the URL, else the entire file)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write a markdown report to this file")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Export every text element of the selection, not only the first one")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "Do not copy the snippet to the clipboard")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress messages")
	overrides.register(cmd)
	cmd.MarkFlagRequired("url")

	return cmd
}
