package main

import (
	"fmt"
	"os"

	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/spf13/cobra"
)

// settingsFlags override persisted settings. Only flags given on the
// command line take effect.
type settingsFlags struct {
	template      string
	templateFile  string
	basePixelSize int
	skipZero      bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.template, "template", "", "Snippet template, e.g. '+text($size(rem), $weight, $family)'")
	cmd.Flags().StringVar(&f.templateFile, "template-file", "", "Read the snippet template from a file")
	cmd.Flags().IntVar(&f.basePixelSize, "base-pixel-size", 0, "Root font size in pixels used for rem conversion")
	cmd.Flags().BoolVar(&f.skipZero, "skip-zero-letter-spacing", false, "Drop template lines with $spacing when letter-spacing is zero")
}

func (f *settingsFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"template", "template-file", "base-pixel-size", "skip-zero-letter-spacing"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply returns s with the given flags applied. A template file wins over
// --template.
func (f *settingsFlags) apply(cmd *cobra.Command, s settings.Settings) (settings.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("template") {
		s.Template = f.template
	}
	if flags.Changed("template-file") {
		data, err := os.ReadFile(f.templateFile)
		if err != nil {
			return s, fmt.Errorf("read template file: %w", err)
		}
		s.Template = string(data)
	}
	if flags.Changed("base-pixel-size") {
		s.BasePixelSize = f.basePixelSize
	}
	if flags.Changed("skip-zero-letter-spacing") {
		s.SkipZeroLetterSpacing = f.skipZero
	}
	return s.Normalize(), nil
}

func newSettingsCmd() *cobra.Command {
	var (
		figmaURL string
		fileKey  string
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the persisted settings",
		Long: `Settings are stored per Figma file or for every file on this device,
depending on the storage scope. Without --url or --file-key only the
device store is used.`,
	}
	cmd.PersistentFlags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL selecting the file store")
	cmd.PersistentFlags().StringVar(&fileKey, "file-key", "", "Figma file key selecting the file store")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveFileKey(figmaURL, fileKey)
			if err != nil {
				return err
			}
			p := newPresenter(cmd.OutOrStdout())
			return withStore(cmd.Context(), key, func(c *storeClient) error {
				s, scope, err := c.settings(cmd.Context())
				if err != nil {
					return err
				}
				p.printSettings(s, scope)
				return nil
			})
		},
	}

	var (
		flags settingsFlags
		scope string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; flags not given keep their value",
		Example: `  figma-textstyle settings set --base-pixel-size 10
  figma-textstyle settings set --template-file snippet.scss --scope global`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.changed(cmd) {
				return fmt.Errorf("nothing to change: pass at least one setting flag")
			}
			target, err := parseScopeFlag(scope)
			if err != nil {
				return err
			}
			key, err := resolveFileKey(figmaURL, fileKey)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p := newPresenter(cmd.OutOrStdout())
			return withStore(ctx, key, func(c *storeClient) error {
				current, _, err := c.settings(ctx)
				if err != nil {
					return err
				}
				next, err := flags.apply(cmd, current)
				if err != nil {
					return err
				}
				if err := c.send(ctx, session.Message{Type: session.SaveSettings, Settings: &next, Scope: target}); err != nil {
					return err
				}
				// get-settings flushes pending writes and reports the stored state.
				saved, savedScope, err := c.settings(ctx)
				if err != nil {
					return err
				}
				p.printSettings(saved, savedScope)
				return nil
			})
		},
	}
	flags.register(setCmd)
	setCmd.Flags().StringVar(&scope, "scope", "", "Store to write: file or global (default: current scope)")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}
