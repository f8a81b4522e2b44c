package main

import (
	"fmt"

	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newScopeCmd() *cobra.Command {
	var (
		figmaURL string
		fileKey  string
	)

	cmd := &cobra.Command{
		Use:   "scope [file|global]",
		Short: "Show or switch the storage scope",
		Long: `Without an argument, print the storage scope. With one, copy the current
settings and aliases to that store and make it the current scope.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(settings.ScopeFile), string(settings.ScopeGlobal)},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveFileKey(figmaURL, fileKey)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				return withStore(ctx, key, func(c *storeClient) error {
					_, scope, err := c.aliases(ctx)
					if err != nil {
						return err
					}
					if scope == "" {
						scope = settings.ScopeFile
					}
					fmt.Fprintf(out, "%s (%s)\n", scope, scope.Label())
					return nil
				})
			}

			target, err := settings.ParseScope(args[0])
			if err != nil {
				return err
			}
			if target == settings.ScopeFile && key == "" {
				return fmt.Errorf("the file scope needs --url or --file-key")
			}

			return withStore(ctx, key, func(c *storeClient) error {
				e, err := c.request(ctx, session.Message{Type: session.ChangeStorageScope, Scope: target}, session.ScopeChanged)
				if err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(out, "✓ Storage scope changed to %s\n", e.Scope.Label())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL selecting the file store")
	cmd.Flags().StringVar(&fileKey, "file-key", "", "Figma file key selecting the file store")
	return cmd
}
