package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAliasesCmd() *cobra.Command {
	var (
		figmaURL string
		fileKey  string
		scope    string
	)

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Manage font family aliases",
		Long: `Aliases replace a font family in rendered snippets, e.g. Inter -> $font-primary.
They are stored per Figma file or for every file on this device.`,
	}
	cmd.PersistentFlags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL selecting the file store")
	cmd.PersistentFlags().StringVar(&fileKey, "file-key", "", "Figma file key selecting the file store")
	cmd.PersistentFlags().StringVar(&scope, "scope", "", "Store to write: file or global (default: current scope)")

	// update loads the table, lets fn change it and saves it back.
	update := func(cmd *cobra.Command, fn func(settings.AliasTable) error) error {
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
			aliases, _, err := c.aliases(ctx)
			if err != nil {
				return err
			}
			if err := fn(aliases); err != nil {
				return err
			}
			if err := c.send(ctx, session.Message{Type: session.SaveAliases, Aliases: aliases, Scope: target}); err != nil {
				return err
			}
			saved, savedScope, err := c.aliases(ctx)
			if err != nil {
				return err
			}
			p.printAliases(saved, savedScope)
			return nil
		})
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the alias table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveFileKey(figmaURL, fileKey)
			if err != nil {
				return err
			}
			p := newPresenter(cmd.OutOrStdout())
			return withStore(cmd.Context(), key, func(c *storeClient) error {
				aliases, scope, err := c.aliases(cmd.Context())
				if err != nil {
					return err
				}
				p.printAliases(aliases, scope)
				return nil
			})
		},
	}

	setCmd := &cobra.Command{
		Use:     "set <family> <alias>",
		Short:   "Alias a font family",
		Example: `  figma-textstyle aliases set Inter '$font-primary' -u "$URL"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, func(t settings.AliasTable) error {
				t.Set(args[0], args[1])
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <family>...",
		Aliases: []string{"rm"},
		Short:   "Remove font family aliases",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, func(t settings.AliasTable) error {
				for _, family := range args {
					if _, ok := t[family]; !ok {
						color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ No alias for %q\n", family)
					}
					t.Set(family, "")
				}
				return nil
			})
		},
	}

	var replace bool
	importCmd := &cobra.Command{
		Use:   "import <file.yaml|->",
		Short: "Merge aliases from a YAML mapping of family to alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := readAliases(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return update(cmd, func(t settings.AliasTable) error {
				if replace {
					for family := range t {
						delete(t, family)
					}
				}
				for family, alias := range imported {
					t.Set(family, alias)
				}
				return nil
			})
		},
	}
	importCmd.Flags().BoolVar(&replace, "replace", false, "Replace the table instead of merging into it")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the alias table as YAML to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveFileKey(figmaURL, fileKey)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), key, func(c *storeClient) error {
				aliases, _, err := c.aliases(cmd.Context())
				if err != nil {
					return err
				}
				return settings.WriteAliases(cmd.OutOrStdout(), aliases)
			})
		},
	}

	cmd.AddCommand(listCmd, setCmd, removeCmd, importCmd, exportCmd)
	return cmd
}

// readAliases decodes a YAML mapping from path, or from stdin when path is "-".
func readAliases(stdin io.Reader, path string) (settings.AliasTable, error) {
	if path == "-" {
		return settings.ReadAliases(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open aliases: %w", err)
	}
	defer f.Close()
	return settings.ReadAliases(f)
}
