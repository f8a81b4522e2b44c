package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	figmatextstyle "github.com/kataras/figma-textstyle"
	"github.com/kataras/figma-textstyle/pkg/clipboard"
	"github.com/kataras/figma-textstyle/pkg/figma"
	"github.com/kataras/figma-textstyle/pkg/logging"
	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const watchHelp = `Commands:
  c, copy                 copy the current snippet
  r, refresh              read the selection again
  a, aliases              list font aliases
  alias <family> <alias>  set an alias (empty alias removes it)
  s, settings             show settings
  template <text>         replace the template (\n for line breaks)
  scope <file|global>     switch the storage scope
  q, quit                 save and exit`

func newWatchCmd() *cobra.Command {
	var (
		figmaURL string
		nodeIDs  string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a Figma file and re-render the snippet on every change",
		Long: `Open an interactive session on a Figma file. The selection is re-read
whenever the file changes and the snippet is rendered again. Type commands
on stdin to copy the snippet or edit settings and aliases.

` + watchHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			if accessToken == "" {
				return fmt.Errorf("missing Figma access token: pass --token or set FIGMA_TOKEN")
			}

			fileKey, err := figma.ExtractFileKey(figmaURL)
			if err != nil {
				return fmt.Errorf("extract file key: %w", err)
			}
			var explicit []string
			if nodeIDs != "" {
				explicit = figmatextstyle.ParseNodeIDs(nodeIDs)
			}
			ids, err := figmatextstyle.ResolveNodeIDs(figmaURL, explicit)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			p := newPresenter(out)
			t := newTracker(p)

			sel := figma.NewSelection(figma.NewClient(accessToken), fileKey, ids)
			sel.Interval = interval
			sel.Logger = logging.New("figma")
			go sel.Watch(ctx)

			clip := clipboard.New(out)
			clip.Logger = logging.New("clipboard")
			clip.Methods[len(clip.Methods)-1] = &clipboard.Manual{Show: p.showSnippet}

			s := session.New(session.Options{
				Store:     openChain(cfg, fileKey),
				Scope:     cfg.Scope,
				Selection: sel,
				Measurer:  figma.IntrinsicMeasurer{},
				Clipboard: clip,
				Presenter: t,
				Logger:    logging.New("session"),
			})

			errc := make(chan error, 1)
			go func() { errc <- s.Run(ctx) }()

			if !jsonOutput {
				p.printf(color.New(color.FgCyan), "👀 Watching %s (type h for help)\n", fileKey)
			}
			if err := s.Send(ctx, session.Message{Type: session.GetSettings}); err != nil {
				return err
			}
			if err := s.Send(ctx, session.Message{Type: session.GetAliases}); err != nil {
				return err
			}
			go readCommands(ctx, cmd.InOrStdin(), p, s, t)

			return <-errc
		},
	}

	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL (required)")
	cmd.Flags().StringVarP(&nodeIDs, "node-ids", "n", "", "Comma-separated node IDs to select")
	cmd.Flags().DurationVar(&interval, "interval", figma.DefaultPollInterval, "How often to check the file for changes")
	cmd.MarkFlagRequired("url")

	return cmd
}

// tracker keeps the latest settings and aliases the session reported, so
// that edits typed on stdin start from the persisted values.
type tracker struct {
	next session.Presenter

	mu       sync.Mutex
	settings settings.Settings
	aliases  settings.AliasTable
}

func newTracker(next session.Presenter) *tracker {
	return &tracker{
		next:     next,
		settings: settings.Builtin().Settings,
		aliases:  settings.AliasTable{},
	}
}

func (t *tracker) Present(e session.Event) {
	t.mu.Lock()
	switch {
	case e.Type == session.SettingsLoaded && e.Settings != nil:
		t.settings = *e.Settings
	case e.Type == session.AliasesLoaded:
		t.aliases = e.Aliases.Clone()
	}
	t.mu.Unlock()
	t.next.Present(e)
}

func (t *tracker) current() (settings.Settings, settings.AliasTable) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings, t.aliases.Clone()
}

// readCommands turns stdin lines into session messages. End of input closes
// the session. Replies go through p so they never split an event's output.
func readCommands(ctx context.Context, in io.Reader, p *presenter, s *session.Session, t *tracker) {
	send := func(msg session.Message) bool {
		return s.Send(ctx, msg) == nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		var ok bool
		switch cmd {
		case "":
			continue
		case "h", "help":
			p.printf(nil, "%s\n", watchHelp)
			continue
		case "c", "copy":
			ok = send(session.Message{Type: session.Copy})
		case "r", "refresh":
			ok = send(session.Message{Type: session.SelectionChanged})
		case "a", "aliases":
			ok = send(session.Message{Type: session.GetAliases})
		case "s", "settings":
			ok = send(session.Message{Type: session.GetSettings})
		case "alias":
			family, alias := splitAlias(arg)
			if family == "" {
				p.printf(nil, "usage: alias <family> <alias>\n")
				continue
			}
			_, aliases := t.current()
			aliases.Set(family, alias)
			ok = send(session.Message{Type: session.SaveAliases, Aliases: aliases}) &&
				send(session.Message{Type: session.GetAliases})
		case "template":
			next, _ := t.current()
			next.Template = strings.ReplaceAll(arg, `\n`, "\n")
			ok = send(session.Message{Type: session.SaveSettings, Settings: &next})
			if ok {
				t.mu.Lock()
				t.settings = next
				t.mu.Unlock()
			}
		case "scope":
			ok = send(session.Message{Type: session.ChangeStorageScope, Scope: settings.Scope(arg)})
		case "q", "quit", "exit", "close":
			send(session.Message{Type: session.Close})
			return
		default:
			p.printf(color.New(color.FgYellow), "unknown command %q (type h for help)\n", cmd)
			continue
		}
		if !ok {
			return
		}
	}
	send(session.Message{Type: session.Close})
}

// splitAlias splits `Noto Sans JP $font-jp` at the last space. Family names
// may contain spaces, aliases may not.
func splitAlias(arg string) (family, alias string) {
	i := strings.LastIndex(arg, " ")
	if i < 0 {
		return arg, ""
	}
	return strings.TrimSpace(arg[:i]), strings.TrimSpace(arg[i+1:])
}
