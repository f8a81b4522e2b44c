package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/kataras/figma-textstyle/pkg/figma"
	"github.com/kataras/figma-textstyle/pkg/logging"
	"github.com/kataras/figma-textstyle/pkg/session"
	"github.com/kataras/figma-textstyle/pkg/settings"
)

func paths() settings.Paths {
	return settings.Paths{ConfigDir: configDir, DataDir: dataDir}
}

// loadConfig layers config.toml and the environment over the built-in defaults.
func loadConfig() (settings.Config, error) {
	cfg, err := settings.LoadConfig(paths())
	if err != nil {
		return settings.Config{}, err
	}
	return cfg, nil
}

// resolveFileKey accepts a file URL, a bare file key, or neither.
func resolveFileKey(fileURL, fileKey string) (string, error) {
	if fileKey != "" {
		return fileKey, nil
	}
	if fileURL == "" {
		return "", nil
	}
	key, err := figma.ExtractFileKey(fileURL)
	if err != nil {
		return "", fmt.Errorf("extract file key: %w", err)
	}
	return key, nil
}

func openChain(cfg settings.Config, fileKey string) *settings.Chain {
	chain := paths().Chain(fileKey, cfg.Settings)
	chain.Logger = logging.New("settings")
	return chain
}

// storeClient drives a session without a selection to read and write the
// persisted settings and aliases.
type storeClient struct {
	s      *session.Session
	events chan session.Event
	errc   chan error
}

func startStoreSession(ctx context.Context, fileKey string) (*storeClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	scope := cfg.Scope
	if fileKey == "" {
		scope = settings.ScopeGlobal
	}

	c := &storeClient{
		events: make(chan session.Event, 64),
		errc:   make(chan error, 1),
	}
	c.s = session.New(session.Options{
		Store:     openChain(cfg, fileKey),
		Scope:     scope,
		Presenter: session.PresenterFunc(func(e session.Event) { c.events <- e }),
		Logger:    logging.New("session"),
	})
	go func() { c.errc <- c.s.Run(ctx) }()
	return c, nil
}

// request sends msg and waits for an event of type want. A notification
// arriving first is returned as an error.
func (c *storeClient) request(ctx context.Context, msg session.Message, want string) (session.Event, error) {
	if err := c.s.Send(ctx, msg); err != nil {
		return session.Event{}, err
	}
	for {
		select {
		case e := <-c.events:
			switch e.Type {
			case want:
				return e, nil
			case session.Notify:
				return session.Event{}, errors.New(e.Message)
			}
		case <-ctx.Done():
			return session.Event{}, ctx.Err()
		case <-c.s.Done():
			return session.Event{}, session.ErrClosed
		}
	}
}

func (c *storeClient) send(ctx context.Context, msg session.Message) error {
	return c.s.Send(ctx, msg)
}

// close flushes pending writes and stops the session.
func (c *storeClient) close(ctx context.Context) error {
	if err := c.s.Send(ctx, session.Message{Type: session.Close}); err != nil {
		return err
	}
	return <-c.errc
}

func (c *storeClient) aliases(ctx context.Context) (settings.AliasTable, settings.Scope, error) {
	e, err := c.request(ctx, session.Message{Type: session.GetAliases}, session.AliasesLoaded)
	if err != nil {
		return nil, "", err
	}
	if e.Aliases == nil {
		e.Aliases = settings.AliasTable{}
	}
	return e.Aliases, e.Scope, nil
}

func (c *storeClient) settings(ctx context.Context) (settings.Settings, settings.Scope, error) {
	e, err := c.request(ctx, session.Message{Type: session.GetSettings}, session.SettingsLoaded)
	if err != nil {
		return settings.Settings{}, "", err
	}
	return *e.Settings, e.Scope, nil
}

// withStore runs fn against a store session and closes it afterwards.
func withStore(ctx context.Context, fileKey string, fn func(c *storeClient) error) error {
	c, err := startStoreSession(ctx, fileKey)
	if err != nil {
		return err
	}
	fnErr := fn(c)
	if err := c.close(ctx); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// parseScopeFlag returns "" for an empty flag, meaning the current scope.
func parseScopeFlag(s string) (settings.Scope, error) {
	if s == "" {
		return "", nil
	}
	return settings.ParseScope(s)
}
