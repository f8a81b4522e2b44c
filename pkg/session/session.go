// Package session runs the exporter's event loop. A Session owns the
// settings, the alias table, the storage scope and the last extracted style.
// It reacts to selection changes and to requests from the presentation
// layer, one at a time, on the goroutine that calls Run.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/host"
	"github.com/kataras/figma-textstyle/pkg/logging"
	"github.com/kataras/figma-textstyle/pkg/settings"
	"github.com/kataras/figma-textstyle/pkg/template"
)

// ErrClosed is returned by Send once the session has stopped.
var ErrClosed = errors.New("session closed")

// Copier puts text on the clipboard and names the method used.
type Copier interface {
	Copy(ctx context.Context, text string) (string, error)
}

// Options configures a Session. Store and Presenter are required.
type Options struct {
	Store     *settings.Chain
	Selection host.SelectionProvider // nil = nothing is ever selected
	Measurer  host.LineHeightMeasurer
	Clipboard Copier
	Presenter Presenter
	Logger    logging.Logger // nil = no logging

	// Scope is used until persisted aliases name one. Zero means file.
	Scope settings.Scope
	// DebounceWindow delays template-only settings writes. Zero means
	// settings.DebounceWindow.
	DebounceWindow time.Duration
}

type result struct {
	gen   uint64
	kind  string
	style extractor.StyleRecord
	node  string
	err   error
}

// Session is the exporter state machine.
type Session struct {
	opts      Options
	extractor *extractor.Extractor
	debounce  *settings.Debouncer

	inbox   chan Message
	results chan result
	flushes chan struct{}
	done    chan struct{}

	// Owned by the Run goroutine.
	settings settings.Settings
	aliases  settings.AliasTable
	scope    settings.Scope
	style    *extractor.StyleRecord
	node     string
	gen      uint64
	busy     bool           // an extraction is in flight
	queued   bool           // the selection changed while busy
	dirty    settings.Scope // scope of a pending debounced write
}

// New returns a Session. Call Run to start it.
func New(opts Options) *Session {
	if opts.Scope == "" {
		opts.Scope = settings.ScopeFile
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = settings.DebounceWindow
	}

	s := &Session{
		opts:      opts,
		extractor: &extractor.Extractor{Measurer: opts.Measurer, Logger: opts.Logger},
		inbox:     make(chan Message),
		results:   make(chan result),
		flushes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		aliases:   settings.AliasTable{},
		scope:     opts.Scope,
	}
	s.debounce = settings.NewDebouncer(opts.DebounceWindow, func() {
		select {
		case s.flushes <- struct{}{}:
		default:
		}
	})
	return s
}

// Send delivers msg to the session. It blocks until the session accepts
// it, ctx is done or the session stops.
func (s *Session) Send(ctx context.Context, msg Message) error {
	select {
	case s.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run loads the persisted state, extracts the current selection and then
// processes messages until a close message arrives or ctx is done. Pending
// writes are flushed before it returns. Run returns nil after close.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.debounce.Stop()

	s.loadSettings()
	s.loadAliases()
	s.checkSelection(ctx)

	var changes <-chan struct{}
	if s.opts.Selection != nil {
		changes = s.opts.Selection.Changes()
	}

	for {
		select {
		case <-ctx.Done():
			s.flushPending()
			return ctx.Err()
		case msg := <-s.inbox:
			if s.handle(ctx, msg) {
				s.flushPending()
				return nil
			}
		case r := <-s.results:
			s.finish(ctx, r)
		case <-s.flushes:
			s.writePending()
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.checkSelection(ctx)
		}
	}
}

// handle processes one message and reports whether the session should stop.
func (s *Session) handle(ctx context.Context, msg Message) bool {
	s.debugf("Received %s", msg.Type)

	switch msg.Type {
	case UIReady:
	case GetAliases:
		s.loadAliases()
		s.post(Event{Type: AliasesLoaded, Aliases: s.aliases.Clone(), Scope: s.scope})
	case SaveAliases:
		s.saveAliases(msg)
	case GetSettings:
		s.flushPending()
		s.loadSettings()
		current := s.settings
		s.post(Event{Type: SettingsLoaded, Settings: &current, Scope: s.scope})
	case SaveSettings:
		s.saveSettings(ctx, msg)
	case ChangeStorageScope:
		s.changeScope(msg.Scope)
	case SelectionChanged:
		s.checkSelection(ctx)
	case Copy:
		s.copy(ctx)
	case CopySuccess:
		s.notify("Copied to clipboard!")
	case Close:
		return true
	default:
		s.warnf("Unknown message type %q", msg.Type)
	}
	return false
}

func (s *Session) loadSettings() {
	st, scope, found := s.opts.Store.LoadSettings()
	s.settings = st
	if found {
		s.debugf("Settings loaded from %s store", scope)
	}
}

// loadAliases replaces the alias table with the persisted one. The tier
// that answered becomes the storage scope.
func (s *Session) loadAliases() {
	aliases, scope, found := s.opts.Store.LoadAliases()
	if !found {
		return
	}
	s.aliases = aliases
	s.scope = scope
}

// resolveScope returns the requested scope, or the current one when none
// was requested.
func (s *Session) resolveScope(requested settings.Scope) (settings.Scope, error) {
	if requested == "" {
		return s.scope, nil
	}
	scope, err := settings.ParseScope(string(requested))
	if err != nil {
		return "", err
	}
	if !s.opts.Store.Has(scope) {
		return "", fmt.Errorf("%w: %s storage is not available", settings.ErrInvalidScope, scope)
	}
	return scope, nil
}

func (s *Session) saveAliases(msg Message) {
	scope, err := s.resolveScope(msg.Scope)
	if err != nil {
		s.notify(fmt.Sprintf("Failed to save aliases: %v", err))
		return
	}

	s.aliases = msg.Aliases.Clone()
	if err := s.opts.Store.SaveAliases(scope, s.aliases); err != nil {
		s.errorf("Failed to save aliases: %v", err)
	} else {
		s.scope = scope
	}
	s.render()
}

func (s *Session) saveSettings(ctx context.Context, msg Message) {
	if msg.Settings == nil {
		s.warnf("save-settings without settings ignored")
		return
	}
	scope, err := s.resolveScope(msg.Scope)
	if err != nil {
		s.notify(fmt.Sprintf("Failed to save settings: %v", err))
		return
	}

	prev := s.settings
	s.settings = msg.Settings.Normalize()

	if s.settings.OnlyTemplateDiffers(prev) {
		if s.dirty != "" && s.dirty != scope {
			s.flushPending()
		}
		s.dirty = scope
		s.debounce.Trigger()
		s.render()
		return
	}

	s.flushPending()
	s.persistSettings(scope)
	s.checkSelection(ctx)
}

func (s *Session) persistSettings(scope settings.Scope) {
	if err := s.opts.Store.SaveSettings(scope, s.settings); err != nil {
		s.errorf("Failed to save settings: %v", err)
		return
	}
	s.debugf("Saved settings to %s store", scope)
}

// writePending performs the debounced settings write, if any.
func (s *Session) writePending() {
	if s.dirty == "" {
		return
	}
	scope := s.dirty
	s.dirty = ""
	s.persistSettings(scope)
}

func (s *Session) flushPending() {
	s.debounce.Stop()
	s.writePending()
}

// changeScope copies the current aliases and settings to the new scope and
// makes it current.
func (s *Session) changeScope(requested settings.Scope) {
	if requested == "" {
		s.notify("Failed to change storage scope: no scope given")
		return
	}
	scope, err := s.resolveScope(requested)
	if err != nil {
		s.notify(fmt.Sprintf("Failed to change storage scope: %v", err))
		return
	}

	s.flushPending()
	if err := s.opts.Store.SaveAliases(scope, s.aliases); err != nil {
		s.errorf("Failed to save aliases: %v", err)
	}
	s.persistSettings(scope)
	s.scope = scope

	s.post(Event{Type: ScopeChanged, Scope: scope})
	s.notify("Storage scope changed to " + scope.Label())
}

// checkSelection extracts the current selection. Measuring may mutate the
// selected node, so one extraction runs at a time: a change arriving
// meanwhile is queued and the running extraction's result is discarded.
func (s *Session) checkSelection(ctx context.Context) {
	s.gen++

	if s.opts.Selection == nil {
		s.apply(result{gen: s.gen, kind: NoSelection})
		return
	}
	if s.busy {
		s.queued = true
		s.debugf("Extraction in flight, queuing %d", s.gen)
		return
	}
	s.startExtraction(ctx)
}

func (s *Session) startExtraction(ctx context.Context) {
	gen := s.gen
	base := s.settings.Normalize().BasePixelSize
	s.busy = true

	go func() {
		r := s.extract(ctx, gen, base)
		select {
		case s.results <- r:
		case <-s.done:
		}
	}()
}

// finish receives a completed extraction and starts the queued one, if any.
func (s *Session) finish(ctx context.Context, r result) {
	s.busy = false
	if s.queued {
		s.queued = false
		s.startExtraction(ctx)
	}
	s.apply(r)
}

func (s *Session) extract(ctx context.Context, gen uint64, base int) result {
	nodes, err := s.opts.Selection.Selection(ctx)
	if err != nil {
		return result{gen: gen, err: err}
	}
	if len(nodes) == 0 {
		return result{gen: gen, kind: NoSelection}
	}
	node := host.FirstText(nodes)
	if node == nil {
		return result{gen: gen, kind: NoText}
	}
	return result{
		gen:   gen,
		kind:  StyleExtracted,
		style: s.extractor.Extract(ctx, node, base),
		node:  node.Name(),
	}
}

func (s *Session) apply(r result) {
	if r.gen != s.gen {
		s.debugf("Discarding stale extraction %d (current %d)", r.gen, s.gen)
		return
	}

	if r.err != nil {
		s.errorf("Failed to read selection: %v", r.err)
		s.notify(fmt.Sprintf("Failed to read selection: %v", r.err))
		return
	}

	switch r.kind {
	case NoSelection, NoText:
		s.style = nil
		s.node = ""
		s.post(Event{Type: r.kind, Message: SelectTextMessage})
	case StyleExtracted:
		style := r.style
		s.style = &style
		s.node = r.node
		s.post(Event{Type: StyleExtracted, Styles: &style, Node: r.node})
		s.render()
	}
}

// snippet renders the last extracted style. ok is false without one.
func (s *Session) snippet() (string, bool) {
	if s.style == nil {
		return "", false
	}
	return template.Render(s.settings.Template, *s.style, s.aliases, s.settings.RenderOptions()), true
}

func (s *Session) render() {
	if code, ok := s.snippet(); ok {
		s.post(Event{Type: SnippetRendered, Code: code, Node: s.node})
	}
}

func (s *Session) copy(ctx context.Context) {
	code, ok := s.snippet()
	if !ok {
		s.notify(SelectTextMessage)
		return
	}
	if s.opts.Clipboard == nil {
		s.notify("Copy failed: no clipboard available")
		return
	}

	method, err := s.opts.Clipboard.Copy(ctx, code)
	if err != nil {
		s.errorf("Copy failed: %v", err)
		s.notify(fmt.Sprintf("Copy failed: %v", err))
		return
	}
	s.infof("Copied snippet via %s", method)
	s.handle(ctx, Message{Type: CopySuccess})
}

func (s *Session) post(e Event) {
	s.opts.Presenter.Present(e)
}

func (s *Session) notify(message string) {
	s.post(Event{Type: Notify, Message: message})
}

func (s *Session) debugf(f string, a ...any) {
	if d, ok := s.opts.Logger.(interface{ Debugf(string, ...any) }); ok {
		d.Debugf(f, a...)
	}
}

func (s *Session) infof(f string, a ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger.Infof(f, a...)
	}
}

func (s *Session) warnf(f string, a ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger.Warnf(f, a...)
	}
}

func (s *Session) errorf(f string, a ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger.Errorf(f, a...)
	}
}
