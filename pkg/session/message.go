package session

import (
	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/settings"
)

// Inbound message types.
const (
	UIReady            = "ui-ready"
	GetAliases         = "get-aliases"
	SaveAliases        = "save-aliases"
	GetSettings        = "get-settings"
	SaveSettings       = "save-settings"
	ChangeStorageScope = "change-storage-scope"
	SelectionChanged   = "selection-changed"
	Copy               = "copy"
	CopySuccess        = "copy-success"
	Close              = "close"
)

// Outbound event types.
const (
	NoSelection     = "no-selection"
	NoText          = "no-text"
	StyleExtracted  = "style-extracted"
	AliasesLoaded   = "aliases-loaded"
	SettingsLoaded  = "settings-loaded"
	ScopeChanged    = "scope-changed"
	SnippetRendered = "snippet-rendered"
	Notify          = "notify"
)

// SelectTextMessage accompanies NoSelection and NoText.
const SelectTextMessage = "Please select a text element"

// Message is a request from the presentation layer.
type Message struct {
	Type     string              `json:"type"`
	Aliases  settings.AliasTable `json:"aliases,omitempty"`
	Settings *settings.Settings  `json:"settings,omitempty"`
	Scope    settings.Scope      `json:"scope,omitempty"`
}

// Event is posted to the presentation layer.
type Event struct {
	Type     string                 `json:"type"`
	Message  string                 `json:"message,omitempty"`
	Styles   *extractor.StyleRecord `json:"styles,omitempty"`
	Aliases  settings.AliasTable    `json:"aliases,omitempty"`
	Settings *settings.Settings     `json:"settings,omitempty"`
	Scope    settings.Scope         `json:"scope,omitempty"`
	Code     string                 `json:"code,omitempty"`
	Node     string                 `json:"node,omitempty"`
}

// Presenter receives events. It is called from the session goroutine and
// must not call back into the session synchronously.
type Presenter interface {
	Present(Event)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Event)

// Present calls f.
func (f PresenterFunc) Present(e Event) { f(e) }
