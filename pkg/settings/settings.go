package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/template"
)

// AppName names the configuration and data directories.
const AppName = "figma-textstyle"

// Persistence keys, shared with the Figma plugin.
const (
	KeyAliases  = "fontAliases"
	KeySettings = "pluginSettings"
)

// DebounceWindow coalesces template edits into one write.
const DebounceWindow = 500 * time.Millisecond

// ErrInvalidScope is returned for a storage scope other than file or global.
var ErrInvalidScope = errors.New("invalid storage scope")

// Scope selects which persisted copy of settings and aliases is authoritative.
type Scope string

// Storage scopes.
const (
	ScopeFile   Scope = "file"   // bound to one Figma file
	ScopeGlobal Scope = "global" // shared by every file on this device
)

// ParseScope accepts "file" and "global" ("device" is an alias of global).
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return ScopeFile, nil
	case "global", "device":
		return ScopeGlobal, nil
	}
	return "", fmt.Errorf("%w: %q (must be file or global)", ErrInvalidScope, s)
}

// Label is the human readable name of the scope.
func (s Scope) Label() string {
	if s == ScopeGlobal {
		return "All files"
	}
	return "This file only"
}

// Settings are the user preferences that drive rendering.
type Settings struct {
	Template              string `json:"template"`
	BasePixelSize         int    `json:"basePixelSize"`
	SkipZeroLetterSpacing bool   `json:"skipZeroLetterSpacing"`
}

// Normalize replaces a non-positive base pixel size with the default.
func (s Settings) Normalize() Settings {
	if s.BasePixelSize <= 0 {
		s.BasePixelSize = extractor.DefaultBasePixelSize
	}
	return s
}

// RenderOptions returns the renderer options these settings describe.
func (s Settings) RenderOptions() template.Options {
	s = s.Normalize()
	return template.Options{
		BasePixelSize:         s.BasePixelSize,
		SkipZeroLetterSpacing: s.SkipZeroLetterSpacing,
	}
}

// OnlyTemplateDiffers reports whether s and other differ in the template alone.
func (s Settings) OnlyTemplateDiffers(other Settings) bool {
	return s.Template != other.Template &&
		s.BasePixelSize == other.BasePixelSize &&
		s.SkipZeroLetterSpacing == other.SkipZeroLetterSpacing
}

// AliasTable maps a font family name to the text emitted for $family.
type AliasTable map[string]string

// Set registers alias for family. An empty alias removes the entry.
func (t AliasTable) Set(family, alias string) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		delete(t, family)
		return
	}
	t[family] = alias
}

// Clone returns an independent copy of t, never nil.
func (t AliasTable) Clone() AliasTable {
	out := make(AliasTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Families returns the aliased family names, sorted.
func (t AliasTable) Families() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
