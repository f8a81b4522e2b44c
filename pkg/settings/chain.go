package settings

import (
	"encoding/json"
	"fmt"

	"github.com/kataras/figma-textstyle/pkg/logging"
)

// Tier is one level of the storage fallback chain.
type Tier struct {
	Scope Scope
	Store Store
}

// Chain queries its tiers in order; the first tier holding a value wins.
// Values are never merged across tiers.
type Chain struct {
	Tiers    []Tier
	Defaults Settings       // used when no tier holds settings
	Logger   logging.Logger // nil = no logging
}

// NewChain returns the usual two-tier chain: file store, then device store.
// A nil file store (no document is open) leaves only the device tier.
func NewChain(fileStore, deviceStore Store, defaults Settings) *Chain {
	c := &Chain{Defaults: defaults.Normalize()}
	if fileStore != nil {
		c.Tiers = append(c.Tiers, Tier{Scope: ScopeFile, Store: fileStore})
	}
	if deviceStore != nil {
		c.Tiers = append(c.Tiers, Tier{Scope: ScopeGlobal, Store: deviceStore})
	}
	return c
}

// LoadSettings returns the first persisted settings along with the scope
// that held them. found is false when the built-in defaults were used.
func (c *Chain) LoadSettings() (Settings, Scope, bool) {
	s, scope, found := load(c, KeySettings, func() Settings { return c.Defaults })
	return s.Normalize(), scope, found
}

// LoadAliases returns the first persisted alias table along with the scope
// that held it. The table is empty, never nil, when nothing is persisted.
func (c *Chain) LoadAliases() (AliasTable, Scope, bool) {
	aliases, scope, found := load(c, KeyAliases, func() AliasTable { return AliasTable{} })
	if aliases == nil {
		aliases = AliasTable{}
	}
	return aliases, scope, found
}

// SaveSettings writes s to the store of scope only.
func (c *Chain) SaveSettings(scope Scope, s Settings) error {
	return c.save(scope, KeySettings, s)
}

// SaveAliases writes aliases to the store of scope only.
func (c *Chain) SaveAliases(scope Scope, aliases AliasTable) error {
	if aliases == nil {
		aliases = AliasTable{}
	}
	return c.save(scope, KeyAliases, aliases)
}

// Has reports whether the chain has a tier for scope.
func (c *Chain) Has(scope Scope) bool {
	_, err := c.store(scope)
	return err == nil
}

func (c *Chain) store(scope Scope) (Store, error) {
	for _, t := range c.Tiers {
		if t.Scope == scope {
			return t.Store, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s store available", ErrInvalidScope, scope)
}

func (c *Chain) save(scope Scope, key string, value any) error {
	st, err := c.store(scope)
	if err != nil {
		return err
	}
	if err := st.Set(key, value); err != nil {
		return fmt.Errorf("save %s to %s store: %w", key, scope, err)
	}
	return nil
}

// load decodes the first value found under key on top of fresh().
// Unreadable or undecodable tiers are logged and skipped.
func load[T any](c *Chain, key string, fresh func() T) (T, Scope, bool) {
	for _, t := range c.Tiers {
		raw, ok, err := t.Store.Get(key)
		if err != nil {
			c.warnf("Failed to load %s from %s store: %v", key, t.Scope, err)
			continue
		}
		if !ok {
			continue
		}
		v := fresh()
		if err := json.Unmarshal(raw, &v); err != nil {
			c.warnf("Failed to decode %s from %s store: %v", key, t.Scope, err)
			continue
		}
		c.infof("Loaded %s from %s store", key, t.Scope)
		return v, t.Scope, true
	}
	return fresh(), "", false
}

func (c *Chain) infof(f string, a ...any) {
	if c.Logger != nil {
		c.Logger.Infof(f, a...)
	}
}

func (c *Chain) warnf(f string, a ...any) {
	if c.Logger != nil {
		c.Logger.Warnf(f, a...)
	}
}
