package settings

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ReadAliases decodes a YAML mapping of family name to alias:
//
//	Inter: $font-primary
//	"Noto Serif JP": $font-serif
//
// Entries with an empty alias are dropped.
func ReadAliases(r io.Reader) (AliasTable, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return AliasTable{}, nil
		}
		return nil, fmt.Errorf("failed to parse aliases: %w", err)
	}

	t := make(AliasTable, len(raw))
	for family, alias := range raw {
		t.Set(family, alias)
	}
	return t, nil
}

// WriteAliases encodes t as YAML, keys sorted.
func WriteAliases(w io.Writer, t AliasTable) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]string(t.Clone())); err != nil {
		return fmt.Errorf("failed to encode aliases: %w", err)
	}
	return enc.Close()
}
