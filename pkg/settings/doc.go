// Package settings persists the user preferences and font aliases.
//
// Two stores exist: one bound to the Figma file being exported and one shared
// by every file on the device. A Chain reads them in that order and the first
// one holding a value is authoritative; when neither does, the built-in
// defaults apply. The defaults themselves come from an embedded TOML
// document that a config file and FIGMA_TEXTSTYLE_* environment variables
// may override.
package settings
