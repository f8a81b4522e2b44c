package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes the environment overrides, e.g. FIGMA_TEXTSTYLE_BASE_PIXEL_SIZE.
const EnvPrefix = "FIGMA_TEXTSTYLE_"

// Paths locates the configuration file and the persisted stores.
type Paths struct {
	ConfigDir string
	DataDir   string
}

// DefaultPaths follows the XDG base directory layout.
func DefaultPaths() Paths {
	return Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, AppName),
		DataDir:   filepath.Join(xdg.DataHome, AppName),
	}
}

// ConfigFile is the optional TOML file overriding the built-in defaults.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.toml")
}

// DeviceStore is the store shared by every file on this device.
func (p Paths) DeviceStore() string {
	return filepath.Join(p.DataDir, "device.json")
}

// DocumentStore is the store bound to one Figma file.
func (p Paths) DocumentStore(fileKey string) string {
	return filepath.Join(p.DataDir, "files", fileKey+".json")
}

// Chain opens the stores of fileKey and of this device. Without a file key
// only the device tier exists.
func (p Paths) Chain(fileKey string, defaults Settings) *Chain {
	var fileStore Store
	if fileKey != "" {
		fileStore = NewFileStore(p.DocumentStore(fileKey))
	}
	return NewChain(fileStore, NewFileStore(p.DeviceStore()), defaults)
}

// Config holds the defaults used when nothing is persisted.
type Config struct {
	Settings Settings
	Scope    Scope
}

// Builtin returns the defaults embedded in the binary.
func Builtin() Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("settings: embedded defaults: %v", err))
	}
	cfg, err := fromKoanf(k)
	if err != nil {
		panic(fmt.Sprintf("settings: embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig layers the embedded defaults, the config file (when it exists)
// and FIGMA_TEXTSTYLE_* environment variables.
func LoadConfig(p Paths) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := p.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (Config, error) {
	scope, err := ParseScope(k.String("scope"))
	if err != nil {
		return Config{}, err
	}
	s := Settings{
		Template:              k.String("template"),
		BasePixelSize:         k.Int("base_pixel_size"),
		SkipZeroLetterSpacing: k.Bool("skip_zero_letter_spacing"),
	}
	return Config{Settings: s.Normalize(), Scope: scope}, nil
}

// rawBytesProvider feeds embedded bytes to koanf.
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("rawBytesProvider does not support Read()")
}
