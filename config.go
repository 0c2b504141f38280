package fsentity

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Mode is a permission set written as an octal string in YAML ("0644")
type Mode os.FileMode

// UnmarshalYAML accepts an octal permission string such as "0640"
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := strconv.ParseUint(value.Value, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid octal mode %q: %w", value.Value, err)
	}
	if parsed > 0777 {
		return fmt.Errorf("mode %q has bits outside the permission range", value.Value)
	}

	*m = Mode(parsed)
	return nil
}

// MarshalYAML writes the mode back as a four digit octal string
func (m Mode) MarshalYAML() (any, error) {
	return fmt.Sprintf("%04o", uint32(m)), nil
}

// Config holds defaults for entity operations
type Config struct {
	FileMode      Mode `yaml:"file_mode"`
	DirectoryMode Mode `yaml:"directory_mode"`
	VerifyWrites  bool `yaml:"verify_writes"`
	AtomicWrites  bool `yaml:"atomic_writes"`
	BufferSize    int  `yaml:"buffer_size"`
}

// DefaultConfig mirrors the defaults the options apply without a config
func DefaultConfig() Config {
	return Config{
		FileMode:      Mode(defaultFileOptions().perm),
		DirectoryMode: Mode(defaultDirectoryOptions().perm),
		VerifyWrites:  defaultFileOptions().verify,
		AtomicWrites:  false,
		BufferSize:    defaultCopyOptions().bufferSize,
	}
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, newIOError(opConfig, path, ErrLoadConfig.
			SetError(err).
			SetData(pathErrorContext{
				Path:  path,
				Error: err,
			}))
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}

	logOp(opConfig, path).Msg("config loaded")
	return cfg, nil
}

// ParseConfig decodes YAML on top of DefaultConfig
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, newError(ErrInvalidArgument, opConfig, "", ErrParseConfig.SetError(err))
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultCopyOptions().bufferSize
	}

	return cfg, nil
}

// FileOptions turns the config into options for CreateFile and writes
func (c Config) FileOptions() []FileOption {
	options := []FileOption{
		WithPermissions(os.FileMode(c.FileMode)),
		WithVerify(c.VerifyWrites),
	}
	if c.AtomicWrites {
		options = append(options, WithAtomic())
	}

	return options
}

// DirectoryOptions turns the config into options for CreateDirectory
func (c Config) DirectoryOptions() []DirectoryOption {
	return []DirectoryOption{
		WithDirPermissions(os.FileMode(c.DirectoryMode)),
	}
}

// CopyOptions turns the config into options for copy, move and append
func (c Config) CopyOptions() []CopyOption {
	return []CopyOption{
		WithBufferSize(c.BufferSize),
	}
}
