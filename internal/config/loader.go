package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the directory under the user config root
	ConfigDirName = "opentraceview"
	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.yaml"
)

// envVarPattern matches ${VAR_NAME}
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Loader reads and writes the configuration file
type Loader struct {
	configPath string
}

// NewLoader uses the platform config directory:
// %APPDATA%\OpenTraceView on Windows, ~/.config/opentraceview elsewhere.
func NewLoader() (*Loader, error) {
	var configDir string
	if appData := os.Getenv("APPDATA"); appData != "" {
		configDir = filepath.Join(appData, "OpenTraceView")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", ConfigDirName)
	}
	return &Loader{configPath: filepath.Join(configDir, ConfigFileName)}, nil
}

// NewLoaderWithPath creates a loader for an explicit file
func NewLoaderWithPath(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

func (l *Loader) ConfigPath() string {
	return l.configPath
}

// Load reads the configuration. A missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg, creating the directory if needed
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(l.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveLastDir rewrites only the last_dir key of an existing file. Other
// keys, ${VAR} references and comments are kept as written. A missing file
// is left missing; run "otview config init" to start persisting.
func (l *Loader) SaveLastDir(dir string) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(doc.Content) == 0 {
		// Empty file
		cfg := DefaultConfig()
		cfg.LastDir = dir
		return l.Save(cfg)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config file %s: top level is not a mapping", l.configPath)
	}
	setScalar(root, "last_dir", dir)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(l.configPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setScalar replaces or appends a string value in a mapping node
func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			v := m.Content[i+1]
			v.Kind = yaml.ScalarNode
			v.Tag = "!!str"
			v.Value = value
			v.Style = 0
			v.Content = nil
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

// Exists reports whether the configuration file is present
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.configPath)
	return err == nil
}

// expandEnvVars replaces ${VAR} with the environment value
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
