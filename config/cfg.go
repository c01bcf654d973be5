package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"zen/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// Profile is a bundle of output formatting options.
	Profile struct {
		TagCase     common.Case        `yaml:"tag_case" validate:"gte=0"`
		AttrCase    common.Case        `yaml:"attr_case" validate:"gte=0"`
		AttrQuotes  common.Quotes      `yaml:"attr_quotes" validate:"gte=0"`
		TagNewline  common.TagNewline  `yaml:"tag_newline" validate:"gte=0"`
		PlaceCursor bool               `yaml:"place_cursor"`
		Indent      bool               `yaml:"indent"`
		InlineBreak int                `yaml:"inline_break" validate:"gte=0"`
		SelfClosing common.SelfClosing `yaml:"self_closing_tag" validate:"gte=0"`
	}

	ProfilesConfig struct {
		XHTML  Profile            `yaml:"xhtml"`
		HTML   Profile            `yaml:"html"`
		XML    Profile            `yaml:"xml"`
		Plain  Profile            `yaml:"plain"`
		Custom map[string]Profile `yaml:"custom,omitempty" validate:"dive"`
	}

	OutputConfig struct {
		Indentation string `yaml:"indentation"`
		Newline     string `yaml:"newline" validate:"required"`
		Caret       string `yaml:"caret" validate:"required"`
	}

	ResourcesConfig struct {
		Path string `yaml:"path" sanitize:"assure_file_access"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Output    OutputConfig    `yaml:"output"`
		Resources ResourcesConfig `yaml:"resources"`
		Profiles  ProfilesConfig  `yaml:"profiles"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

// Profile returns a copy of the named profile. Custom profiles may not shadow
// the predefined ones.
func (c *Config) Profile(name string) (*Profile, bool) {
	var p Profile
	switch name {
	case "xhtml":
		p = c.Profiles.XHTML
	case "html":
		p = c.Profiles.HTML
	case "xml":
		p = c.Profiles.XML
	case "plain":
		p = c.Profiles.Plain
	default:
		custom, ok := c.Profiles.Custom[name]
		if !ok {
			return nil, false
		}
		p = custom
	}
	return &p, true
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
