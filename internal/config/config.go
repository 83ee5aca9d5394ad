package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Output
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`

	// Input parsing
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"` // "tab"|","|";"

	// Column names in the source header. BOLD-style defaults.
	ProcessIDColumn string `mapstructure:"process_id_column" yaml:"process_id_column"`
	SpeciesColumn   string `mapstructure:"species_column" yaml:"species_column"`
	LatColumn       string `mapstructure:"lat_column" yaml:"lat_column"`
	LonColumn       string `mapstructure:"lon_column" yaml:"lon_column"`
	CountryColumn   string `mapstructure:"country_column" yaml:"country_column"`

	// Year derivation. The process id's two-digit suffix is added to
	// CenturyBase; derived years outside [YearMin, YearMax] reject the row.
	CenturyBase int `mapstructure:"century_base" yaml:"century_base"`
	YearMin     int `mapstructure:"year_min" yaml:"year_min"`
	YearMax     int `mapstructure:"year_max" yaml:"year_max"`

	// Charts
	TopSpecies int `mapstructure:"top_species" yaml:"top_species"`

	// Animation
	AnimationDurationSec int      `mapstructure:"animation_duration_sec" yaml:"animation_duration_sec"`
	AnimationFPS         int      `mapstructure:"animation_fps" yaml:"animation_fps"`
	AnimationFormats     []string `mapstructure:"animation_formats" yaml:"animation_formats"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.occatlas/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".occatlas")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("OCCATLAS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("out_dir", "charts")
	v.SetDefault("delimiter", "tab")
	v.SetDefault("process_id_column", "processid")
	v.SetDefault("species_column", "species_name")
	v.SetDefault("lat_column", "lat")
	v.SetDefault("lon_column", "lon")
	v.SetDefault("country_column", "country")
	v.SetDefault("century_base", 2000)
	v.SetDefault("year_min", 2000)
	v.SetDefault("year_max", 2099)
	v.SetDefault("top_species", 15)
	// Animation defaults: 20 seconds at 10 frames/second
	v.SetDefault("animation_duration_sec", 20)
	v.SetDefault("animation_fps", 10)
	v.SetDefault("animation_formats", []string{"gif", "avi"})

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".occatlas")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// DelimiterRune maps the configured delimiter name to its rune.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "", "tab", "\t":
		return '\t', nil
	case ",", "comma":
		return ',', nil
	case ";":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use 'tab'|','|';')", c.Delimiter)
	}
}
