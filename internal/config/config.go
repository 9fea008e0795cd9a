// Package config provides configuration loading for c2sqlite.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (C2SQLITE_*)
//  3. Config file (.c2sqlite/config.yml, or the file given with --config)
//  4. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: C2SQLITE_
//   - Nested fields: Use underscores (C2SQLITE_STORAGE_DB_PATH)
package config

// Config represents the complete c2sqlite configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Parser  ParserConfig  `yaml:"parser" mapstructure:"parser"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
}

// StorageConfig defines where facts are written.
type StorageConfig struct {
	DBPath         string `yaml:"db_path" mapstructure:"db_path"`                 // SQLite database file
	RemoveExisting bool   `yaml:"remove_existing" mapstructure:"remove_existing"` // delete the database before each run
}

// ParserConfig controls how sources are parsed.
type ParserConfig struct {
	Strict          bool   `yaml:"strict" mapstructure:"strict"`                     // syntax errors are fatal
	DefaultLanguage string `yaml:"default_language" mapstructure:"default_language"` // "c", "cpp" or "" for unknown extensions
}

// PathsConfig defines which files a directory argument expands to.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for source files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath:         "test.db",
			RemoveExisting: true,
		},
		Parser: ParserConfig{
			Strict:          false,
			DefaultLanguage: "",
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.c",
				"**/*.h",
				"**/*.cc",
				"**/*.cpp",
				"**/*.cxx",
				"**/*.hh",
				"**/*.hpp",
				"**/*.hxx",
			},
			Ignore: []string{
				".git/**",
				"build/**",
				"third_party/**",
			},
		},
	}
}
