package config

import (
	"strings"

	"github.com/mvp-joe/c2sqlite/internal/indexer"
)

// ToIndexerConfig converts a Config to an indexer.Config.
func (c *Config) ToIndexerConfig(toolVersion string) *indexer.Config {
	return &indexer.Config{
		DBPath:          c.Storage.DBPath,
		RemoveExisting:  c.Storage.RemoveExisting,
		Strict:          c.Parser.Strict,
		DefaultLanguage: strings.ToLower(c.Parser.DefaultLanguage),
		CodePatterns:    c.Paths.Code,
		IgnorePatterns:  c.Paths.Ignore,
		ToolVersion:     toolVersion,
	}
}
