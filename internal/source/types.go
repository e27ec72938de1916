package source

import "github.com/theirongolddev/fcast/internal/model"

// DiscoveredFile represents a model file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // file name without extension
	Group  string // first directory below the scan root, "" at the root
	Format string // viper config type: toml, yaml, or json
}

// ParseResult holds the output of parsing a single model file.
type ParseResult struct {
	Model     model.FinancialModel
	Path      string
	MtimeNs   int64
	SizeBytes int64
	Err       error
}
