// Package pipeline orchestrates model loading, syncing, and parallel
// scenario forecasting.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/source"
)

// FileError records a model file that could not be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

// LoadResult holds the output of loading a model directory.
type LoadResult struct {
	Models      []model.FinancialModel
	TotalFiles  int
	ParsedFiles int
	FileErrors  []FileError
	GroupCount  int
}

// LoadDir discovers and parses all model files under dir using a bounded
// worker pool. Models are returned sorted by name.
func LoadDir(dir string, workers int, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &LoadResult{
		TotalFiles: len(files),
		GroupCount: source.CountGroups(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	parsed := parallel(files, workers, source.ParseFile, progressFn, 0, len(files))
	collect(result, parsed)
	return result, nil
}

func collect(result *LoadResult, parsed []source.ParseResult) {
	for _, pr := range parsed {
		if pr.Err != nil {
			result.FileErrors = append(result.FileErrors, FileError{Path: pr.Path, Err: pr.Err})
			continue
		}
		result.ParsedFiles++
		result.Models = append(result.Models, pr.Model)
	}
	SortByName(result.Models)
}

// SortByName orders models by display name, then ID.
func SortByName(models []model.FinancialModel) {
	sort.SliceStable(models, func(i, j int) bool {
		a, b := models[i].DisplayName(), models[j].DisplayName()
		if a != b {
			return a < b
		}
		return models[i].ID < models[j].ID
	})
}
