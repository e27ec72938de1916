package pipeline

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/fcast/internal/source"
	"github.com/theirongolddev/fcast/internal/store"
)

// SyncResult extends LoadResult with change-tracking metadata.
type SyncResult struct {
	LoadResult
	Unchanged int
	Reparsed  int
	Removed   int
}

// SyncDir imports the model files under dir into st. Only files whose mtime
// or size changed since the last sync are reparsed; models whose files have
// disappeared are deleted. Returned models include unchanged ones read back
// from the store.
func SyncDir(dir string, st *store.Store, workers int, progressFn ProgressFunc) (*SyncResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading file tracker: %w", err)
	}

	result := &SyncResult{
		LoadResult: LoadResult{
			TotalFiles: len(files),
			GroupCount: source.CountGroups(files),
		},
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	var unchangedIDs []string
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchangedIDs = append(unchangedIDs, cached.ModelID)
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path, fi := range tracked {
		if _, ok := seen[path]; ok {
			continue
		}
		if err := st.DeleteModel(fi.ModelID); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("removing model of deleted file")
		}
		if err := st.DeleteFileTracker(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("removing tracker of deleted file")
		}
		result.Removed++
	}

	result.Unchanged = len(unchangedIDs)
	result.Reparsed = len(toReparse)

	for _, id := range unchangedIDs {
		m, err := st.GetModel(id)
		if err != nil {
			return nil, fmt.Errorf("loading stored model: %w", err)
		}
		result.Models = append(result.Models, m)
		result.ParsedFiles++
	}

	parsed := parallel(toReparse, workers, source.ParseFile, progressFn, result.Unchanged, result.TotalFiles)
	for _, pr := range parsed {
		if pr.Err != nil {
			result.FileErrors = append(result.FileErrors, FileError{Path: pr.Path, Err: pr.Err})
			continue
		}
		saved, err := st.SaveImportedModel(pr.Model, pr.Path, store.FileInfo{
			MtimeNs:   pr.MtimeNs,
			SizeBytes: pr.SizeBytes,
		})
		if err != nil {
			return nil, fmt.Errorf("saving %s: %w", pr.Path, err)
		}
		result.ParsedFiles++
		result.Models = append(result.Models, saved)
	}

	SortByName(result.Models)
	return result, nil
}
