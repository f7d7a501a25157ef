package release

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"wty/internal/errs"
	"wty/internal/report"
)

// ExtractIndexes copies the index.json out of every dictionary zip under
// dictDir into indexDir as <stem>-index.json. The flattened copies serve as
// direct URLs for the dictionary update machinery, so the per-language
// folder structure is intentionally dropped.
func ExtractIndexes(dictDir, indexDir string, log *report.Logger) error {
	if _, err := os.Stat(dictDir); err != nil {
		return errs.Wrap(errs.ErrNotFound, "release", "indexes", "dictionary directory missing", err)
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "release", "indexes", "create index directory", err)
	}

	log.Event("index", "Extracting indexes...")
	count := 0

	err := filepath.WalkDir(dictDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".zip") {
			return nil
		}
		if err := extractIndex(path, indexDir); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrExternalTool, "release", "indexes", "extract indexes", err)
	}
	if count == 0 {
		return errs.Wrap(errs.ErrNotFound, "release", "indexes",
			fmt.Sprintf("no dictionaries under %s", dictDir), nil)
	}

	log.Eventf("index", "Extracted %d indexes", count)
	return nil
}

func extractIndex(zipPath, indexDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", zipPath, err)
	}
	defer reader.Close()

	var entry *zip.File
	for _, file := range reader.File {
		if file.Name == "index.json" {
			if entry != nil {
				return fmt.Errorf("multiple index entries in %s", zipPath)
			}
			entry = file
		}
	}
	if entry == nil {
		return fmt.Errorf("no index entry in %s", zipPath)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open index in %s: %w", zipPath, err)
	}
	defer src.Close()

	stem := strings.TrimSuffix(filepath.Base(zipPath), ".zip")
	dstPath := filepath.Join(indexDir, stem+"-index.json")
	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy index to %s: %w", dstPath, err)
	}
	return dst.Close()
}
