package release

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wty/internal/errs"
	"wty/internal/report"
)

func writeDictZip(t *testing.T, path string, withIndex bool) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if withIndex {
		w, err := zw.Create("index.json")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(`{"title": "test"}`)); err != nil {
			t.Fatal(err)
		}
	}
	w, err := zw.Create("term_bank_1.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractIndexes(t *testing.T) {
	root := t.TempDir()
	dictDir := filepath.Join(root, "dict")
	indexDir := filepath.Join(root, "index")

	writeDictZip(t, filepath.Join(dictDir, "nb", "ru", "kty-nb-ru.zip"), true)
	writeDictZip(t, filepath.Join(dictDir, "el", "ja", "kty-el-ja-ipa.zip"), true)

	var out bytes.Buffer
	log := report.NewLogger(&out, nil)
	if err := ExtractIndexes(dictDir, indexDir, log); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"kty-nb-ru-index.json", "kty-el-ja-ipa-index.json"} {
		data, err := os.ReadFile(filepath.Join(indexDir, name))
		if err != nil {
			t.Errorf("missing extracted index %s: %v", name, err)
			continue
		}
		if !strings.Contains(string(data), `"title"`) {
			t.Errorf("index %s content = %q", name, string(data))
		}
	}
	if !strings.Contains(out.String(), "Extracted 2 indexes") {
		t.Errorf("missing count line:\n%s", out.String())
	}
}

func TestExtractIndexesRejectsMissingIndex(t *testing.T) {
	root := t.TempDir()
	dictDir := filepath.Join(root, "dict")
	writeDictZip(t, filepath.Join(dictDir, "el", "ja", "kty-el-ja.zip"), false)

	log := report.NewLogger(nil, nil)
	err := ExtractIndexes(dictDir, filepath.Join(root, "index"), log)
	if err == nil || !strings.Contains(err.Error(), "no index entry") {
		t.Fatalf("err = %v, want missing index failure", err)
	}
}

func TestExtractIndexesMissingDictDir(t *testing.T) {
	root := t.TempDir()
	log := report.NewLogger(nil, nil)
	if err := ExtractIndexes(filepath.Join(root, "absent"), filepath.Join(root, "index"), log); err == nil {
		t.Fatal("expected error for missing dictionary directory")
	}
}

func TestExtractIndexesRejectsEmptyDictDir(t *testing.T) {
	root := t.TempDir()
	dictDir := filepath.Join(root, "dict")
	if err := os.MkdirAll(filepath.Join(dictDir, "el"), 0o755); err != nil {
		t.Fatal(err)
	}

	log := report.NewLogger(nil, nil)
	err := ExtractIndexes(dictDir, filepath.Join(root, "index"), log)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for a dict tree with no zips", err)
	}
}
