package visa

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// CatalogFile is the on-disk JSON form of a visa catalog.
type CatalogFile struct {
	Version string       `json:"version"`
	Visas   []Definition `json:"visas"`
}

func ReadCatalog(r io.Reader) ([]Definition, error) {
	var file CatalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode visa catalog: %w", err)
	}
	if len(file.Visas) == 0 {
		return nil, fmt.Errorf("visa catalog contains no visas")
	}
	return file.Visas, nil
}

func LoadCatalogFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open visa catalog: %w", err)
	}
	defs, err := ReadCatalog(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, f.Close()
}

func WriteCatalog(w io.Writer, version string, defs []Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(CatalogFile{Version: version, Visas: defs})
}

// LoadKnowledgeBase builds the knowledge base from path, or from the built-in
// catalog when path is empty.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return NewDefault(), nil
	}
	defs, err := LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	return New(defs)
}
