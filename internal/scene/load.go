package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var ErrEmptyDocument = errors.New("scene: empty document")

// Parse decodes a scenario document. Structural validation is the job of
// the validate package; Parse only rejects bytes that are not a document.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse document: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// LoadFS reads a document from fsys.
func LoadFS(fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return doc, nil
}

// Save writes doc as indented JSON.
func Save(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Body returns the spec with the given id and whether it is static.
func (d *Document) Body(id string) (BodySpec, bool, bool) {
	for _, b := range d.Physics.Statics {
		if b.ID == id {
			return b, true, true
		}
	}
	for _, b := range d.Physics.Dynamics {
		if b.ID == id {
			return b, false, true
		}
	}
	return BodySpec{}, false, false
}
