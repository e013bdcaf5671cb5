// Package catalog lists and resolves scenario documents: the builtins
// embedded in the binary and the documents kept in a catalog directory.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/poelab/internal/scene"
)

var ErrNotFound = errors.New("catalog: scenario not found")

//go:embed builtin/*.json
var builtinFS embed.FS

// Entry describes one scenario available to the CLI.
type Entry struct {
	Slug        string
	Emoji       string
	Description string
	Title       string
	// Path is empty for builtins.
	Path string
}

func (e Entry) Builtin() bool { return e.Path == "" }

type builtin struct {
	slug        string
	file        string
	emoji       string
	description string
}

var builtins = []builtin{
	{slug: "friction", file: "builtin/friction.json", emoji: "🧊", description: "Explore how friction affects motion"},
	{slug: "third-law", file: "builtin/third-law.json", emoji: "💥", description: "Action-reaction forces in collisions"},
}

// Builtins returns the embedded scenarios in catalog order.
func Builtins() []Entry {
	entries := make([]Entry, 0, len(builtins))
	for _, b := range builtins {
		e := Entry{Slug: b.slug, Emoji: b.emoji, Description: b.description}
		if doc, err := scene.LoadFS(builtinFS, b.file); err == nil {
			e.Title = doc.Scenario.Title
		}
		entries = append(entries, e)
	}
	return entries
}

// BuiltinSource returns the raw JSON of a builtin scenario.
func BuiltinSource(slug string) ([]byte, error) {
	for _, b := range builtins {
		if b.slug == slug {
			return builtinFS.ReadFile(b.file)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// Source is a resolved scenario.
type Source struct {
	Ref string
	Raw []byte
	Doc *scene.Document
	// Path is the file the document came from, empty for builtins.
	Path string
}

// Resolve finds a scenario by file path, builtin slug or catalog slug, in
// that order. A ref ending in .json or containing a path separator is
// always a file path. store may be nil.
func Resolve(ref string, store *Store) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Source{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if isPath(ref) {
		return fromFile(ref, ref)
	}
	if raw, err := BuiltinSource(ref); err == nil {
		return parsed(ref, raw, "")
	}
	if store != nil {
		if path := store.Path(ref); fileExists(path) {
			return fromFile(ref, path)
		}
	}
	return Source{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func isPath(ref string) bool {
	return strings.HasSuffix(strings.ToLower(ref), ".json") || strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/')
}

func fromFile(ref, path string) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Source{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parsed(ref, raw, path)
}

func parsed(ref string, raw []byte, path string) (Source, error) {
	doc, err := scene.Parse(raw)
	if err != nil {
		return Source{}, err
	}
	return Source{Ref: ref, Raw: raw, Doc: doc, Path: path}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
