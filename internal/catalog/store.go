package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/poelab/internal/scene"
)

const ext = ".json"

// Store is a directory of scenario documents, one <slug>.json per scenario.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Path(slug string) string {
	return filepath.Join(s.baseDir, slug+ext)
}

// Save writes doc under slug, replacing any previous document.
func (s *Store) Save(slug string, doc *scene.Document) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	path := s.Path(slug)
	if err := scene.Save(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the documents in the directory sorted by slug. Files that
// do not parse are skipped; a missing directory is an empty catalog.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	list := make([]Entry, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		doc, err := scene.Load(path)
		if err != nil {
			continue
		}
		list = append(list, Entry{
			Slug:        strings.TrimSuffix(entry.Name(), ext),
			Emoji:       "📄",
			Description: doc.Education.Concept,
			Title:       doc.Scenario.Title,
			Path:        path,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Slug < list[j].Slug })
	return list, nil
}

func (s *Store) Load(slug string) (*scene.Document, error) {
	return scene.Load(s.Path(slug))
}
