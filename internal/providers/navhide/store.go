package navhide

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
)

const (
	filePrefix = "navHide_"
	fileSuffix = ".json"
)

// Store persists one hide list per scope as a JSON file under a root
// directory. Every write replaces the scope's whole list; there is no
// partial update.
type Store struct {
	root string
}

// NewStore creates a hide-list store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create hide store root: %w", err)
	}
	return &Store{root: dir}, nil
}

func (s *Store) path(scope string) string {
	return filepath.Join(s.root, filePrefix+scope+fileSuffix)
}

// Load reads a scope's hide list. A missing file is an empty list.
// Entries without a key are dropped.
func (s *Store) Load(scope string) ([]Item, error) {
	data, err := os.ReadFile(s.path(scope))
	if os.IsNotExist(err) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hide list %s: %w", scope, err)
	}

	var items []Item
	if err := sonic.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode hide list %s: %w", scope, err)
	}

	kept := items[:0]
	for _, it := range items {
		if it.Key != "" {
			kept = append(kept, it)
		}
	}
	return kept, nil
}

// Save rewrites a scope's hide list in full.
func (s *Store) Save(scope string, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := sonic.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode hide list %s: %w", scope, err)
	}
	if err := os.WriteFile(s.path(scope), data, 0o644); err != nil {
		return fmt.Errorf("write hide list %s: %w", scope, err)
	}
	return nil
}

// Scopes lists every scope with a persisted hide list.
func (s *Store) Scopes() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(s.root), filePrefix+"*"+fileSuffix)
	if err != nil {
		return nil, fmt.Errorf("list hide scopes: %w", err)
	}
	scopes := make([]string, 0, len(matches))
	for _, m := range matches {
		scope := strings.TrimSuffix(strings.TrimPrefix(m, filePrefix), fileSuffix)
		if scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes, nil
}
