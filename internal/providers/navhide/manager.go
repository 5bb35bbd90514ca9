package navhide

import (
	"fmt"
	"sync"
)

// Manager applies the hide-set merge rules over the store. One mutator at
// a time; the mutex serializes toggles from concurrent API calls.
type Manager struct {
	store *Store
	mu    sync.Mutex
}

// NewManager creates a hide-set manager.
func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// Toggle hides or shows one menu item at a scope. Tenant names the active
// account and may be empty for global-only sessions.
//
// Checking at tenant scope is rejected while the key is globally hidden;
// those entries render checked and disabled, not editable. Checking at
// global scope strips the tenant's duplicate so the same key is never
// stored twice. Unchecking removes from the named scope only.
func (m *Manager) Toggle(scope, tenant string, item Item, checked bool) error {
	if item.Key == "" {
		item.Key = ItemKey(item.AutomationID, item.Label)
	}
	if item.Key == "" {
		return fmt.Errorf("menu item has no automation id or label")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if checked && scope != GlobalScope {
		hidden, err := m.globallyHidden(item.Key)
		if err != nil {
			return err
		}
		if hidden {
			return fmt.Errorf("key %q is hidden globally", item.Key)
		}
	}

	items, err := m.store.Load(scope)
	if err != nil {
		return err
	}

	if checked {
		items = upsert(items, item)
	} else {
		items = remove(items, item.Key)
	}
	if err := m.store.Save(scope, items); err != nil {
		return err
	}

	if checked && scope == GlobalScope && tenant != "" {
		return m.stripTenantDuplicate(tenant, item.Key)
	}
	return nil
}

// stripTenantDuplicate drops a key from the tenant list after it was
// hidden globally, persisting only when something changed.
func (m *Manager) stripTenantDuplicate(tenant, key string) error {
	items, err := m.store.Load(tenant)
	if err != nil {
		return err
	}
	stripped := remove(items, key)
	if len(stripped) == len(items) {
		return nil
	}
	return m.store.Save(tenant, stripped)
}

func (m *Manager) globallyHidden(key string) (bool, error) {
	global, err := m.store.Load(GlobalScope)
	if err != nil {
		return false, err
	}
	for _, it := range global {
		if it.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func upsert(items []Item, item Item) []Item {
	for i, it := range items {
		if it.Key == item.Key {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove(items []Item, key string) []Item {
	out := items[:0]
	for _, it := range items {
		if it.Key != key {
			out = append(out, it)
		}
	}
	return out
}

// Sets returns the global and tenant hide lists.
func (m *Manager) Sets(tenant string) (global, scoped []Item, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	global, err = m.store.Load(GlobalScope)
	if err != nil {
		return nil, nil, err
	}
	scoped = []Item{}
	if tenant != "" {
		scoped, err = m.store.Load(tenant)
		if err != nil {
			return nil, nil, err
		}
	}
	return global, scoped, nil
}

// Effective returns the union of global and tenant hidden keys, global
// entries first.
func (m *Manager) Effective(tenant string) ([]Item, error) {
	global, scoped, err := m.Sets(tenant)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(global))
	out := make([]Item, 0, len(global)+len(scoped))
	for _, it := range global {
		seen[it.Key] = true
		out = append(out, it)
	}
	for _, it := range scoped {
		if !seen[it.Key] {
			seen[it.Key] = true
			out = append(out, it)
		}
	}
	return out, nil
}

// Summary renders the hidden-count status line for a tenant.
func (m *Manager) Summary(tenant string) (string, error) {
	global, scoped, err := m.Sets(tenant)
	if err != nil {
		return "", err
	}

	parts := []string{}
	if len(global) > 0 {
		parts = append(parts, fmt.Sprintf("%d global", len(global)))
	}
	if len(scoped) > 0 {
		parts = append(parts, fmt.Sprintf("%d account", len(scoped)))
	}
	if len(parts) == 0 {
		return "No menu items hidden", nil
	}
	out := "Hiding " + parts[0]
	if len(parts) == 2 {
		out += " + " + parts[1]
	}
	return out + " menu items", nil
}
