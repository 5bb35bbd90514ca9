package navhide

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	return NewManager(store)
}

func TestToggleHideAndShow(t *testing.T) {
	m := newTestManager(t)
	item := Item{AutomationID: "nav-reports", Label: "Reports"}

	if err := m.Toggle("T1", "T1", item, true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	effective, err := m.Effective("T1")
	if err != nil {
		t.Fatalf("effective failed: %v", err)
	}
	if len(effective) != 1 || effective[0].Key != "nav-reports" {
		t.Fatalf("unexpected effective set: %+v", effective)
	}

	if err := m.Toggle("T1", "T1", item, false); err != nil {
		t.Fatalf("untoggle failed: %v", err)
	}
	effective, _ = m.Effective("T1")
	if len(effective) != 0 {
		t.Errorf("expected empty effective set, got %+v", effective)
	}
}

func TestToggleKeyFallsBackToLabel(t *testing.T) {
	m := newTestManager(t)

	if err := m.Toggle(GlobalScope, "", Item{Label: "Reports"}, true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	global, _, err := m.Sets("")
	if err != nil {
		t.Fatalf("sets failed: %v", err)
	}
	if len(global) != 1 || global[0].Key != "Reports" {
		t.Fatalf("unexpected global set: %+v", global)
	}

	if err := m.Toggle(GlobalScope, "", Item{}, true); err == nil {
		t.Error("expected keyless item to be rejected")
	}
}

func TestGlobalCheckStripsTenantDuplicate(t *testing.T) {
	m := newTestManager(t)
	item := Item{AutomationID: "K1"}

	if err := m.Toggle("T1", "T1", item, true); err != nil {
		t.Fatalf("tenant toggle failed: %v", err)
	}
	if err := m.Toggle(GlobalScope, "T1", item, true); err != nil {
		t.Fatalf("global toggle failed: %v", err)
	}

	global, scoped, err := m.Sets("T1")
	if err != nil {
		t.Fatalf("sets failed: %v", err)
	}
	if len(global) != 1 || global[0].Key != "K1" {
		t.Errorf("expected global={K1}, got %+v", global)
	}
	if len(scoped) != 0 {
		t.Errorf("expected tenant set emptied, got %+v", scoped)
	}

	effective, _ := m.Effective("T1")
	if len(effective) != 1 || effective[0].Key != "K1" {
		t.Errorf("effective set must still contain K1: %+v", effective)
	}
}

func TestTenantCheckRejectedWhenGloballyHidden(t *testing.T) {
	m := newTestManager(t)
	item := Item{AutomationID: "K1"}

	if err := m.Toggle(GlobalScope, "", item, true); err != nil {
		t.Fatalf("global toggle failed: %v", err)
	}
	if err := m.Toggle("T1", "T1", item, true); err == nil {
		t.Error("expected tenant check of globally hidden key to be rejected")
	}

	// Unchecking at tenant scope stays allowed and touches only that scope.
	if err := m.Toggle("T1", "T1", item, false); err != nil {
		t.Errorf("tenant uncheck failed: %v", err)
	}
	global, _, _ := m.Sets("T1")
	if len(global) != 1 {
		t.Errorf("global set must be untouched, got %+v", global)
	}
}

func TestLegacyStringEntriesNormalized(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`["oldkey", {"key":"newkey","id":"auto-1","label":"New"}, {"label":"no key"}]`)
	if err := os.WriteFile(filepath.Join(dir, "navHide_all.json"), raw, 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	items, err := store.Load(GlobalScope)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected keyless entry dropped, got %+v", items)
	}
	if items[0].Key != "oldkey" || items[0].AutomationID != "oldkey" || items[0].Label != "" {
		t.Errorf("legacy entry not normalized: %+v", items[0])
	}
	if items[1].AutomationID != "auto-1" {
		t.Errorf("object entry mangled: %+v", items[1])
	}
}

func TestSummary(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Summary("T1")
	if err != nil {
		t.Fatal(err)
	}
	if s != "No menu items hidden" {
		t.Errorf("unexpected empty summary: %s", s)
	}

	m.Toggle(GlobalScope, "", Item{AutomationID: "a"}, true)
	m.Toggle(GlobalScope, "", Item{AutomationID: "b"}, true)
	m.Toggle("T1", "T1", Item{AutomationID: "c"}, true)

	s, _ = m.Summary("T1")
	if s != "Hiding 2 global + 1 account menu items" {
		t.Errorf("unexpected summary: %s", s)
	}

	s, _ = m.Summary("")
	if s != "Hiding 2 global menu items" {
		t.Errorf("unexpected global-only summary: %s", s)
	}
}

func TestStoreScopes(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m := NewManager(store)
	m.Toggle(GlobalScope, "", Item{AutomationID: "a"}, true)
	m.Toggle("T1", "T1", Item{AutomationID: "b"}, true)

	scopes, err := store.Scopes()
	if err != nil {
		t.Fatalf("scopes failed: %v", err)
	}
	if len(scopes) != 2 {
		t.Errorf("expected 2 scopes, got %v", scopes)
	}
}

func TestProviderToggle(t *testing.T) {
	m := newTestManager(t)
	p := NewProvider(m)
	ctx := context.Background()

	result, err := p.Execute(ctx, "nav.toggle", map[string]interface{}{
		"scope":         GlobalScope,
		"checked":       true,
		"automation_id": "nav-lists",
		"label":         "Lists",
		"tenant":        "T1",
	}, nil)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %v", *result.Error)
	}
	if result.Data["key"].(string) != "nav-lists" {
		t.Errorf("unexpected key: %v", result.Data["key"])
	}

	result, _ = p.Execute(ctx, "nav.hidden", map[string]interface{}{"tenant": "T1"}, nil)
	if !result.Success {
		t.Fatal("nav.hidden failed")
	}
	if len(result.Data["global"].([]Item)) != 1 {
		t.Errorf("unexpected global set: %+v", result.Data["global"])
	}

	result, _ = p.Execute(ctx, "nav.toggle", map[string]interface{}{"scope": GlobalScope}, nil)
	if result.Success {
		t.Error("expected missing checked param to fail")
	}
}
