package navhide

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/fieldex/fieldex/internal/types"
)

// GlobalScope is the scope name covering every tenant.
const GlobalScope = "all"

// Item is one hidden navigation entry. Key prefers the automation id and
// falls back to the label; an item with neither cannot be hidden.
type Item struct {
	Key          string `json:"key"`
	AutomationID string `json:"id"`
	Label        string `json:"label"`
}

// ItemKey derives the storage key for a menu item.
func ItemKey(automationID, label string) string {
	if automationID != "" {
		return automationID
	}
	return label
}

// UnmarshalJSON accepts both the current object shape and the legacy
// bare-string shape, which becomes a key with no metadata. Normalization
// happens only here, at the storage boundary.
func (it *Item) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := sonic.Unmarshal(data, &legacy); err == nil {
		*it = Item{Key: legacy, AutomationID: legacy, Label: ""}
		return nil
	}
	var obj struct {
		Key          string `json:"key"`
		AutomationID string `json:"id"`
		Label        string `json:"label"`
	}
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid hide entry: %w", err)
	}
	*it = Item(obj)
	return nil
}

// Success creates a success result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failure result
func Failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
