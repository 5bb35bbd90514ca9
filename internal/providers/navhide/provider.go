package navhide

import (
	"context"
	"fmt"

	"github.com/fieldex/fieldex/internal/types"
)

// Provider exposes hide-list management as registry tools.
type Provider struct {
	manager *Manager
}

// NewProvider creates a navhide provider
func NewProvider(manager *Manager) *Provider {
	return &Provider{manager: manager}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "nav",
		Name:        "Navigation Hiding",
		Description: "Hide navigation menu items globally or per tenant account",
		Category:    types.CategoryNav,
		Capabilities: []string{
			"menu_hiding",
			"scope_merging",
			"tenant_scoping",
		},
		Tools: []types.Tool{
			{
				ID:          "nav.toggle",
				Name:        "Toggle Hidden Item",
				Description: "Hide or show a menu item at a scope",
				Parameters: []types.Parameter{
					{Name: "scope", Type: "string", Description: "\"all\" or a tenant account id", Required: true},
					{Name: "checked", Type: "boolean", Description: "true hides, false shows", Required: true},
					{Name: "automation_id", Type: "string", Description: "Menu item automation id", Required: false},
					{Name: "label", Type: "string", Description: "Menu item label", Required: false},
					{Name: "tenant", Type: "string", Description: "Active tenant account id", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "nav.hidden",
				Name:        "List Hidden Items",
				Description: "Global, tenant, and effective hidden sets",
				Parameters: []types.Parameter{
					{Name: "tenant", Type: "string", Description: "Tenant account id", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "nav.summary",
				Name:        "Hidden Count Summary",
				Description: "Status line describing hidden counts per scope",
				Parameters: []types.Parameter{
					{Name: "tenant", Type: "string", Description: "Tenant account id", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a nav tool
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "nav.toggle":
		return p.toggle(params)
	case "nav.hidden":
		return p.hidden(params)
	case "nav.summary":
		return p.summary(params)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) toggle(params map[string]interface{}) (*types.Result, error) {
	scope, _ := params["scope"].(string)
	if scope == "" {
		return Failure("scope parameter required")
	}
	checked, ok := params["checked"].(bool)
	if !ok {
		return Failure("checked parameter required")
	}
	tenant, _ := params["tenant"].(string)

	item := Item{
		AutomationID: str(params, "automation_id"),
		Label:        str(params, "label"),
	}
	item.Key = ItemKey(item.AutomationID, item.Label)

	if err := p.manager.Toggle(scope, tenant, item, checked); err != nil {
		return Failure(err.Error())
	}
	summary, err := p.manager.Summary(tenant)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"key":     item.Key,
		"checked": checked,
		"summary": summary,
	})
}

func (p *Provider) hidden(params map[string]interface{}) (*types.Result, error) {
	tenant, _ := params["tenant"].(string)

	global, scoped, err := p.manager.Sets(tenant)
	if err != nil {
		return Failure(err.Error())
	}
	effective, err := p.manager.Effective(tenant)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"global":    global,
		"tenant":    scoped,
		"effective": effective,
	})
}

func (p *Provider) summary(params map[string]interface{}) (*types.Result, error) {
	tenant, _ := params["tenant"].(string)
	summary, err := p.manager.Summary(tenant)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"summary": summary})
}

func str(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}
