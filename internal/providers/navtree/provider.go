package navtree

import (
	"context"
	"fmt"

	"github.com/fieldex/fieldex/internal/types"
)

// Provider exposes menu-tree extraction as registry tools.
type Provider struct {
	fetcher *Fetcher
}

// NewProvider creates a navtree provider
func NewProvider(fetcher *Fetcher) *Provider {
	return &Provider{fetcher: fetcher}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "menu",
		Name:        "Menu Tree",
		Description: "Extract the navigation menu tree from host pages",
		Category:    types.CategoryNav,
		Capabilities: []string{
			"menu_extraction",
			"charset_detection",
			"label_sanitization",
		},
		Tools: []types.Tool{
			{
				ID:          "menu.extract",
				Name:        "Extract Menu Tree",
				Description: "Parse page HTML into a navigation menu tree",
				Parameters: []types.Parameter{
					{Name: "html", Type: "string", Description: "Host page HTML", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "menu.fetch",
				Name:        "Fetch Menu Tree",
				Description: "Fetch a host page and extract its menu tree",
				Parameters: []types.Parameter{
					{Name: "url", Type: "string", Description: "Host page URL", Required: true},
				},
				Returns: "array",
			},
		},
	}
}

// Execute runs a menu tool
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "menu.extract":
		html, ok := params["html"].(string)
		if !ok {
			return Failure("html parameter required")
		}
		return p.extract(html)
	case "menu.fetch":
		url, ok := params["url"].(string)
		if !ok {
			return Failure("url parameter required")
		}
		html, err := p.fetcher.FetchPage(ctx, url)
		if err != nil {
			return Failure(err.Error())
		}
		return p.extract(html)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) extract(html string) (*types.Result, error) {
	if !HasNavigation(html) {
		return Failure("page has no navigation section")
	}
	tree, err := Extract(html)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"tree":  tree,
		"count": len(tree),
	})
}
