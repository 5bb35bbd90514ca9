package record

import (
	"context"
	"fmt"

	core "github.com/fieldex/fieldex/internal/record"
	"github.com/fieldex/fieldex/internal/types"
)

// Provider exposes the record pipeline as registry tools: decoding raw
// XML, classifying fields, filtering, deep search, and exports.
type Provider struct{}

// NewProvider creates a record provider
func NewProvider() *Provider {
	return &Provider{}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "record",
		Name:        "Record Tools",
		Description: "Decode, classify, filter, search, and export ERP record XML",
		Category:    types.CategoryRecord,
		Capabilities: []string{
			"xml_decoding",
			"field_classification",
			"field_filtering",
			"deep_search",
			"json_export",
			"csv_export",
		},
		Tools: []types.Tool{
			{
				ID:          "record.decode",
				Name:        "Decode Record",
				Description: "Decode record XML into structured fields and sublists",
				Parameters: []types.Parameter{
					{Name: "xml", Type: "string", Description: "Record XML text", Required: true},
					{Name: "filter", Type: "string", Description: "Field filter: all, custom, or standard", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "record.classify",
				Name:        "Classify Field",
				Description: "Infer a field's display type from its key and value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Field key", Required: true},
					{Name: "value", Type: "string", Description: "Field value", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "record.search",
				Name:        "Search Record",
				Description: "Deep-filter a record by a case-insensitive term",
				Parameters: []types.Parameter{
					{Name: "xml", Type: "string", Description: "Record XML text", Required: true},
					{Name: "term", Type: "string", Description: "Search term", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "record.export_json",
				Name:        "Export JSON",
				Description: "Render a record as a two-space-indented JSON document",
				Parameters: []types.Parameter{
					{Name: "xml", Type: "string", Description: "Record XML text", Required: true},
					{Name: "filter", Type: "string", Description: "Field filter: all, custom, or standard", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "record.export_csv",
				Name:        "Export CSV",
				Description: "Render body fields as CSV rows with classified types",
				Parameters: []types.Parameter{
					{Name: "xml", Type: "string", Description: "Record XML text", Required: true},
					{Name: "filter", Type: "string", Description: "Field filter: all, custom, or standard", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a record tool
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "record.decode":
		return p.decode(params)
	case "record.classify":
		return p.classify(params)
	case "record.search":
		return p.search(params)
	case "record.export_json":
		return p.exportJSON(params)
	case "record.export_csv":
		return p.exportCSV(params)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) decodeParam(params map[string]interface{}) (*core.Record, *types.Result) {
	xml, ok := getString(params, "xml")
	if !ok {
		res, _ := Failure("xml parameter required")
		return nil, res
	}
	rec, err := core.Decode(xml)
	if err != nil {
		res, _ := Failure(err.Error())
		return nil, res
	}
	return rec, nil
}

func (p *Provider) decode(params map[string]interface{}) (*types.Result, error) {
	rec, failed := p.decodeParam(params)
	if failed != nil {
		return failed, nil
	}
	mode := core.NormalizeMode(optString(params, "filter"))
	out, err := core.EncodeJSON(rec, mode)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"record":   string(out),
		"filename": core.JSONFilename(rec),
	})
}

func (p *Provider) classify(params map[string]interface{}) (*types.Result, error) {
	key, ok := getString(params, "key")
	if !ok {
		return Failure("key parameter required")
	}
	t := core.Classify(key, core.Scalar(optString(params, "value")))
	return Success(map[string]interface{}{
		"type": string(t),
		"icon": core.TypeIcon(t),
	})
}

func (p *Provider) search(params map[string]interface{}) (*types.Result, error) {
	term, ok := getString(params, "term")
	if !ok {
		return Failure("term parameter required")
	}
	rec, failed := p.decodeParam(params)
	if failed != nil {
		return failed, nil
	}
	out, err := core.EncodeJSON(core.SearchRecord(rec, term), core.FilterAll)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{"record": string(out)})
}

func (p *Provider) exportJSON(params map[string]interface{}) (*types.Result, error) {
	rec, failed := p.decodeParam(params)
	if failed != nil {
		return failed, nil
	}
	mode := core.NormalizeMode(optString(params, "filter"))
	out, err := core.EncodeJSON(rec, mode)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"json":     string(out),
		"filename": core.JSONFilename(rec),
	})
}

func (p *Provider) exportCSV(params map[string]interface{}) (*types.Result, error) {
	rec, failed := p.decodeParam(params)
	if failed != nil {
		return failed, nil
	}
	mode := core.NormalizeMode(optString(params, "filter"))
	out, err := core.EncodeCSV(rec, mode)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(map[string]interface{}{
		"csv":      string(out),
		"filename": core.CSVFilename(rec),
	})
}
