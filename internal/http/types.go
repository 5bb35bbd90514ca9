package http

// InspectRequest asks for a record page to be fetched and decoded.
type InspectRequest struct {
	URL    string `json:"url" binding:"required"`
	Filter string `json:"filter"`
	Search string `json:"search"`
}

// DecodeRequest asks for a raw XML payload to be decoded.
type DecodeRequest struct {
	XML    string `json:"xml" binding:"required"`
	Filter string `json:"filter"`
}

// SearchRequest deep-filters a decoded payload by a term.
type SearchRequest struct {
	XML  string `json:"xml" binding:"required"`
	Term string `json:"term" binding:"required"`
}

// ExecuteRequest runs a registered service tool.
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// ToggleRequest hides or shows one menu item at a scope. Key may be
// supplied directly or derived from the automation id and label.
type ToggleRequest struct {
	Scope   string `json:"scope" binding:"required"`
	Tenant  string `json:"tenant"`
	Key     string `json:"key"`
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}
