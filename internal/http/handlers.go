package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/fieldex/fieldex/internal/api/middleware"
	"github.com/fieldex/fieldex/internal/fetch"
	"github.com/fieldex/fieldex/internal/logging"
	"github.com/fieldex/fieldex/internal/monitoring"
	"github.com/fieldex/fieldex/internal/providers/navhide"
	"github.com/fieldex/fieldex/internal/providers/navtree"
	"github.com/fieldex/fieldex/internal/record"
	"github.com/fieldex/fieldex/internal/service"
	"github.com/fieldex/fieldex/internal/types"
)

// Version is the API version reported by the root and health endpoints.
const Version = "1.0.0"

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	registry *service.Registry
	fetcher  *fetch.Client
	pages    *navtree.Fetcher
	nav      *navhide.Manager
	metrics  *monitoring.Metrics
	log      *logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(
	registry *service.Registry,
	fetcher *fetch.Client,
	pages *navtree.Fetcher,
	nav *navhide.Manager,
	metrics *monitoring.Metrics,
	log *logging.Logger,
) *Handlers {
	return &Handlers{
		registry: registry,
		fetcher:  fetcher,
		pages:    pages,
		nav:      nav,
		metrics:  metrics,
		log:      log,
	}
}

// Root handles GET /
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "fieldex",
		"version": Version,
	})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	summary, err := h.nav.Summary("")
	if err != nil {
		summary = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fieldex",
		"version": Version,
		"components": gin.H{
			"registry": h.registry.Stats(),
			"nav":      gin.H{"summary": summary},
		},
	})
}

// Inspect handles POST /inspect: fetch a record page's XML view, decode
// it, and return the filtered record with per-field classification.
func (h *Handlers) Inspect(c *gin.Context) {
	var req InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "url is required")
		return
	}
	if !fetch.IsHostPage(req.URL) {
		badRequest(c, "url is not a host page")
		return
	}
	if !fetch.HasRecordID(req.URL) {
		badRequest(c, "url does not point at a record page")
		return
	}

	tenant := fetch.TenantID(req.URL)
	log := h.requestLogger(c, tenant)

	rec, ok := h.fetchRecord(c, log, req.URL)
	if !ok {
		return
	}

	mode := record.NormalizeMode(req.Filter)
	view := record.FilterRecord(rec, mode)
	if req.Search != "" {
		view = record.SearchRecord(view, req.Search)
	}

	encoded, err := record.EncodeJSON(view, record.FilterAll)
	if err != nil {
		serverError(c, log, "encode record", err)
		return
	}
	h.metrics.RecordExport("json")

	log.Info("record inspected",
		zap.String("record_type", rec.RecordType),
		zap.String("record_id", rec.ID),
		zap.String("filter", string(mode)),
		zap.Int("body_fields", view.BodyFieldCount()))

	c.JSON(http.StatusOK, gin.H{
		"record":   json.RawMessage(encoded),
		"types":    fieldTypes(view),
		"filename": record.JSONFilename(rec),
		"tenant":   tenant,
	})
}

// InspectCSV handles POST /inspect/csv: fetch, decode, and stream the
// body fields as a CSV attachment. The response is gzip-compressed when
// the client accepts it.
func (h *Handlers) InspectCSV(c *gin.Context) {
	var req InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "url is required")
		return
	}
	if !fetch.IsHostPage(req.URL) {
		badRequest(c, "url is not a host page")
		return
	}
	if !fetch.HasRecordID(req.URL) {
		badRequest(c, "url does not point at a record page")
		return
	}

	log := h.requestLogger(c, fetch.TenantID(req.URL))
	rec, ok := h.fetchRecord(c, log, req.URL)
	if !ok {
		return
	}

	data, err := record.EncodeCSV(rec, record.NormalizeMode(req.Filter))
	if err != nil {
		serverError(c, log, "encode csv", err)
		return
	}
	h.metrics.RecordExport("csv")

	c.Header("Content-Disposition", `attachment; filename="`+record.CSVFilename(rec)+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	if strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		c.Header("Content-Encoding", "gzip")
		c.Status(http.StatusOK)
		gz := gzip.NewWriter(c.Writer)
		if _, err := gz.Write(data); err != nil {
			log.Error("write csv response", zap.Error(err))
			return
		}
		if err := gz.Close(); err != nil {
			log.Error("flush csv response", zap.Error(err))
		}
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Decode handles POST /record/decode: decode a raw XML payload without
// fetching anything.
func (h *Handlers) Decode(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "xml is required")
		return
	}

	log := h.requestLogger(c, "")
	rec, err := record.Decode(req.XML)
	if err != nil {
		h.metrics.RecordDecode("error")
		unprocessable(c, err.Error())
		return
	}
	h.metrics.RecordDecode("ok")

	mode := record.NormalizeMode(req.Filter)
	encoded, err := record.EncodeJSON(rec, mode)
	if err != nil {
		serverError(c, log, "encode record", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"record":   json.RawMessage(encoded),
		"types":    fieldTypes(record.FilterRecord(rec, mode)),
		"filename": record.JSONFilename(rec),
	})
}

// Search handles POST /record/search: decode a payload and deep-filter
// it by a term.
func (h *Handlers) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "xml and term are required")
		return
	}

	log := h.requestLogger(c, "")
	rec, err := record.Decode(req.XML)
	if err != nil {
		h.metrics.RecordDecode("error")
		unprocessable(c, err.Error())
		return
	}
	h.metrics.RecordDecode("ok")

	found := record.SearchRecord(rec, req.Term)
	encoded, err := record.EncodeJSON(found, record.FilterAll)
	if err != nil {
		serverError(c, log, "encode record", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"record":  json.RawMessage(encoded),
		"matches": found.BodyFieldCount(),
	})
}

// Services handles GET /services
func (h *Handlers) Services(c *gin.Context) {
	if intent := c.Query("intent"); intent != "" {
		limit := 5
		if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
			limit = l
		}
		c.JSON(http.StatusOK, gin.H{"services": h.registry.Discover(intent, limit)})
		return
	}

	var category *types.Category
	if cat := c.Query("category"); cat != "" {
		typed := types.Category(cat)
		category = &typed
	}
	c.JSON(http.StatusOK, gin.H{"services": h.registry.List(category)})
}

// Execute handles POST /services/execute
func (h *Handlers) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "tool_id is required")
		return
	}

	requestID := c.GetString(middleware.RequestIDKey)
	execCtx := &types.Context{RequestID: &requestID}
	if tenant := c.Query("tenant"); tenant != "" {
		execCtx.TenantID = &tenant
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, execCtx)
	if result == nil {
		if err == nil {
			err = errors.New("tool returned no result")
		}
		serverError(c, h.requestLogger(c, ""), "execute tool", err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// NavMenu handles GET /nav/menu: fetch a host page, extract its menu
// tree, and annotate each item with its hidden state.
func (h *Handlers) NavMenu(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		badRequest(c, "url is required")
		return
	}
	if !fetch.IsHostPage(pageURL) {
		badRequest(c, "url is not a host page")
		return
	}

	tenant := fetch.TenantID(pageURL)
	log := h.requestLogger(c, tenant)

	html, err := h.pages.FetchPage(c.Request.Context(), pageURL)
	if err != nil {
		log.Warn("page fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !navtree.HasNavigation(html) {
		unprocessable(c, "page has no navigation section")
		return
	}

	tree, err := navtree.Extract(html)
	if err != nil {
		serverError(c, log, "extract menu", err)
		return
	}

	effective, err := h.nav.Effective(tenant)
	if err != nil {
		serverError(c, log, "load hide sets", err)
		return
	}
	hidden := make(map[string]bool, len(effective))
	for _, it := range effective {
		hidden[it.Key] = true
	}
	tree = navtree.Annotate(tree, hidden)

	summary, err := h.nav.Summary(tenant)
	if err != nil {
		serverError(c, log, "summarize hide sets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tree":    tree,
		"count":   len(tree),
		"tenant":  tenant,
		"summary": summary,
	})
}

// NavHidden handles GET /nav/hidden
func (h *Handlers) NavHidden(c *gin.Context) {
	tenant := c.Query("tenant")
	log := h.requestLogger(c, tenant)

	global, scoped, err := h.nav.Sets(tenant)
	if err != nil {
		serverError(c, log, "load hide sets", err)
		return
	}
	effective, err := h.nav.Effective(tenant)
	if err != nil {
		serverError(c, log, "merge hide sets", err)
		return
	}
	summary, err := h.nav.Summary(tenant)
	if err != nil {
		serverError(c, log, "summarize hide sets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"global":    global,
		"account":   scoped,
		"effective": effective,
		"summary":   summary,
	})
}

// NavToggle handles POST /nav/toggle
func (h *Handlers) NavToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "scope is required")
		return
	}

	log := h.requestLogger(c, req.Tenant)
	item := navhide.Item{Key: req.Key, AutomationID: req.ID, Label: req.Label}
	if err := h.nav.Toggle(req.Scope, req.Tenant, item, req.Checked); err != nil {
		log.Warn("nav toggle rejected", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.metrics.RecordNavToggle(scopeKind(req.Scope), req.Checked)
	h.updateHiddenGauges(req.Tenant)

	summary, err := h.nav.Summary(req.Tenant)
	if err != nil {
		serverError(c, log, "summarize hide sets", err)
		return
	}
	key := req.Key
	if key == "" {
		key = navhide.ItemKey(req.ID, req.Label)
	}
	c.JSON(http.StatusOK, gin.H{
		"key":     key,
		"checked": req.Checked,
		"summary": summary,
	})
}

// fetchRecord runs the fetch+decode pipeline, writing the error response
// itself on failure.
func (h *Handlers) fetchRecord(c *gin.Context, log *logging.Logger, pageURL string) (*record.Record, bool) {
	start := time.Now()
	xml, err := h.fetcher.FetchXML(c.Request.Context(), pageURL)
	if err != nil {
		h.metrics.RecordFetch("error", time.Since(start))
		log.Warn("record fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	}
	h.metrics.RecordFetch("ok", time.Since(start))

	rec, err := record.Decode(xml)
	if err != nil {
		h.metrics.RecordDecode("error")
		log.Warn("record decode failed", zap.Error(err))
		status := http.StatusUnprocessableEntity
		if errors.Is(err, record.ErrEmptyPayload) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	h.metrics.RecordDecode("ok")
	return rec, true
}

func (h *Handlers) requestLogger(c *gin.Context, tenant string) *logging.Logger {
	return h.log.WithRequest(c.GetString(middleware.RequestIDKey), tenant)
}

func (h *Handlers) updateHiddenGauges(tenant string) {
	global, scoped, err := h.nav.Sets(tenant)
	if err != nil {
		return
	}
	h.metrics.NavHiddenItems.WithLabelValues("global").Set(float64(len(global)))
	if tenant != "" {
		h.metrics.NavHiddenItems.WithLabelValues("account").Set(float64(len(scoped)))
	}
}

// fieldTypes classifies every body field of a record view, returning
// the type name and display icon per field key.
func fieldTypes(r *record.Record) map[string]gin.H {
	out := make(map[string]gin.H, r.BodyFieldCount())
	r.BodyFields.Range(func(key string, v record.Value) bool {
		ft := record.Classify(key, v)
		out[key] = gin.H{"type": string(ft), "icon": record.TypeIcon(ft)}
		return true
	})
	return out
}

func scopeKind(scope string) string {
	if scope == navhide.GlobalScope {
		return "global"
	}
	return "account"
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func unprocessable(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
}

func serverError(c *gin.Context, log *logging.Logger, op string, err error) {
	log.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
