package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldex/fieldex/internal/fetch"
	"github.com/fieldex/fieldex/internal/logging"
	"github.com/fieldex/fieldex/internal/monitoring"
	"github.com/fieldex/fieldex/internal/providers/navhide"
	"github.com/fieldex/fieldex/internal/providers/navtree"
	recordprovider "github.com/fieldex/fieldex/internal/providers/record"
	"github.com/fieldex/fieldex/internal/service"
)

// Prometheus collectors register globally, so the test binary shares one
// metrics set.
var testMetrics = monitoring.NewMetrics()

const testXML = `<?xml version="1.0"?>
<record recordType="salesorder" id="42">
  <tranid>SO-1001</tranid>
  <custbody_priority>High</custbody_priority>
  <entity name="Acme Corp">77</entity>
  <machine name="item">
    <line><item>Widget</item><custcol_note>rush</custcol_note></line>
  </machine>
</record>`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := navhide.NewStore(t.TempDir())
	require.NoError(t, err)
	nav := navhide.NewManager(store)
	pages := navtree.NewFetcher(5*time.Second, "fieldex-test/1.0")

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(recordprovider.NewProvider()))
	require.NoError(t, registry.Register(navhide.NewProvider(nav)))
	require.NoError(t, registry.Register(navtree.NewProvider(pages)))

	log := &logging.Logger{Logger: zap.NewNop()}
	h := NewHandlers(registry, fetch.New(5*time.Second, "fieldex-test/1.0"), pages, nav, testMetrics, log)

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/inspect", h.Inspect)
	router.POST("/inspect/csv", h.InspectCSV)
	router.POST("/record/decode", h.Decode)
	router.POST("/record/search", h.Search)
	router.GET("/services", h.Services)
	router.POST("/services/execute", h.Execute)
	router.GET("/nav/hidden", h.NavHidden)
	router.POST("/nav/toggle", h.NavToggle)
	router.GET("/nav/menu", h.NavMenu)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := map[string]interface{}{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/csv; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestRoot(t *testing.T) {
	router := newTestRouter(t)
	w, resp := doJSON(t, router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", resp["status"])
	assert.Equal(t, "fieldex", resp["service"])
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w, resp := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp["status"])

	components := resp["components"].(map[string]interface{})
	registry := components["registry"].(map[string]interface{})
	assert.Equal(t, float64(3), registry["total_services"])
}

func TestInspectValidation(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing url", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/inspect", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-host url", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/inspect", gin.H{
			"url": "https://example.com/app/common/entity/custjob.nl?id=7",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "url is not a host page", resp["error"])
	})

	t.Run("no record id", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/inspect", gin.H{
			"url": "https://demo.app.netsuite.com/app/center/card.nl",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "url does not point at a record page", resp["error"])
	})

	t.Run("csv shares validation", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/inspect/csv", gin.H{
			"url": "https://example.com/?id=7",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecodeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("decodes payload", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/record/decode", gin.H{"xml": testXML})
		require.Equal(t, http.StatusOK, w.Code)

		rec := resp["record"].(map[string]interface{})
		assert.Equal(t, "salesorder", rec["recordType"])
		assert.Equal(t, "42", rec["id"])
		assert.Equal(t, float64(3), rec["bodyFieldCount"])
		assert.Equal(t, "salesorder_42.json", resp["filename"])

		fieldTypes := resp["types"].(map[string]interface{})
		// "tranid" is id-suffixed, so the id rule wins over text.
		tranid := fieldTypes["tranid"].(map[string]interface{})
		assert.Equal(t, "id", tranid["type"])
		assert.Equal(t, "🔑", tranid["icon"])
		priority := fieldTypes["custbody_priority"].(map[string]interface{})
		assert.Equal(t, "text", priority["type"])
	})

	t.Run("custom filter", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/record/decode", gin.H{
			"xml":    testXML,
			"filter": "custom",
		})
		require.Equal(t, http.StatusOK, w.Code)

		rec := resp["record"].(map[string]interface{})
		assert.Equal(t, float64(1), rec["bodyFieldCount"])
		body := rec["bodyFields"].(map[string]interface{})
		assert.Contains(t, body, "custbody_priority")
	})

	t.Run("unparseable payload", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/record/decode", gin.H{"xml": "<html>login</html>"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "could not parse record data", resp["error"])
	})
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w, resp := doJSON(t, router, http.MethodPost, "/record/search", gin.H{
		"xml":  testXML,
		"term": "acme",
	})
	require.Equal(t, http.StatusOK, w.Code)

	rec := resp["record"].(map[string]interface{})
	body := rec["bodyFields"].(map[string]interface{})
	assert.Contains(t, body, "entity")
	assert.NotContains(t, body, "tranid")
	assert.Equal(t, float64(1), resp["matches"])
}

func TestServicesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("lists all", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodGet, "/services", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, resp["services"], 3)
	})

	t.Run("filters by category", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodGet, "/services?category=record", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, resp["services"], 1)
	})

	t.Run("discovers by intent", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodGet, "/services?intent=decode+a+record", nil)
		require.Equal(t, http.StatusOK, w.Code)
		services := resp["services"].([]interface{})
		require.NotEmpty(t, services)
		first := services[0].(map[string]interface{})
		assert.Equal(t, "record", first["id"])
	})
}

func TestExecuteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("runs a tool", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/services/execute", gin.H{
			"tool_id": "record.classify",
			"params":  gin.H{"key": "internalid", "value": "42"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "id", data["type"])
	})

	t.Run("unknown service", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/services/execute", gin.H{
			"tool_id": "nosuch.tool",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, resp["success"])
	})
}

func TestNavEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("toggle then list", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodPost, "/nav/toggle", gin.H{
			"scope":   "all",
			"id":      "menu-reports",
			"label":   "Reports",
			"checked": true,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "menu-reports", resp["key"])
		assert.Equal(t, "Hiding 1 global menu items", resp["summary"])

		w, resp = doJSON(t, router, http.MethodGet, "/nav/hidden", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, resp["global"], 1)
		assert.Len(t, resp["effective"], 1)
	})

	t.Run("tenant toggle conflicts with global", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/nav/toggle", gin.H{
			"scope":   "acme",
			"tenant":  "acme",
			"id":      "menu-reports",
			"checked": true,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("menu requires host url", func(t *testing.T) {
		w, resp := doJSON(t, router, http.MethodGet, "/nav/menu?url=https://example.com/", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "url is not a host page", resp["error"])
	})
}
