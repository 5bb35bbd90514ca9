package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fieldex/fieldex/internal/fetch"
	"github.com/fieldex/fieldex/internal/logging"
	"github.com/fieldex/fieldex/internal/monitoring"
	"github.com/fieldex/fieldex/internal/record"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Request is an inbound inspect request on the stream.
type Request struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Filter string `json:"filter"`
}

// Event is an outbound message. Stage is one of "fetching", "decoded",
// "record", or "error".
type Event struct {
	Stage    string          `json:"stage"`
	URL      string          `json:"url,omitempty"`
	Summary  *Summary        `json:"summary,omitempty"`
	Record   json.RawMessage `json:"record,omitempty"`
	Filename string          `json:"filename,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Summary describes a decoded record without its field data.
type Summary struct {
	RecordType     string `json:"recordType"`
	ID             string `json:"id"`
	BodyFieldCount int    `json:"bodyFieldCount"`
	SublistCount   int    `json:"sublistCount"`
}

// conn serializes writes to one WebSocket connection. The library allows
// a single concurrent writer, and events race with keepalive pings.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

// Handler streams record inspection over a WebSocket: one request in,
// staged events out, so clients can show progress on slow hosts.
type Handler struct {
	fetcher *fetch.Client
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewHandler creates a WebSocket inspect handler.
func NewHandler(fetcher *fetch.Client, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{fetcher: fetcher, metrics: metrics, log: log}
}

// Serve handles GET /stream
func (h *Handler) Serve(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	h.metrics.WSConnections.Inc()
	defer h.metrics.WSConnections.Dec()

	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	cn := &conn{ws: ws}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go h.ping(ctx, cn)

	for {
		var req Request
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		ws.SetReadDeadline(time.Now().Add(pongWait))

		if req.Type != "inspect" {
			h.send(cn, Event{Stage: "error", Error: "unknown request type"})
			continue
		}
		h.inspect(ctx, cn, req)
	}
}

func (h *Handler) inspect(ctx context.Context, cn *conn, req Request) {
	if !fetch.IsHostPage(req.URL) || !fetch.HasRecordID(req.URL) {
		h.send(cn, Event{Stage: "error", URL: req.URL, Error: "url is not a host record page"})
		return
	}
	h.send(cn, Event{Stage: "fetching", URL: req.URL})

	start := time.Now()
	xml, err := h.fetcher.FetchXML(ctx, req.URL)
	if err != nil {
		h.metrics.RecordFetch("error", time.Since(start))
		h.send(cn, Event{Stage: "error", URL: req.URL, Error: err.Error()})
		return
	}
	h.metrics.RecordFetch("ok", time.Since(start))

	rec, err := record.Decode(xml)
	if err != nil {
		h.metrics.RecordDecode("error")
		h.send(cn, Event{Stage: "error", URL: req.URL, Error: err.Error()})
		return
	}
	h.metrics.RecordDecode("ok")

	view := record.FilterRecord(rec, record.NormalizeMode(req.Filter))
	h.send(cn, Event{Stage: "decoded", URL: req.URL, Summary: &Summary{
		RecordType:     rec.RecordType,
		ID:             rec.ID,
		BodyFieldCount: view.BodyFieldCount(),
		SublistCount:   view.SublistCount(),
	}})

	encoded, err := record.EncodeJSON(view, record.FilterAll)
	if err != nil {
		h.send(cn, Event{Stage: "error", URL: req.URL, Error: err.Error()})
		return
	}
	h.send(cn, Event{
		Stage:    "record",
		URL:      req.URL,
		Record:   encoded,
		Filename: record.JSONFilename(rec),
	})
}

func (h *Handler) send(cn *conn, ev Event) {
	if err := cn.writeJSON(ev); err != nil {
		h.log.Warn("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) ping(ctx context.Context, cn *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cn.writePing(); err != nil {
				return
			}
		}
	}
}
