package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchXML(t *testing.T) {
	t.Run("returns payload and appends xml=T", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "text/xml")
			w.Write([]byte(`<record recordType="customer" id="1"><entityid>ACME</entityid></record>`))
		}))
		defer srv.Close()

		c := New(5*time.Second, "fieldex-test")
		body, err := c.FetchXML(context.Background(), srv.URL+"/app/record.nl?id=1")
		require.NoError(t, err)
		assert.Contains(t, body, "<entityid>ACME</entityid>")
		assert.Equal(t, "id=1&xml=T", gotQuery)
	})

	t.Run("non-200 surfaces the status once", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer srv.Close()

		c := New(5*time.Second, "fieldex-test")
		_, err := c.FetchXML(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 403")
	})

	t.Run("rejects HTML served in place of XML", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<!DOCTYPE html><html><body>Log in</body></html>"))
		}))
		defer srv.Close()

		c := New(5*time.Second, "fieldex-test")
		_, err := c.FetchXML(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTML")
	})

	t.Run("does not retry failed requests", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := New(5*time.Second, "fieldex-test")
		_, err := c.FetchXML(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Equal(t, 1, hits)
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "<record/>", Normalize([]byte("<record/>")))

	// Latin-1 payloads come back valid UTF-8.
	latin1 := []byte("<memo>caf\xe9</memo>")
	assert.Contains(t, Normalize(latin1), "café")
}
