package record

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSON(t *testing.T) {
	rec, err := Decode(mixedXML)
	require.NoError(t, err)

	t.Run("full export", func(t *testing.T) {
		out, err := EncodeJSON(rec, FilterAll)
		require.NoError(t, err)

		s := string(out)
		assert.True(t, strings.HasPrefix(s, "{\n  \"recordType\": \"invoice\","), s)
		assert.Contains(t, s, `"id": "7"`)
		assert.Contains(t, s, `"bodyFieldCount": 3`)
		assert.Contains(t, s, `"sublistCount": 2`)

		// Top-level shape order is fixed; body keys follow decode order.
		assert.Less(t, strings.Index(s, `"bodyFields"`), strings.Index(s, `"sublists"`))
		assert.Less(t, strings.Index(s, `"tranid"`), strings.Index(s, `"custbody_priority"`))
	})

	t.Run("counts reflect the filtered sets", func(t *testing.T) {
		out, err := EncodeJSON(rec, FilterCustom)
		require.NoError(t, err)

		s := string(out)
		assert.Contains(t, s, `"bodyFieldCount": 1`)
		assert.Contains(t, s, `"sublistCount": 1`)
		assert.NotContains(t, s, `"tranid"`)
	})
}

func TestEncodeCSV(t *testing.T) {
	rec, err := Decode(`<record recordType="invoice" id="7">
  <memo>subtotal, then "tax"</memo>
  <total>10.00</total>
  <entity name="Acme">77</entity>
</record>`)
	require.NoError(t, err)

	out, err := EncodeCSV(rec, FilterAll)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err, "output must round-trip through a standard CSV reader")
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"Field ID", "Value", "Type"}, rows[0])
	assert.Equal(t, []string{"memo", `subtotal, then "tax"`, "text"}, rows[1])
	assert.Equal(t, []string{"total", "10.00", "currency"}, rows[2])

	assert.Equal(t, "entity", rows[3][0])
	assert.Equal(t, "object", rows[3][2])
	assert.JSONEq(t, `{"_value":"77","_name":"Acme"}`, rows[3][1], "structured values serialize as compact JSON")
}

func TestEncodeCSVBodyFieldsOnly(t *testing.T) {
	rec, err := Decode(mixedXML)
	require.NoError(t, err)

	out, err := EncodeCSV(rec, FilterStandard)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "custbody_priority")
	assert.NotContains(t, s, "custcol_note")
	assert.NotContains(t, s, "item", "sublists never appear in CSV exports")
}

func TestExportFilenames(t *testing.T) {
	rec := &Record{RecordType: "salesorder", ID: "42"}
	assert.Equal(t, "salesorder_42.json", JSONFilename(rec))
	assert.Equal(t, "salesorder_42_fields.csv", CSVFilename(rec))
}
