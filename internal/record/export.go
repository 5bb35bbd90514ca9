package record

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// Export is the JSON download shape. Counts reflect the filtered sets,
// not the full record.
type Export struct {
	RecordType     string    `json:"recordType"`
	ID             string    `json:"id"`
	BodyFields     *Fields   `json:"bodyFields"`
	Sublists       *Sublists `json:"sublists"`
	BodyFieldCount int       `json:"bodyFieldCount"`
	SublistCount   int       `json:"sublistCount"`
}

// EncodeJSON renders the record filtered by mode as two-space-indented
// JSON with keys in decode order.
func EncodeJSON(r *Record, mode FilterMode) ([]byte, error) {
	fr := FilterRecord(r, mode)
	exp := Export{
		RecordType:     fr.RecordType,
		ID:             fr.ID,
		BodyFields:     fr.BodyFields,
		Sublists:       fr.Sublists,
		BodyFieldCount: fr.BodyFieldCount(),
		SublistCount:   fr.SublistCount(),
	}
	return json.MarshalIndent(exp, "", "  ")
}

// CSV column header for field exports.
var csvHeader = []string{"Field ID", "Value", "Type"}

// EncodeCSV renders the filtered body fields as CSV, one row per field
// with its classified type. Structured values serialize as compact JSON.
// Quoting is standard: cells are quoted only when they contain the
// separator, a quote, or a newline, with internal quotes doubled.
func EncodeCSV(r *Record, mode FilterMode) ([]byte, error) {
	fields := FilterFields(r.BodyFields, mode)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	var writeErr error
	fields.Range(func(key string, v Value) bool {
		row := []string{key, Stringify(v), string(Classify(key, v))}
		if err := w.Write(row); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	if writeErr != nil {
		return nil, writeErr
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONFilename returns the download name for a JSON export.
func JSONFilename(r *Record) string {
	return fmt.Sprintf("%s_%s.json", r.RecordType, r.ID)
}

// CSVFilename returns the download name for a CSV export.
func CSVFilename(r *Record) string {
	return fmt.Sprintf("%s_%s_fields.csv", r.RecordType, r.ID)
}
