package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// JSONToCSV converts a JSON document to flattened CSV.
//
// If the document is an object with a "results" array, the array elements
// become the rows. A bare array is used as-is. Anything else becomes a
// single row. Rows that are not objects are emitted under a "value"
// column. An empty row set yields an empty string.
func JSONToCSV(raw []byte) (string, error) {
	doc, err := decodeOrdered(raw)
	if err != nil {
		return "", fmt.Errorf("parse json: %w", err)
	}

	rows := extractRows(doc)
	if len(rows) == 0 {
		return "", nil
	}

	flattened := make([]map[string]string, 0, len(rows))
	var columns []string
	seen := make(map[string]bool)

	for _, row := range rows {
		cells := make(map[string]string)
		om, ok := row.(*orderedMap)
		if !ok {
			om = &orderedMap{keys: []string{"value"}, values: map[string]any{"value": row}}
		}
		for _, kv := range flatten(om, "") {
			cells[kv.key] = kv.value
			if !seen[kv.key] {
				seen[kv.key] = true
				columns = append(columns, kv.key)
			}
		}
		flattened = append(flattened, cells)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(columns))
	for _, cells := range flattened {
		for i, col := range columns {
			record[i] = cells[col] // missing keys stay empty
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractRows picks the row set out of a decoded document.
func extractRows(doc any) []any {
	switch v := doc.(type) {
	case *orderedMap:
		if results, ok := v.values["results"]; ok {
			if arr, ok := results.([]any); ok {
				return arr
			}
			return []any{results}
		}
		return []any{v}
	case []any:
		return v
	default:
		return []any{doc}
	}
}

type flatKV struct {
	key   string
	value string
}

// flatten walks an object depth-first, joining nested keys with "_".
func flatten(m *orderedMap, prefix string) []flatKV {
	var out []flatKV
	for _, k := range m.keys {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch v := m.values[k].(type) {
		case *orderedMap:
			out = append(out, flatten(v, key)...)
		default:
			out = append(out, flatKV{key: key, value: renderCell(v)})
		}
	}
	return out
}

// renderCell formats a leaf value for a CSV cell.
func renderCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case []any:
		// Arrays are kept as one cell of compact JSON.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// orderedMap is a JSON object that remembers key order, so CSV columns
// come out in document order the way the upstream API sends them.
type orderedMap struct {
	keys   []string
	values map[string]any
}

// MarshalJSON writes keys back in their original order; needed when an
// object nested inside an array is stringified by renderCell.
func (m *orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeOrdered(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return decodeValue(dec)
}

// decodeValue reads one JSON value token-by-token, preserving object key
// order via orderedMap.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			om := &orderedMap{values: make(map[string]any)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				om.keys = append(om.keys, key)
				om.values[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return om, nil
		case '[':
			var arr []any
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return tok, nil
	}
}
