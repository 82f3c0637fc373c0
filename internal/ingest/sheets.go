package ingest

import (
	"fmt"
	"strconv"
)

// ReadSheetValues converts a Google Sheets values range, first row as
// header, into a Table.
func ReadSheetValues(values [][]interface{}) Table {
	if len(values) == 0 {
		return Table{}
	}

	t := Table{Header: stringRow(values[0])}
	for _, raw := range values[1:] {
		t.Rows = append(t.Rows, stringRow(raw))
	}
	return t
}

func stringRow(raw []interface{}) []string {
	row := make([]string, len(raw))
	for i, cell := range raw {
		switch v := cell.(type) {
		case nil:
			row[i] = ""
		case string:
			row[i] = v
		case float64:
			row[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			row[i] = fmt.Sprint(v)
		}
	}
	return row
}
