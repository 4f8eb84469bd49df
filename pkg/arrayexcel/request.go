package arrayexcel

import (
	"encoding/json"
	"fmt"
)

// ConversionRequest is a decoded data_json payload.
//
// Only Data is validated while parsing. The optional sections are kept as
// decoded JSON so the stage that consumes each one reports its own failure.
type ConversionRequest struct {
	Data       []interface{} // rows; each row must itself be an array
	ColWidths  interface{}   // object: "<col>" -> width
	RowHeights interface{}   // object: "<row>" -> height
	Merges     interface{}   // array of CellRange objects
	CellStyles interface{}   // array of StyleRegion objects
}

// Parse decodes a data_json value. Text is decoded as JSON, and decoded a
// second time when the first pass yields a string, which tolerates payloads
// that were encoded twice before transport. An already structured object is
// used as is.
func Parse(dataJSON interface{}) (*ConversionRequest, error) {
	payload, err := decodePayload(dataJSON)
	if err != nil {
		return nil, err
	}

	params, ok := payload.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: payload must be a JSON object, got %s", ErrShape, kindOf(payload))
	}

	rows, ok := params["data"].([]interface{})
	if !ok || len(rows) == 0 {
		return nil, ErrShape
	}

	return &ConversionRequest{
		Data:       rows,
		ColWidths:  params["col_widths"],
		RowHeights: params["row_heights"],
		Merges:     params["merges"],
		CellStyles: params["cell_styles"],
	}, nil
}

func decodePayload(dataJSON interface{}) (interface{}, error) {
	switch v := dataJSON.(type) {
	case nil:
		return nil, ErrMissingInput
	case string:
		return decodeText([]byte(v))
	case []byte:
		return decodeText(v)
	case json.RawMessage:
		return decodeText(v)
	case map[string]interface{}:
		if len(v) == 0 {
			return nil, ErrMissingInput
		}
		return v, nil
	default:
		return v, nil
	}
}

func decodeText(raw []byte) (interface{}, error) {
	if len(raw) == 0 {
		return nil, ErrMissingInput
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if inner, ok := v.(string); ok {
		v = nil
		if err := json.Unmarshal([]byte(inner), &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	}
	return v, nil
}
