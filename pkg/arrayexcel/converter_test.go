package arrayexcel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func convert(t *testing.T, payload interface{}) *excelize.File {
	t.Helper()
	att, err := New().Convert(context.Background(), payload)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(att.Blob))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func convertErr(t *testing.T, payload interface{}) *StageError {
	t.Helper()
	att, err := New().Convert(context.Background(), payload)
	require.Error(t, err)
	assert.Nil(t, att)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr), "expected *StageError, got %T", err)
	return stageErr
}

func TestConvert_Attachment(t *testing.T) {
	att, err := New().Convert(context.Background(), `{"data": [["a"]]}`)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", att.MIMEType)
	assert.Equal(t, "output.xlsx", att.Filename)
	// xlsx files are zip packages
	assert.True(t, bytes.HasPrefix(att.Blob, []byte("PK")))
}

func TestConvert_ValuesLandAtOneBasedCoordinates(t *testing.T) {
	f := convert(t, `{"data": [["name", "qty", "ok"], ["apple", 3, true], ["pear", 1.5, false, null]]}`)

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, "Sheet1", sheets[0])

	expected := map[string]string{
		"A1": "name", "B1": "qty", "C1": "ok",
		"A2": "apple", "B2": "3", "C2": "TRUE",
		"A3": "pear", "B3": "1.5", "C3": "FALSE", "D3": "",
	}
	for cell, want := range expected {
		got, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cell %s", cell)
	}
}

func TestConvert_RaggedRows(t *testing.T) {
	f := convert(t, `{"data": [["a"], ["b", "c", "d"]]}`)
	got, err := f.GetCellValue("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "d", got)
}

func TestConvert_RowNotArray(t *testing.T) {
	stageErr := convertErr(t, `{"data": [["a"], "b"]}`)
	assert.Equal(t, StageBuild, stageErr.Stage)
	assert.ErrorIs(t, stageErr, ErrShape)
	assert.Contains(t, stageErr.Error(), "row 2 is not an array")
}

func TestConvert_NestedValueRejected(t *testing.T) {
	stageErr := convertErr(t, `{"data": [["a", {"b": 1}]]}`)
	assert.Equal(t, StageBuild, stageErr.Stage)
	assert.Contains(t, stageErr.Error(), "row 1 column 2")
}

func TestConvert_MissingData(t *testing.T) {
	stageErr := convertErr(t, `{"merges": []}`)
	assert.Equal(t, StageParse, stageErr.Stage)
	assert.ErrorIs(t, stageErr, ErrShape)
	assert.Equal(t, "parse request: data must be a 2D array", stageErr.Error())
}

func TestConvert_MissingInput(t *testing.T) {
	stageErr := convertErr(t, "")
	assert.Equal(t, "parse request: missing data_json", stageErr.Error())
}

func TestConvert_Merge(t *testing.T) {
	f := convert(t, `{
		"data": [["a", "b"], ["c", "d"]],
		"merges": [{"start_row": 1, "start_col": 1, "end_row": 1, "end_col": 2}]
	}`)

	merged, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "B1", merged[0].GetEndAxis())
	assert.Equal(t, "a", merged[0].GetCellValue())

	absorbed, err := f.GetCellValue("Sheet1", "B1")
	require.NoError(t, err)
	assert.Empty(t, absorbed)

	untouched, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "d", untouched)
}

func TestConvert_MergeBeyondData(t *testing.T) {
	f := convert(t, `{
		"data": [["a"]],
		"merges": [{"start_row": 3, "start_col": 3, "end_row": 4, "end_col": 5}]
	}`)
	merged, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "C3", merged[0].GetStartAxis())
	assert.Equal(t, "E4", merged[0].GetEndAxis())
}

func TestConvert_MergeFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		message string
	}{
		{
			name:    "MissingField",
			payload: `{"data": [["a"]], "merges": [{"start_row": 1, "start_col": 1, "end_row": 1}]}`,
			message: "merge cells: invalid merge range: merge 1: missing end_col",
		},
		{
			name:    "NonIntegerField",
			payload: `{"data": [["a"]], "merges": [{"start_row": 1, "start_col": "A", "end_row": 1, "end_col": 2}]}`,
			message: "merge cells: invalid merge range: merge 1: start_col must be an integer, got string",
		},
		{
			name:    "SecondEntry",
			payload: `{"data": [["a"]], "merges": [{"start_row": 1, "start_col": 1, "end_row": 1, "end_col": 2}, 7]}`,
			message: "merge cells: invalid merge range: merge 2: must be an object, got number",
		},
		{
			name:    "NotAnArray",
			payload: `{"data": [["a"]], "merges": {"start_row": 1}}`,
			message: "merge cells: invalid merge range: merges must be an array, got object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stageErr := convertErr(t, tt.payload)
			assert.Equal(t, StageMerge, stageErr.Stage)
			assert.ErrorIs(t, stageErr, ErrMerge)
			assert.Equal(t, tt.message, stageErr.Error())
		})
	}
}

func TestConvert_Dimensions(t *testing.T) {
	f := convert(t, `{"data": [[1]], "row_heights": {"1": "30"}, "col_widths": {"1": "20"}}`)

	height, err := f.GetRowHeight("Sheet1", 1)
	require.NoError(t, err)
	assert.Equal(t, 30.0, height)

	width, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, width)
}

func TestConvert_ColumnWidthBounds(t *testing.T) {
	f := convert(t, `{"data": [[1]], "col_widths": {"26": 12.5}}`)
	width, err := f.GetColWidth("Sheet1", "Z")
	require.NoError(t, err)
	assert.Equal(t, 12.5, width)

	for _, payload := range []string{
		`{"data": [[1]], "col_widths": {"27": 10}}`,
		`{"data": [[1]], "col_widths": {"0": 10}}`,
	} {
		stageErr := convertErr(t, payload)
		assert.Equal(t, StageDimension, stageErr.Stage)
		assert.ErrorIs(t, stageErr, ErrDimension)
		assert.Contains(t, stageErr.Error(), "outside 1-26")
	}
}

func TestConvert_DimensionFailures(t *testing.T) {
	for _, tt := range []struct {
		payload string
		message string
	}{
		{`{"data": [[1]], "row_heights": {"x": 10}}`, `row "x" is not an integer`},
		{`{"data": [[1]], "row_heights": {"2": "tall"}}`, "row 2 height tall is not a positive number"},
		{`{"data": [[1]], "row_heights": {"2": -4}}`, "row 2 height -4 is not a positive number"},
		{`{"data": [[1]], "col_widths": {"B": 10}}`, `column "B" is not an integer`},
		{`{"data": [[1]], "col_widths": {"2": true}}`, "column 2 width true is not a positive number"},
		{`{"data": [[1]], "col_widths": [10]}`, "col_widths must be an object"},
	} {
		stageErr := convertErr(t, tt.payload)
		assert.Equal(t, StageDimension, stageErr.Stage, tt.payload)
		assert.Contains(t, stageErr.Error(), tt.message)
	}
}

func TestConvert_WithMaxWidthColumn(t *testing.T) {
	conv := New(WithMaxWidthColumn(5))
	_, err := conv.Convert(context.Background(), `{"data": [[1]], "col_widths": {"6": 10}}`)
	assert.ErrorIs(t, err, ErrDimension)

	// out-of-range values keep the default limit
	conv = New(WithMaxWidthColumn(40))
	_, err = conv.Convert(context.Background(), `{"data": [[1]], "col_widths": {"27": 10}}`)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestConvert_DoubleEncodedSameWorkbook(t *testing.T) {
	payload := `{
		"data": [["h1", "h2"], [1, 2]],
		"col_widths": {"2": 18},
		"cell_styles": [{"start_row": 1, "start_col": 1, "end_col": 2, "style": {"bold": true, "bgcolor": "DDEEFF"}}]
	}`
	double, err := json.Marshal(payload)
	require.NoError(t, err)

	single := convert(t, payload)
	wrapped := convert(t, string(double))

	singleRows, err := single.GetRows("Sheet1")
	require.NoError(t, err)
	wrappedRows, err := wrapped.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, singleRows, wrappedRows)

	for _, cell := range []string{"A1", "B1", "A2", "B2"} {
		s1, err := single.GetCellStyle("Sheet1", cell)
		require.NoError(t, err)
		s2, err := wrapped.GetCellStyle("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, s1, s2, "cell %s", cell)
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Convert(ctx, `{"data": [["a"]]}`)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsInternal(err))
}
