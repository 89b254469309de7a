package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXEncoder_WritesResultsSheet(t *testing.T) {
	t.Parallel()

	out, err := NewXLSXEncoder().Encode(scenarioResults())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{XLSXSheetName}, f.GetSheetList())

	v, err := f.GetCellValue(XLSXSheetName, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", v)

	v, err = f.GetCellValue(XLSXSheetName, "A9")
	require.NoError(t, err)
	assert.Equal(t, "Dan Ionescu (Tiger)", v)

	v, err = f.GetCellValue(XLSXSheetName, "B16")
	require.NoError(t, err)
	assert.Equal(t, "1st Place", v)

	styleID, err := f.GetCellStyle(XLSXSheetName, "A5")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
