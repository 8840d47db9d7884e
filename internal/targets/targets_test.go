package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "targets.csv",
		"\ufeffSKU,"+DefaultColumn+",PRICE\n"+
			"1,VT Reedle Shot 100,10\n"+
			"2,,11\n"+
			"3,  Cica Cream  ,12\n"+
			"4\n"+
			"5,VT Reedle Shot 100,13\n")

	values, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"VT Reedle Shot 100", "Cica Cream", "VT Reedle Shot 100"}, values)
}

func TestLoad_CustomColumn(t *testing.T) {
	path := writeFile(t, "targets.csv", "name\nSerum\nToner\n")

	values, err := Load(path, "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Serum", "Toner"}, values)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeFile(t, "targets.csv", "a,b\n1,2\n")

	_, err := Load(path, "name")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "targets.csv", "")

	_, err := Load(path, "name")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "name")
	assert.Error(t, err)
}

func TestLoad_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "SKU"))
	require.NoError(t, f.SetCellValue(sheet, "B1", DefaultColumn))
	require.NoError(t, f.SetCellValue(sheet, "B2", "VT Reedle Shot 300"))
	require.NoError(t, f.SetCellValue(sheet, "B4", "Cica Sleeping Mask"))

	path := filepath.Join(t.TempDir(), "targets.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	values, err := Load(path, DefaultColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"VT Reedle Shot 300", "Cica Sleeping Mask"}, values)
}
