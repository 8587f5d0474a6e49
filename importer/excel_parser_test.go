package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook собирает xlsx в памяти из строк значений.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExcelParser_Parse(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Артикул", "Наименование товара", "Цена, руб", "Старая цена", "Категория", "Наличие", "Описание"},
		{"BSH-001", "Дрель ударная Bosch GSB 13 RE", "4500.00", "5200", "Дрели", "В наличии", "Мощная дрель"},
		{"MKT-002", "Перфоратор Makita HR2470", 8900, "", "Перфораторы", "Нет", ""},
	})

	parser := NewExcelParser()
	summary := NewImportSummary(FormatXLSX)

	products, err := parser.Parse(data, summary, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)

	drill := products[0]
	require.Equal(t, "BSH-001", drill.SKU)
	require.Equal(t, "Дрель ударная Bosch GSB 13 RE", drill.Name)
	require.Equal(t, 4500.00, drill.Price)
	require.Equal(t, 5200.00, drill.OriginalPrice)
	require.Equal(t, "Дрели", drill.CategoryName)
	require.True(t, drill.IsActive)
	require.Equal(t, "Мощная дрель", drill.Description)

	require.False(t, products[1].IsActive)
	require.Equal(t, 2, summary.Accepted)
}

func TestExcelParser_ShuffledHeaders(t *testing.T) {
	// Порядок колонок другой, поиск по ключевым словам должен их найти.
	data := buildWorkbook(t, [][]interface{}{
		{"Фото", "Цена", "Название", "Код товара"},
		{"https://cdn.example.ru/1.jpg", "1200", "Молоток слесарный 500г", "HAM-500"},
	})

	parser := NewExcelParser()
	summary := NewImportSummary(FormatXLSX)

	products, err := parser.Parse(data, summary, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "HAM-500", products[0].SKU)
	require.Equal(t, 1200.00, products[0].Price)
	require.Equal(t, "https://cdn.example.ru/1.jpg", products[0].ImageURL)
}

func TestExcelParser_MissingNameColumn(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Артикул", "Цена"},
		{"X-1", "100"},
	})

	parser := NewExcelParser()
	summary := NewImportSummary(FormatXLSX)

	_, err := parser.Parse(data, summary, 0)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestExcelParser_HeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Наименование", "Цена"},
	})

	parser := NewExcelParser()
	summary := NewImportSummary(FormatXLSX)

	_, err := parser.Parse(data, summary, 0)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestExcelParser_NotAnExcelFile(t *testing.T) {
	parser := NewExcelParser()
	summary := NewImportSummary(FormatXLSX)

	_, err := parser.Parse([]byte("это не xlsx"), summary, 0)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}
