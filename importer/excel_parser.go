package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalogserver/normalization"
)

// excelColumnIndices индексы найденных колонок прайс-листа.
type excelColumnIndices struct {
	name         int
	sku          int
	price        int
	oldPrice     int
	category     int
	availability int
	image        int
	description  int
}

// ExcelParser разбирает Excel прайс-листы поставщиков. Порядок колонок
// у поставщиков разный, поэтому колонки ищутся по ключевым словам
// заголовка, а не по позициям.
type ExcelParser struct {
	gate *ValidationGate
}

// NewExcelParser создает парсер Excel прайс-листов.
func NewExcelParser() *ExcelParser {
	return &ExcelParser{gate: NewValidationGate()}
}

// Parse разбирает первую страницу книги. Файл без строки заголовка и
// хотя бы одной строки данных считается сломанным целиком.
func (ep *ExcelParser) Parse(data []byte, summary *ImportSummary, maxRecords int) ([]NormalizedProduct, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets found in Excel file", ErrMalformedInput)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %v", ErrMalformedInput, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file is too short, expected header row and at least one data row", ErrMalformedInput)
	}

	colIndices := findExcelColumnIndices(rows[0])
	if colIndices.name == -1 {
		return nil, fmt.Errorf("%w: required product name column not found in headers", ErrMalformedInput)
	}

	var products []NormalizedProduct
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isEmptyExcelRow(row) {
			continue
		}
		summary.Total++

		if maxRecords > 0 && len(products) >= maxRecords {
			summary.RecordSkipped(rowIdx+1, SkipRecordCapHit)
			continue
		}

		draft := NormalizedProduct{
			Name:     cellAt(row, colIndices.name),
			SKU:      cellAt(row, colIndices.sku),
			ImageURL: cellAt(row, colIndices.image),
			IsActive: true,
		}
		if price, ok := ParsePrice(cellAt(row, colIndices.price)); ok {
			draft.Price = price
		}
		if oldPrice, ok := ParsePrice(cellAt(row, colIndices.oldPrice)); ok {
			draft.OriginalPrice = oldPrice
		}
		draft.CategoryName = cellAt(row, colIndices.category)
		if avail := cellAt(row, colIndices.availability); avail != "" {
			draft.IsActive = ParseAvailability(avail)
		}
		draft.Description = normalization.CleanDescription(cellAt(row, colIndices.description))

		accepted, reason := ep.gate.Accept(draft, rowIdx)
		if reason != "" {
			summary.RecordSkipped(rowIdx+1, reason)
			continue
		}

		products = append(products, accepted)
		summary.RecordAccepted(accepted)
	}

	if summary.Total == 0 {
		return nil, fmt.Errorf("%w: no data rows found in Excel file", ErrMalformedInput)
	}

	return products, nil
}

// findExcelColumnIndices ищет колонки по вариантам названий в заголовке.
func findExcelColumnIndices(headers []string) excelColumnIndices {
	indices := excelColumnIndices{
		name: -1, sku: -1, price: -1, oldPrice: -1,
		category: -1, availability: -1, image: -1, description: -1,
	}

	for i, header := range headers {
		headerLower := strings.ToLower(strings.TrimSpace(header))
		if headerLower == "" {
			continue
		}

		if indices.name == -1 && containsAnyKeyword(headerLower, []string{"наимен", "назван", "name", "товар"}) {
			indices.name = i
		}
		if indices.sku == -1 && containsAnyKeyword(headerLower, []string{"артикул", "sku", "код"}) {
			indices.sku = i
		}
		if indices.oldPrice == -1 && containsAnyKeyword(headerLower, []string{"старая цена", "цена до", "old"}) {
			indices.oldPrice = i
		}
		if indices.price == -1 && i != indices.oldPrice && containsAnyKeyword(headerLower, []string{"цена", "стоимост", "price"}) {
			indices.price = i
		}
		if indices.category == -1 && containsAnyKeyword(headerLower, []string{"катег", "раздел", "группа", "category"}) {
			indices.category = i
		}
		if indices.availability == -1 && containsAnyKeyword(headerLower, []string{"налич", "остат", "stock"}) {
			indices.availability = i
		}
		if indices.image == -1 && containsAnyKeyword(headerLower, []string{"фото", "картин", "изображ", "image"}) {
			indices.image = i
		}
		if indices.description == -1 && containsAnyKeyword(headerLower, []string{"описан", "description"}) {
			indices.description = i
		}
	}

	return indices
}

// containsAnyKeyword проверяет, содержит ли строка любую из подстрок.
func containsAnyKeyword(s string, substrings []string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// isEmptyExcelRow проверяет, является ли строка пустой.
func isEmptyExcelRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellAt безопасно извлекает значение ячейки: у excelize строки могут
// быть короче числа колонок заголовка.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
