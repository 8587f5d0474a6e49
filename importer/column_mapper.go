package importer

import (
	"strings"

	"catalogserver/normalization"
)

// Фиксированная схема колонок строгого режима. Формат наблюдаемой
// выгрузки поставщика: точка с запятой как разделитель, первая строка -
// заголовок.
const (
	colImage = iota
	colName
	colSKU
	colPrice
	colCurrency
	colAvailability
	colCategory
	colSubcategory
	colSection
	colURL
	colDescription

	strictColumnCount
)

// ColumnMapper прямое позиционное отображение колонок строгого режима
// в черновик товара с поколоночным приведением типов.
type ColumnMapper struct{}

// NewColumnMapper создает маппер строгого режима.
func NewColumnMapper() *ColumnMapper {
	return &ColumnMapper{}
}

// MinFields минимальное число полей записи строгого режима.
func (cm *ColumnMapper) MinFields() int {
	return strictColumnCount
}

// Map превращает запись с известным порядком колонок в черновик товара.
// Возвращает причину пропуска для записей, не проходящих порог:
// нехватка полей, короткое имя или неположительная цена.
func (cm *ColumnMapper) Map(rec RawRecord) (NormalizedProduct, SkipReason) {
	if len(rec.Fields) < strictColumnCount {
		return NormalizedProduct{}, SkipTooFewFields
	}

	name := strings.TrimSpace(rec.Fields[colName])
	if len([]rune(name)) < 3 {
		return NormalizedProduct{}, SkipNameTooShort
	}

	price, ok := ParsePrice(rec.Fields[colPrice])
	if !ok {
		return NormalizedProduct{}, SkipInvalidPrice
	}

	draft := NormalizedProduct{
		Name:         name,
		SKU:          strings.TrimSpace(rec.Fields[colSKU]),
		Price:        price,
		ImageURL:     strings.TrimSpace(rec.Fields[colImage]),
		CategoryName: strings.TrimSpace(rec.Fields[colCategory]),
		IsActive:     ParseAvailability(rec.Fields[colAvailability]),
		Description:  normalization.CleanDescription(rec.Fields[colDescription]),
	}

	// Раздел выгрузки либо подкатегория становятся свободной меткой.
	if tag := strings.TrimSpace(rec.Fields[colSection]); tag != "" {
		draft.Tag = tag
	} else if tag := strings.TrimSpace(rec.Fields[colSubcategory]); tag != "" {
		draft.Tag = tag
	}

	return draft, ""
}
