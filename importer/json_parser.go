package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalogserver/normalization"
)

// jsonProduct форма объекта товара во входном JSON. Валидация
// минимальная: типизированный разбор плюс общий шлюз.
type jsonProduct struct {
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Price            json.Number     `json:"price"`
	OriginalPrice    json.Number     `json:"original_price"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	ImageURL         string          `json:"image_url"`
	Category         string          `json:"category"`
	IsActive         *bool           `json:"is_active"`
	Tag              string          `json:"tag"`
	Specs            json.RawMessage `json:"specs"`
}

// JSONParser разбирает JSON-массив объектов товаров. Принимает как
// массив верхнего уровня, так и массив под обертками вида
// {"products": [...]}.
type JSONParser struct {
	gate *ValidationGate
}

// NewJSONParser создает парсер JSON-каталога.
func NewJSONParser() *JSONParser {
	return &JSONParser{gate: NewValidationGate()}
}

// Ключи-обертки, под которыми поставщики кладут массив товаров.
var jsonArrayKeys = []string{"products", "items", "offers", "data"}

// Parse разбирает весь документ. Отсутствие массива товаров - фатальная
// ошибка формата, дефекты отдельных записей приводят только к пропускам.
func (jp *JSONParser) Parse(data []byte, summary *ImportSummary, maxRecords int) ([]NormalizedProduct, error) {
	items, err := extractJSONArray(data)
	if err != nil {
		return nil, err
	}

	var products []NormalizedProduct
	for idx, raw := range items {
		summary.Total++

		if maxRecords > 0 && len(products) >= maxRecords {
			summary.RecordSkipped(idx+1, SkipRecordCapHit)
			continue
		}

		var item jsonProduct
		if err := json.Unmarshal(raw, &item); err != nil {
			summary.RecordSkipped(idx+1, SkipUnreadableRow)
			continue
		}

		price, _ := item.Price.Float64()
		oldPrice, _ := item.OriginalPrice.Float64()

		draft := NormalizedProduct{
			Name:             strings.TrimSpace(item.Name),
			SKU:              strings.TrimSpace(item.SKU),
			Price:            price,
			OriginalPrice:    oldPrice,
			Description:      normalization.CleanDescription(item.Description),
			ShortDescription: normalization.CleanDescription(item.ShortDescription),
			ImageURL:         strings.TrimSpace(item.ImageURL),
			CategoryName:     strings.TrimSpace(item.Category),
			Tag:              strings.TrimSpace(item.Tag),
			IsActive:         item.IsActive == nil || *item.IsActive,
		}
		if len(item.Specs) > 0 && string(item.Specs) != "null" {
			draft.Specs = string(item.Specs)
		}

		accepted, reason := jp.gate.Accept(draft, idx)
		if reason != "" {
			summary.RecordSkipped(idx+1, reason)
			continue
		}

		products = append(products, accepted)
		summary.RecordAccepted(accepted)
	}

	return products, nil
}

// extractJSONArray находит массив товаров в документе.
func extractJSONArray(data []byte) ([]json.RawMessage, error) {
	var direct []json.RawMessage
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON document", ErrMalformedInput)
	}
	for _, key := range jsonArrayKeys {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}

	return nil, fmt.Errorf("%w: no product array found in JSON document", ErrMalformedInput)
}
