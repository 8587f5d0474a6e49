package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedInput возвращается, когда входной файл целиком не может быть
// разобран в заявленном формате (отсутствует обязательная структура).
// Частичный результат в этом случае не возвращается.
var ErrMalformedInput = errors.New("malformed input: cannot parse declared format")

// FormatHint подсказка формата входного файла, полученная из расширения
// или MIME-типа. Пайплайн не пытается угадывать формат самостоятельно.
type FormatHint string

const (
	FormatCSVStrict    FormatHint = "csv-strict"    // CSV с фиксированной схемой колонок, разделитель ';'
	FormatCSVHeuristic FormatHint = "csv-heuristic" // CSV без надежного порядка колонок, разделитель ','
	FormatYML          FormatHint = "yml"           // XML-фид формата yml_catalog (категории + офферы)
	FormatJSON         FormatHint = "json"          // JSON-массив объектов товаров
	FormatXLSX         FormatHint = "xlsx"          // Excel прайс-лист поставщика
)

// DetectFormatHint определяет формат по расширению файла и MIME-типу.
// Возвращает ошибку для неподдерживаемых комбинаций: в этом случае
// весь импорт завершается без частичного результата.
func DetectFormatHint(filename, mimeType string) (FormatHint, error) {
	name := strings.ToLower(strings.TrimSpace(filename))

	switch {
	case strings.HasSuffix(name, ".csv"):
		return FormatCSVStrict, nil
	case strings.HasSuffix(name, ".xml"), strings.HasSuffix(name, ".yml"):
		return FormatYML, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(name, ".xlsx"):
		return FormatXLSX, nil
	}

	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "text/csv", "application/csv":
		return FormatCSVStrict, nil
	case "text/xml", "application/xml":
		return FormatYML, nil
	case "application/json":
		return FormatJSON, nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: unsupported file format (filename=%q, mime=%q)", ErrMalformedInput, filename, mimeType)
}

// RawRecord одна логическая строка исходного файла: упорядоченный набор
// нетипизированных текстовых токенов. Живет только до передачи в маппер.
type RawRecord struct {
	Line   int      // Номер первой физической строки записи (с единицы)
	Fields []string // Токены в исходном порядке
}

// NormalizedProduct каноническая запись товара на выходе пайплайна.
// После прохождения валидационного шлюза запись не изменяется.
type NormalizedProduct struct {
	Name             string  `json:"name"`
	SKU              string  `json:"sku"`
	Slug             string  `json:"slug"`
	Price            float64 `json:"price"`
	OriginalPrice    float64 `json:"original_price,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	Description      string  `json:"description,omitempty"`
	ShortDescription string  `json:"short_description,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
	CategoryName     string  `json:"category_name,omitempty"`
	CategoryID       int     `json:"category_id,omitempty"`
	IsActive         bool    `json:"is_active"`
	Stock            int     `json:"stock"`
	Tag              string  `json:"tag,omitempty"`
	Specs            string  `json:"specs,omitempty"` // Сериализованная карта параметров (JSON)
	SearchKeywords   string  `json:"search_keywords,omitempty"`
}

// SkipReason код причины пропуска записи. Пропуск никогда не прерывает
// обработку файла, он виден только в агрегированной статистике.
type SkipReason string

const (
	SkipTooFewFields    SkipReason = "too_few_fields"
	SkipMissingName     SkipReason = "missing_name"
	SkipNameTooShort    SkipReason = "name_too_short"
	SkipInvalidPrice    SkipReason = "invalid_price"
	SkipMissingSKU      SkipReason = "missing_sku"
	SkipUnclassified    SkipReason = "unclassified"
	SkipRecordCapHit    SkipReason = "record_cap_reached"
	SkipUnreadableRow   SkipReason = "unreadable_row"
)

// SkippedRecord диагностическая запись об одном пропуске.
type SkippedRecord struct {
	Line   int        `json:"line"`
	Reason SkipReason `json:"reason"`
}

// ImportSummary итог одного прогона импорта. Создается заново на каждый
// вызов пайплайна: общего изменяемого состояния между прогонами нет.
type ImportSummary struct {
	Total            int                 `json:"total"`
	Accepted         int                 `json:"accepted"`
	Skipped          int                 `json:"skipped"`
	SkipsByReason    map[SkipReason]int  `json:"skips_by_reason,omitempty"`
	EncodingDetected string              `json:"encoding_detected,omitempty"`
	EncodingFallback bool                `json:"encoding_fallback"`
	Format           FormatHint          `json:"format"`
	SampleAccepted   []NormalizedProduct `json:"sample_accepted,omitempty"`
	SampleSkipped    []SkippedRecord     `json:"sample_skipped,omitempty"`
	Started          time.Time           `json:"started"`
	Completed        time.Time           `json:"completed"`
}

const summarySampleLimit = 5

// NewImportSummary создает пустую сводку для одного прогона.
func NewImportSummary(format FormatHint) *ImportSummary {
	return &ImportSummary{
		Format:        format,
		SkipsByReason: make(map[SkipReason]int),
		Started:       time.Now(),
	}
}

// RecordAccepted учитывает принятую запись и сохраняет несколько первых
// записей как образец для предпросмотра оператором.
func (s *ImportSummary) RecordAccepted(p NormalizedProduct) {
	s.Accepted++
	if len(s.SampleAccepted) < summarySampleLimit {
		s.SampleAccepted = append(s.SampleAccepted, p)
	}
}

// RecordSkipped учитывает пропущенную запись с кодом причины.
func (s *ImportSummary) RecordSkipped(line int, reason SkipReason) {
	s.Skipped++
	s.SkipsByReason[reason]++
	if len(s.SampleSkipped) < summarySampleLimit {
		s.SampleSkipped = append(s.SampleSkipped, SkippedRecord{Line: line, Reason: reason})
	}
}

// Finish фиксирует время завершения прогона.
func (s *ImportSummary) Finish() {
	s.Completed = time.Now()
}
