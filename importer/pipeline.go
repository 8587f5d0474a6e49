package importer

import (
	"fmt"
	"log"
)

// DefaultMaxRecords предел принятых записей за один прогон импорта.
// Ограничивает ресурсы на аномально больших файлах; настраивается
// через Options, а не зашит в код.
const DefaultMaxRecords = 1000

// Options настройки одного прогона импорта.
type Options struct {
	// MaxRecords максимум принятых записей за прогон; 0 означает
	// значение по умолчанию, отрицательное значение снимает предел.
	MaxRecords int
	// StrictDelimiter разделитель строгого режима CSV.
	StrictDelimiter rune
	// HeuristicDelimiter разделитель эвристического режима CSV.
	HeuristicDelimiter rune
	// Quote символ кавычки для обоих режимов CSV.
	Quote rune
}

// DefaultOptions настройки по умолчанию: наблюдаемые форматы
// поставщиков используют ';' со схемой и ',' без нее.
func DefaultOptions() Options {
	return Options{
		MaxRecords:         DefaultMaxRecords,
		StrictDelimiter:    ';',
		HeuristicDelimiter: ',',
		Quote:              '"',
	}
}

// Pipeline конвейер импорта каталога поставщика: байты файла плюс
// подсказка формата на входе, нормализованные товары и сводка на выходе.
// Конвейер не хранит состояния между прогонами и безопасен для
// параллельных независимых вызовов.
type Pipeline struct {
	opts       Options
	mapper     *ColumnMapper
	classifier *FieldClassifier
	gate       *ValidationGate
}

// NewPipeline создает конвейер с заданными настройками.
func NewPipeline(opts Options) *Pipeline {
	if opts.MaxRecords == 0 {
		opts.MaxRecords = DefaultMaxRecords
	}
	if opts.StrictDelimiter == 0 {
		opts.StrictDelimiter = ';'
	}
	if opts.HeuristicDelimiter == 0 {
		opts.HeuristicDelimiter = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	return &Pipeline{
		opts:       opts,
		mapper:     NewColumnMapper(),
		classifier: NewFieldClassifier(),
		gate:       NewValidationGate(),
	}
}

// Run выполняет один прогон импорта. Возвращаемая сводка заполнена и
// при ошибке формата: в ней видны формат и кодировка. Принятых записей
// при фатальной ошибке не бывает.
func (p *Pipeline) Run(data []byte, hint FormatHint) ([]NormalizedProduct, *ImportSummary, error) {
	summary := NewImportSummary(hint)
	defer summary.Finish()

	if len(data) == 0 {
		return nil, summary, fmt.Errorf("%w: empty input", ErrMalformedInput)
	}

	var products []NormalizedProduct
	var err error

	switch hint {
	case FormatCSVStrict:
		products, err = p.parseCSV(data, summary, p.opts.StrictDelimiter, true)
	case FormatCSVHeuristic:
		products, err = p.parseCSV(data, summary, p.opts.HeuristicDelimiter, false)
	case FormatYML:
		// XML сам декларирует свою кодировку, детектор не нужен.
		products, err = NewFeedParser().Parse(data, summary, p.maxRecords())
	case FormatJSON:
		products, err = NewJSONParser().Parse(data, summary, p.maxRecords())
	case FormatXLSX:
		products, err = NewExcelParser().Parse(data, summary, p.maxRecords())
	default:
		err = fmt.Errorf("%w: unknown format hint %q", ErrMalformedInput, hint)
	}

	if err != nil {
		return nil, summary, err
	}

	log.Printf("Import completed: %d/%d accepted, %d skipped (format=%s, encoding=%s)",
		summary.Accepted, summary.Total, summary.Skipped, summary.Format, summary.EncodingDetected)

	return products, summary, nil
}

func (p *Pipeline) maxRecords() int {
	if p.opts.MaxRecords < 0 {
		return 0
	}
	return p.opts.MaxRecords
}

// parseCSV общий CSV-путь. В строгом режиме первая запись - заголовок
// с известной схемой, в эвристическом каждая строка классифицируется
// по форме содержимого.
func (p *Pipeline) parseCSV(data []byte, summary *ImportSummary, delimiter rune, strict bool) ([]NormalizedProduct, error) {
	decoded := DecodeToUTF8(data)
	summary.EncodingDetected = string(decoded.Encoding)
	summary.EncodingFallback = decoded.Fallback
	if decoded.Fallback {
		log.Printf("Encoding detection inconclusive, falling back to UTF-8")
	}

	// Минимум полей у сканера намеренно ниже строгой схемы: короткие
	// строки должны дойти до маппера и попасть в сводку с точной
	// причиной, а не исчезнуть на уровне разбора.
	scanner := NewRecordScanner(decoded.Text, delimiter, p.opts.Quote, 2)

	if strict {
		header, ok := scanner.Next()
		if !ok {
			return nil, fmt.Errorf("%w: CSV file has no header row", ErrMalformedInput)
		}
		if len(header.Fields) < p.mapper.MinFields() {
			return nil, fmt.Errorf("%w: CSV header has %d columns, expected at least %d",
				ErrMalformedInput, len(header.Fields), p.mapper.MinFields())
		}
	}

	var products []NormalizedProduct
	idx := 0
	for {
		rec, ok := scanner.Next()
		if !ok {
			break
		}
		summary.Total++
		idx++

		if max := p.maxRecords(); max > 0 && len(products) >= max {
			summary.RecordSkipped(rec.Line, SkipRecordCapHit)
			continue
		}

		var draft NormalizedProduct
		var reason SkipReason
		if strict {
			draft, reason = p.mapper.Map(rec)
		} else {
			var classified bool
			draft, classified = p.classifier.Classify(rec)
			if !classified {
				reason = SkipUnclassified
			}
		}
		if reason != "" {
			summary.RecordSkipped(rec.Line, reason)
			continue
		}

		accepted, reason := p.gate.Accept(draft, idx)
		if reason != "" {
			summary.RecordSkipped(rec.Line, reason)
			continue
		}

		products = append(products, accepted)
		summary.RecordAccepted(accepted)
	}

	// Слишком короткие записи, отброшенные сканером, попадают в сводку.
	for _, skipped := range scanner.Skipped() {
		summary.Total++
		summary.RecordSkipped(skipped.Line, skipped.Reason)
	}

	if summary.Total == 0 {
		return nil, fmt.Errorf("%w: CSV file contains no data rows", ErrMalformedInput)
	}

	return products, nil
}
