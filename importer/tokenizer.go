package importer

import (
	"strings"
)

// RecordScanner собирает логические записи из декодированного текста.
// Поле в кавычках может содержать символ разделителя и переносы строк,
// поэтому запись склеивается из физических строк до закрытия кавычек.
// Сканер одноразовый: один проход по тексту, без перезапуска.
type RecordScanner struct {
	lines     []string
	pos       int
	line      int // Номер текущей физической строки (с единицы)
	delimiter rune
	quote     rune
	minFields int
	skipped   []SkippedRecord
}

// NewRecordScanner создает сканер записей для декодированного текста.
// minFields задает минимальное число полей: более короткие записи
// пропускаются и учитываются в статистике, а не прерывают разбор.
func NewRecordScanner(text string, delimiter, quote rune, minFields int) *RecordScanner {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return &RecordScanner{
		lines:     strings.Split(normalized, "\n"),
		delimiter: delimiter,
		quote:     quote,
		minFields: minFields,
	}
}

// Next возвращает следующую логическую запись. Второе значение false
// означает конец входа. Пустые строки пропускаются молча, слишком
// короткие записи накапливаются в Skipped.
func (rs *RecordScanner) Next() (RawRecord, bool) {
	for rs.pos < len(rs.lines) {
		raw := rs.lines[rs.pos]
		rs.pos++
		rs.line++

		if strings.TrimSpace(raw) == "" {
			continue
		}

		startLine := rs.line
		logical := raw

		// Нечетное суммарное число кавычек означает незакрытое поле:
		// дочитываем физические строки, склеивая их через пробел,
		// пока четность не восстановится.
		for strings.Count(logical, string(rs.quote))%2 == 1 && rs.pos < len(rs.lines) {
			next := rs.lines[rs.pos]
			rs.pos++
			rs.line++
			logical = logical + " " + next
		}

		fields := rs.splitFields(logical)
		if len(fields) < rs.minFields {
			rs.skipped = append(rs.skipped, SkippedRecord{Line: startLine, Reason: SkipTooFewFields})
			continue
		}

		return RawRecord{Line: startLine, Fields: fields}, true
	}
	return RawRecord{}, false
}

// Skipped возвращает записи, отброшенные сканером из-за нехватки полей.
func (rs *RecordScanner) Skipped() []SkippedRecord {
	return rs.skipped
}

// splitFields разбивает логическую запись на токены. Разделитель внутри
// открытой кавычки является частью текста. Удвоенная кавычка внутри
// закавыченного поля экранирует саму кавычку.
func (rs *RecordScanner) splitFields(logical string) []string {
	var fields []string
	var current strings.Builder
	inQuote := false

	runes := []rune(logical)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == rs.quote:
			if inQuote && i+1 < len(runes) && runes[i+1] == rs.quote {
				current.WriteRune(rs.quote)
				i++
				continue
			}
			inQuote = !inQuote
			current.WriteRune(r)
		case r == rs.delimiter && !inQuote:
			fields = append(fields, rs.cleanToken(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, rs.cleanToken(current.String()))

	return fields
}

// cleanToken снимает одну пару обрамляющих кавычек и окружающие пробелы.
func (rs *RecordScanner) cleanToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 2 {
		runes := []rune(token)
		if runes[0] == rs.quote && runes[len(runes)-1] == rs.quote {
			token = string(runes[1 : len(runes)-1])
		}
	}
	return strings.TrimSpace(token)
}
