package normalization

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Максимальная длина описания товара после очистки.
const DescriptionMaxLength = 2000

// StripHTML удаляет из текста HTML-разметку и сущности, оставляя только
// видимый текст. Правило единое для всех парсеров: жирный текст и прочее
// форматирование не сохраняются ("<b>Мощная</b> дрель" -> "Мощная дрель").
func StripHTML(input string) string {
	if input == "" {
		return ""
	}
	if !strings.ContainsAny(input, "<&") {
		return collapseBlankLines(input)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		// Парсер HTML крайне терпим, сюда попадаем только на ошибках
		// чтения. Возвращаем текст как есть, без разметки лучше не станет.
		return collapseBlankLines(input)
	}
	doc.Find("script, style").Remove()

	return collapseBlankLines(doc.Text())
}

// collapseBlankLines схлопывает пробельные прогоны внутри строк и
// серии пустых строк до одной.
func collapseBlankLines(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var out []string
	blank := true // Ведущие пустые строки отбрасываются
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}

	// Хвостовые пустые строки
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

// TruncateRunes обрезает строку до max символов (не байт).
func TruncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max]))
}

// CleanDescription очищает описание товара: убирает HTML, схлопывает
// пустые строки и ограничивает длину, чтобы не раздувать хранилище.
func CleanDescription(input string) string {
	return TruncateRunes(StripHTML(input), DescriptionMaxLength)
}
