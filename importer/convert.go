package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// priceCleanRe оставляет в ценовой строке только цифры и разделители.
var priceCleanRe = regexp.MustCompile(`[^0-9,.]`)

// ParsePrice приводит ценовую строку поставщика к числу: валютные символы
// и пробелы-разделители тысяч отбрасываются, десятичная запятая
// нормализуется в точку ("4 500,00 ₽" -> 4500.00). Возвращает false для
// пустых, нечисловых и неположительных значений, не бросая ошибок:
// решение пропустить запись принимает вызывающий код.
func ParsePrice(raw string) (float64, bool) {
	cleaned := priceCleanRe.ReplaceAllString(raw, "")
	// Точка из валютных сокращений "руб." и "rub." переживает очистку.
	// Краевые разделители без цифры за ними десятичными не являются,
	// срезаем их до выбора десятичного разделителя.
	cleaned = strings.Trim(cleaned, ",.")
	if cleaned == "" {
		return 0, false
	}

	// Последний разделитель считаем десятичным, остальные - разрядными.
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if idx := strings.LastIndex(cleaned, "."); idx >= 0 {
		cleaned = strings.ReplaceAll(cleaned[:idx], ".", "") + cleaned[idx:]
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// inStockLiterals значения колонки наличия, означающие "в наличии".
// Все прочие значения трактуются как отсутствие товара.
var inStockLiterals = map[string]bool{
	"да":         true,
	"в наличии":  true,
	"есть":       true,
	"in stock":   true,
	"true":       true,
	"1":          true,
	"+":          true,
}

// ParseAvailability переводит строку наличия в флаг активности товара.
func ParseAvailability(raw string) bool {
	return inStockLiterals[strings.ToLower(strings.TrimSpace(raw))]
}

// currencyMarkerRe признак цены в эвристическом режиме: число с
// необязательной десятичной частью и валютным маркером.
var currencyMarkerRe = regexp.MustCompile(`(?i)^[0-9][0-9\s]*(?:[.,][0-9]+)?\s*(?:₽|руб\.?|rub\.?)$`)

// LooksLikePrice проверяет, похож ли токен на цену с валютным маркером.
func LooksLikePrice(token string) bool {
	return currencyMarkerRe.MatchString(strings.TrimSpace(token))
}
