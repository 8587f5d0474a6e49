package normalization

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// SearchKeywords строит строку поисковых ключей из названия товара:
// слова приводятся к нижнему регистру, очищаются от пунктуации и
// приводятся к основе алгоритмом Snowball ("дрель ударная" -> "дрел ударн").
// Результат детерминирован и хранится рядом с товаром для поиска по каталогу.
func SearchKeywords(name string) string {
	words := strings.Fields(strings.ToLower(name))

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(word)) < 2 {
			continue
		}

		stemmed, err := snowball.Stem(word, stemLanguage(word), true)
		if err != nil || stemmed == "" {
			stemmed = word
		}

		if !seen[stemmed] {
			seen[stemmed] = true
			keywords = append(keywords, stemmed)
		}
	}

	return strings.Join(keywords, " ")
}

// stemLanguage выбирает язык стеммера по алфавиту слова.
func stemLanguage(word string) string {
	for _, r := range word {
		if unicode.Is(unicode.Cyrillic, r) {
			return "russian"
		}
	}
	return "english"
}
