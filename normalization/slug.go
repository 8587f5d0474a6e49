package normalization

import (
	"strings"
)

// Максимальная длина слага в символах.
const slugMaxLength = 100

// translitMap таблица транслитерации кириллицы в латиницу для слагов.
// Соответствие один-к-одному или один-к-нескольким ("ё" -> "yo").
var translitMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify строит URL-безопасный идентификатор из отображаемого имени:
// нижний регистр, транслитерация кириллицы, только [a-z0-9-], без
// повторных и краевых дефисов, не длиннее 100 символов.
// Детерминирован: одинаковый вход всегда дает одинаковый слаг, на этом
// держится идемпотентность повторного импорта.
func Slugify(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if replacement, ok := translitMap[r]; ok {
			b.WriteString(replacement)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '-':
			b.WriteRune('-')
		default:
			// Все прочие символы отбрасываются
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > slugMaxLength {
		slug = slug[:slugMaxLength]
		slug = strings.TrimRight(slug, "-")
	}

	return slug
}
