package importer

import (
	"regexp"
	"strings"
	"unicode"
)

// FieldSlot целевое поле товара, на которое претендует токен.
type FieldSlot string

const (
	SlotImage    FieldSlot = "image"
	SlotPrice    FieldSlot = "price"
	SlotSKU      FieldSlot = "sku"
	SlotCategory FieldSlot = "category"
	SlotName     FieldSlot = "name"
)

// ShapePredicate один тест формы токена. Порядок предикатов в списке
// задает приоритет разрешения конфликтов: токен получает первый
// незанятый слот, чей предикат сработал.
type ShapePredicate struct {
	Slot  FieldSlot
	Match func(token string) bool
}

// Артикул: 3-19 символов, буквы/цифры/пунктуация, без строчной кириллицы.
var skuShapeRe = regexp.MustCompile(`^[0-9A-Za-zА-ЯЁ][0-9A-Za-zА-ЯЁ\-_./]{2,18}$`)

// DefaultShapePredicates возвращает стандартный порядок предикатов,
// выведенный из выгрузки поставщика с нестабильным порядком колонок.
// Порядок - это контракт разрешения неоднозначностей, а не гарантия
// корректного извлечения: эвристика по определению best-effort.
func DefaultShapePredicates() []ShapePredicate {
	return []ShapePredicate{
		{Slot: SlotImage, Match: func(token string) bool {
			return strings.HasPrefix(token, "http")
		}},
		{Slot: SlotPrice, Match: LooksLikePrice},
		{Slot: SlotSKU, Match: func(token string) bool {
			return skuShapeRe.MatchString(token)
		}},
		{Slot: SlotCategory, Match: func(token string) bool {
			n := len([]rune(token))
			return n >= 3 && n <= 49 && containsCyrillic(token)
		}},
		{Slot: SlotName, Match: func(token string) bool {
			n := len([]rune(token))
			return n >= 6 && n <= 199 && containsLetter(token)
		}},
	}
}

// FieldClassifier классифицирует токены записи по форме содержимого.
// Применяется, когда порядку колонок исходного файла доверять нельзя.
type FieldClassifier struct {
	predicates []ShapePredicate
}

// NewFieldClassifier создает классификатор со стандартными предикатами.
func NewFieldClassifier() *FieldClassifier {
	return &FieldClassifier{predicates: DefaultShapePredicates()}
}

// NewFieldClassifierWithPredicates создает классификатор с явным списком
// предикатов: вызывающий код может проверить и расширить порядок.
func NewFieldClassifierWithPredicates(predicates []ShapePredicate) *FieldClassifier {
	return &FieldClassifier{predicates: predicates}
}

// Classify раскладывает токены записи по слотам черновика товара.
// Каждый слот занимается не более одного раза, токен расходуется на
// первый подошедший слот. Черновик без имени (или с именем короче трех
// символов) считается ошибкой классификации: запись пропускается,
// значения по умолчанию не подставляются.
func (fc *FieldClassifier) Classify(rec RawRecord) (NormalizedProduct, bool) {
	claimed := make(map[FieldSlot]bool, len(fc.predicates))
	var draft NormalizedProduct

	for _, token := range rec.Fields {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		for _, pred := range fc.predicates {
			if claimed[pred.Slot] || !pred.Match(token) {
				continue
			}
			claimed[pred.Slot] = true

			switch pred.Slot {
			case SlotImage:
				draft.ImageURL = token
			case SlotPrice:
				if price, ok := ParsePrice(token); ok {
					draft.Price = price
				}
			case SlotSKU:
				draft.SKU = token
			case SlotCategory:
				draft.CategoryName = token
			case SlotName:
				draft.Name = token
			}
			break
		}
	}

	if len([]rune(draft.Name)) < 3 {
		return NormalizedProduct{}, false
	}

	// Выгрузки этого поставщика не содержат признака наличия,
	// найденный в строке товар считается доступным.
	draft.IsActive = true

	return draft, true
}

func containsCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
