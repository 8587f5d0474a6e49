package importer

import (
	"fmt"
	"hash/fnv"
	"strings"

	"catalogserver/normalization"
)

// ValidationGate финальная проверка черновика, единая для всех парсеров.
// Ни одна запись не попадает в принятые в обход шлюза.
type ValidationGate struct{}

// NewValidationGate создает шлюз валидации.
func NewValidationGate() *ValidationGate {
	return &ValidationGate{}
}

// Accept нормализует черновик и решает, принять запись или пропустить.
// position - порядковый номер записи в файле, участвует в построении
// детерминированного артикула.
func (vg *ValidationGate) Accept(draft NormalizedProduct, position int) (NormalizedProduct, SkipReason) {
	draft.Name = strings.TrimSpace(normalization.StripHTML(draft.Name))
	if draft.Name == "" {
		return NormalizedProduct{}, SkipMissingName
	}
	if len([]rune(draft.Name)) < 3 {
		return NormalizedProduct{}, SkipNameTooShort
	}

	if draft.Price <= 0 {
		return NormalizedProduct{}, SkipInvalidPrice
	}

	draft.SKU = strings.TrimSpace(draft.SKU)
	if draft.SKU == "" {
		draft.SKU = fallbackSKU(draft.Name, position)
	}

	if draft.Slug == "" {
		draft.Slug = normalization.Slugify(draft.Name)
	}
	if draft.Slug == "" {
		// Имя без единого транслитерируемого символа: строим слаг
		// из артикула, он всегда непустой на этой точке.
		draft.Slug = normalization.Slugify(draft.SKU)
	}
	if draft.Slug == "" {
		return NormalizedProduct{}, SkipMissingName
	}

	draft.Description = normalization.CleanDescription(draft.Description)
	draft.ShortDescription = normalization.CleanDescription(draft.ShortDescription)
	if draft.SearchKeywords == "" {
		draft.SearchKeywords = normalization.SearchKeywords(draft.Name)
	}

	return draft, ""
}

// fallbackSKU детерминированный синтетический артикул: FNV-1a от имени
// и позиции записи. Повторный импорт того же файла дает те же артикулы,
// что позволяет идемпотентно обновлять каталог.
func fallbackSKU(name string, position int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s:%d", name, position)
	return fmt.Sprintf("GEN-%08X", h.Sum32())
}
