package normalization

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cyrillic name", "Дрель ударная Bosch", "drel-udarnaya-bosch"},
		{"yo letter", "Ёлочная гирлянда", "yolochnaya-girlyanda"},
		{"shch letter", "Щетка металлическая", "shchetka-metallicheskaya"},
		{"soft and hard signs", "Подъемник строительный", "podemnik-stroitelnyy"},
		{"latin passthrough", "Makita HR2470", "makita-hr2470"},
		{"punctuation dropped", "Саморезы 3.5x35 (оцинкованные)", "samorezy-35x35-otsinkovannye"},
		{"whitespace runs", "Молоток   слесарный\t500г", "molotok-slesarnyy-500g"},
		{"edge hyphens", "- Уровень пузырьковый -", "uroven-puzyrkovyy"},
		{"empty", "", ""},
		{"no transliterable characters", "###", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	input := "Перфоратор Makita HR2470 (780 Вт)"
	first := Slugify(input)
	for i := 0; i < 10; i++ {
		if got := Slugify(input); got != first {
			t.Fatalf("Slugify is not deterministic: %q vs %q", got, first)
		}
	}
}

func TestSlugify_IdempotentOnOwnOutput(t *testing.T) {
	slug := Slugify("Дрель ударная Bosch GSB 13 RE")
	if again := Slugify(slug); again != slug {
		t.Errorf("Slugify(Slugify(x)) = %q, want %q", again, slug)
	}
}

func TestSlugify_Truncation(t *testing.T) {
	long := strings.Repeat("дрель ", 40)
	slug := Slugify(long)

	if len(slug) > slugMaxLength {
		t.Errorf("len(slug) = %d, want <= %d", len(slug), slugMaxLength)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("truncated slug must not end with a hyphen: %q", slug)
	}
}

func TestSlugify_OnlyAllowedCharacters(t *testing.T) {
	slug := Slugify("फीता & Кабель №5, длина 10м!")
	for _, r := range slug {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			t.Fatalf("slug %q contains disallowed rune %q", slug, r)
		}
	}
}
