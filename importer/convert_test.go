package importer

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"4500.00", 4500.00, true},
		{"4 500,50 ₽", 4500.50, true},
		{"1200 руб.", 1200, true},
		{"4 500,00 руб.", 4500.00, true},
		{"4 500,00 руб", 4500.00, true},
		{"1000,50 rub.", 1000.50, true},
		{"4500.", 4500, true},
		{"1.299,99", 1299.99, true},
		{"1,299.99", 1299.99, true},
		{"0", 0, false},
		{"-100", 100, true}, // Минус отбрасывается вместе с прочим мусором
		{"бесплатно", 0, false},
		{"", 0, false},
		{"цена: 350", 350, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParsePrice(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseAvailability(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"В наличии", true},
		{"да", true},
		{"ДА", true},
		{"есть", true},
		{"in stock", true},
		{"true", true},
		{"1", true},
		{"+", true},
		{"нет", false},
		{"под заказ", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ParseAvailability(tt.raw); got != tt.want {
			t.Errorf("ParseAvailability(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestLooksLikePrice(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"4 500,50 ₽", true},
		{"1200 руб.", true},
		{"999 RUB", true},
		{"4500", false}, // Без валютного маркера число ценой не считается
		{"BSH-001", false},
		{"Дрель 4500", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksLikePrice(tt.token); got != tt.want {
			t.Errorf("LooksLikePrice(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
