package importer

import "testing"

func TestFieldClassifier_FullRecord(t *testing.T) {
	classifier := NewFieldClassifier()

	rec := RawRecord{Line: 2, Fields: []string{
		"https://cdn.example.ru/img/drel.jpg",
		"4500 руб.",
		"BSH-001",
		"Дрели",
		"Дрель ударная Bosch GSB 13 RE",
	}}

	draft, ok := classifier.Classify(rec)
	if !ok {
		t.Fatal("expected successful classification")
	}
	if draft.ImageURL != "https://cdn.example.ru/img/drel.jpg" {
		t.Errorf("ImageURL = %q", draft.ImageURL)
	}
	if draft.Price != 4500 {
		t.Errorf("Price = %v, want 4500", draft.Price)
	}
	if draft.SKU != "BSH-001" {
		t.Errorf("SKU = %q, want BSH-001", draft.SKU)
	}
	if draft.CategoryName != "Дрели" {
		t.Errorf("CategoryName = %q, want Дрели", draft.CategoryName)
	}
	if draft.Name != "Дрель ударная Bosch GSB 13 RE" {
		t.Errorf("Name = %q", draft.Name)
	}
	if !draft.IsActive {
		t.Error("classified product must default to active")
	}
}

func TestFieldClassifier_ShuffledColumns(t *testing.T) {
	classifier := NewFieldClassifier()

	// Латинское имя не проходит предикат категории, поэтому перестановка
	// колонок не меняет раскладку по слотам.
	rec := RawRecord{Fields: []string{
		"Impact Drill Bosch GSB 13 RE",
		"BSH-001",
		"https://cdn.example.ru/img/drel.jpg",
		"4500 руб.",
	}}

	draft, ok := classifier.Classify(rec)
	if !ok {
		t.Fatal("expected successful classification")
	}
	if draft.SKU != "BSH-001" || draft.Price != 4500 || draft.Name != "Impact Drill Bosch GSB 13 RE" {
		t.Errorf("slots misassigned: %+v", draft)
	}
}

func TestFieldClassifier_CyrillicNameClaimsCategoryFirst(t *testing.T) {
	classifier := NewFieldClassifier()

	// Приоритетный порядок - это контракт разрешения конфликтов: короткий
	// кириллический токен, пришедший первым, занимает слот категории.
	rec := RawRecord{Fields: []string{
		"Перфоратор Makita HR2470",
		"Перфораторы",
	}}

	draft, ok := classifier.Classify(rec)
	if !ok {
		t.Fatal("expected successful classification")
	}
	if draft.CategoryName != "Перфоратор Makita HR2470" {
		t.Errorf("CategoryName = %q", draft.CategoryName)
	}
	if draft.Name != "Перфораторы" {
		t.Errorf("Name = %q", draft.Name)
	}
}

func TestFieldClassifier_SlotClaimedOnce(t *testing.T) {
	classifier := NewFieldClassifier()

	rec := RawRecord{Fields: []string{
		"1200 руб.",
		"3400 руб.", // Второй ценовой токен: слот цены уже занят
		"Шуруповерт аккумуляторный Makita",
	}}

	draft, ok := classifier.Classify(rec)
	if !ok {
		t.Fatal("expected successful classification")
	}
	if draft.Price != 1200 {
		t.Errorf("Price = %v, want first claimed 1200", draft.Price)
	}
}

func TestFieldClassifier_NoName(t *testing.T) {
	classifier := NewFieldClassifier()

	rec := RawRecord{Fields: []string{"https://example.ru/a.jpg", "999 руб."}}
	if _, ok := classifier.Classify(rec); ok {
		t.Error("record without a name must fail classification")
	}
}

func TestFieldClassifier_EmptyTokens(t *testing.T) {
	classifier := NewFieldClassifier()

	rec := RawRecord{Fields: []string{"", "  ", ""}}
	if _, ok := classifier.Classify(rec); ok {
		t.Error("blank record must fail classification")
	}
}
