package importer

import (
	"errors"
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<yml_catalog date="2025-11-10 03:00">
  <shop>
    <name>Инструменты</name>
    <categories>
      <category id="10">Электроинструменты</category>
      <category id="11">Ручной инструмент</category>
    </categories>
    <offers>
      <offer id="BSH-001" available="true">
        <name>Дрель ударная Bosch GSB 13 RE</name>
        <price>1000</price>
        <oldprice>1200</oldprice>
        <currencyId>RUR</currencyId>
        <categoryId>10</categoryId>
        <picture>https://cdn.example.ru/img/bsh-001.jpg</picture>
        <description>&lt;p&gt;Мощная ударная дрель&lt;/p&gt;</description>
        <param name="Мощность">600 Вт</param>
        <param name="Вес">1.8 кг</param>
      </offer>
      <offer id="MKT-002" available="false">
        <name>Молоток слесарный</name>
        <price>450</price>
        <currencyId>RUB</currencyId>
        <categoryId>11</categoryId>
      </offer>
    </offers>
  </shop>
</yml_catalog>`

func TestFeedParser_Parse(t *testing.T) {
	parser := NewFeedParser()
	summary := NewImportSummary(FormatYML)

	products, err := parser.Parse([]byte(sampleFeed), summary, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}

	drill := products[0]
	if drill.Name != "Дрель ударная Bosch GSB 13 RE" {
		t.Errorf("Name = %q", drill.Name)
	}
	if drill.SKU != "BSH-001" {
		t.Errorf("SKU = %q", drill.SKU)
	}
	if drill.Price != 1000 {
		t.Errorf("Price = %v, want 1000", drill.Price)
	}
	if drill.OriginalPrice != 1200 {
		t.Errorf("OriginalPrice = %v, want 1200", drill.OriginalPrice)
	}
	if drill.Currency != "₽" {
		t.Errorf("Currency = %q, want ₽", drill.Currency)
	}
	if drill.CategoryName != "Электроинструменты" {
		t.Errorf("CategoryName = %q, category id 10 must resolve", drill.CategoryName)
	}
	if !drill.IsActive {
		t.Error("available=\"true\" must yield an active product")
	}
	if drill.Stock != feedSyntheticStock {
		t.Errorf("Stock = %d, want synthetic %d", drill.Stock, feedSyntheticStock)
	}
	if drill.Description != "Мощная ударная дрель" {
		t.Errorf("Description = %q, want HTML stripped", drill.Description)
	}
	if !strings.Contains(drill.Specs, "Мощность") || !strings.Contains(drill.Specs, "600 Вт") {
		t.Errorf("Specs = %q, want serialized params", drill.Specs)
	}

	hammer := products[1]
	if hammer.IsActive {
		t.Error("available=\"false\" must yield an inactive product")
	}
	if hammer.Stock != 0 {
		t.Errorf("inactive offer Stock = %d, want 0", hammer.Stock)
	}
	if hammer.OriginalPrice != 0 {
		t.Errorf("OriginalPrice = %v, want 0 without oldprice", hammer.OriginalPrice)
	}

	if summary.Accepted != 2 || summary.Total != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestFeedParser_SingleOfferSingleCategory(t *testing.T) {
	// Одиночные повторяемые элементы не должны схлопываться.
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<yml_catalog><shop>
  <categories><category id="1">Крепеж</category></categories>
  <offers>
    <offer id="S-1"><name>Саморезы оцинкованные 3.5x35</name><price>120</price><categoryId>1</categoryId></offer>
  </offers>
</shop></yml_catalog>`

	parser := NewFeedParser()
	summary := NewImportSummary(FormatYML)

	products, err := parser.Parse([]byte(feed), summary, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("products = %d, want 1", len(products))
	}
	if products[0].CategoryName != "Крепеж" {
		t.Errorf("CategoryName = %q", products[0].CategoryName)
	}
}

func TestFeedParser_MissingOffers(t *testing.T) {
	feed := `<?xml version="1.0"?><yml_catalog><shop><name>Магазин</name></shop></yml_catalog>`

	parser := NewFeedParser()
	summary := NewImportSummary(FormatYML)

	_, err := parser.Parse([]byte(feed), summary, 0)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestFeedParser_InvalidXML(t *testing.T) {
	parser := NewFeedParser()
	summary := NewImportSummary(FormatYML)

	_, err := parser.Parse([]byte("<yml_catalog><shop><offers>"), summary, 0)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestFeedParser_ModelOverridesName(t *testing.T) {
	feed := `<?xml version="1.0"?>
<yml_catalog><shop>
  <offers>
    <offer id="M-1"><name>Болгарка</name><model>УШМ Makita GA5030</model><price>3200</price></offer>
  </offers>
</shop></yml_catalog>`

	parser := NewFeedParser()
	summary := NewImportSummary(FormatYML)

	products, err := parser.Parse([]byte(feed), summary, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(products) != 1 || products[0].Name != "УШМ Makita GA5030" {
		t.Fatalf("products = %+v, want model as name", products)
	}
}

func TestFeedParser_OfferWithoutPriceSkipped(t *testing.T) {
	feed := `<?xml version="1.0"?>
<yml_catalog><shop>
  <offers>
    <offer id="X-1"><name>Уровень пузырьковый 600мм</name></offer>
    <offer id="X-2"><name>Рулетка 5м</name><price>250</price></offer>
  </offers>
</shop></yml_catalog>`

	parser := NewFeedParser()
	summary := NewImportSummary(FormatYML)

	products, err := parser.Parse([]byte(feed), summary, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("products = %d, want 1", len(products))
	}
	if summary.Skipped != 1 || summary.SkipsByReason[SkipInvalidPrice] != 1 {
		t.Errorf("summary = %+v, want one invalid_price skip", summary)
	}
}
