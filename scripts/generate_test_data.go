package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// Генератор тестовых выгрузок поставщиков: строгий CSV и XML-фид.
// Используется для ручной проверки импорта на объемных файлах.

var toolNames = []string{
	"Дрель ударная", "Шуруповерт аккумуляторный", "Перфоратор", "Болгарка",
	"Лобзик электрический", "Рубанок", "Фрезер", "Сварочный аппарат",
	"Пила циркулярная", "Гайковерт", "Степлер строительный", "Краскопульт",
}

var toolBrands = []string{"Bosch", "Makita", "DeWalt", "Metabo", "Интерскол", "Зубр"}

var toolCategories = []string{"Электроинструменты", "Ручной инструмент", "Сварочное оборудование", "Расходные материалы"}

func main() {
	gofakeit.Seed(0)

	count := 500
	dataDir := filepath.Join("tests", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if err := writeStrictCSV(filepath.Join(dataDir, "supplier_strict.csv"), count); err != nil {
		log.Fatalf("Failed to write strict CSV: %v", err)
	}
	if err := writeFeed(filepath.Join(dataDir, "supplier_feed.xml"), count); err != nil {
		log.Fatalf("Failed to write feed: %v", err)
	}

	log.Printf("Generated %d records in %s", count, dataDir)
}

func randomProductName() string {
	return gofakeit.RandomString(toolNames) + " " + gofakeit.RandomString(toolBrands)
}

func randomSKU() string {
	return fmt.Sprintf("%s-%03d", strings.ToUpper(gofakeit.LetterN(3)), gofakeit.Number(1, 999))
}

func writeStrictCSV(path string, count int) error {
	var b strings.Builder
	b.WriteString("image;name;sku;price;currency;availability;category;subcategory;section;url;description\n")

	for i := 0; i < count; i++ {
		availability := "Нет"
		if gofakeit.Bool() {
			availability = "В наличии"
		}
		fmt.Fprintf(&b, "\"%s\";\"%s\";\"%s\";\"%d,%02d ₽\";\"RUB\";\"%s\";\"%s\";\"\";\"\";\"%s\";\"%s\"\n",
			gofakeit.URL(),
			randomProductName(),
			randomSKU(),
			gofakeit.Number(100, 90000), gofakeit.Number(0, 99),
			availability,
			gofakeit.RandomString(toolCategories),
			gofakeit.URL(),
			gofakeit.Sentence(8),
		)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeFeed(path string, count int) error {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<yml_catalog><shop>\n<categories>\n")
	for i, cat := range toolCategories {
		fmt.Fprintf(&b, "  <category id=\"%d\">%s</category>\n", i+1, cat)
	}
	b.WriteString("</categories>\n<offers>\n")

	for i := 0; i < count; i++ {
		price := gofakeit.Number(100, 90000)
		fmt.Fprintf(&b, "  <offer id=\"%s\" available=\"%t\">\n", randomSKU(), gofakeit.Bool())
		fmt.Fprintf(&b, "    <name>%s</name>\n", randomProductName())
		fmt.Fprintf(&b, "    <price>%d</price>\n", price)
		if gofakeit.Bool() {
			fmt.Fprintf(&b, "    <oldprice>%d</oldprice>\n", price+gofakeit.Number(100, 5000))
		}
		fmt.Fprintf(&b, "    <currencyId>RUR</currencyId>\n")
		fmt.Fprintf(&b, "    <categoryId>%d</categoryId>\n", gofakeit.Number(1, len(toolCategories)))
		fmt.Fprintf(&b, "    <param name=\"Вес\">%.1f кг</param>\n", gofakeit.Float64Range(0.5, 12))
		b.WriteString("  </offer>\n")
	}

	b.WriteString("</offers>\n</shop></yml_catalog>\n")
	return os.WriteFile(path, []byte(b.String()), 0644)
}
