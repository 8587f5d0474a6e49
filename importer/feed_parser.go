package importer

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"

	"catalogserver/normalization"
)

// Структуры XML-фида формата yml_catalog. Повторяемые элементы (category,
// offer, param) всегда объявлены срезами: одиночный элемент не должен
// схлопываться в скаляр.
type ymlCatalog struct {
	XMLName xml.Name `xml:"yml_catalog"`
	Shop    ymlShop  `xml:"shop"`
}

type ymlShop struct {
	Categories []ymlCategory `xml:"categories>category"`
	Offers     *ymlOffers    `xml:"offers"`
}

type ymlOffers struct {
	Offers []ymlOffer `xml:"offer"`
}

type ymlCategory struct {
	ID   string `xml:"id,attr"`
	Name string `xml:",chardata"`
}

type ymlOffer struct {
	ID          string     `xml:"id,attr"`
	Available   string     `xml:"available,attr"`
	Name        string     `xml:"name"`
	Model       string     `xml:"model"`
	Price       string     `xml:"price"`
	OldPrice    string     `xml:"oldprice"`
	CurrencyID  string     `xml:"currencyId"`
	CategoryID  string     `xml:"categoryId"`
	Picture     string     `xml:"picture"`
	Description string     `xml:"description"`
	Params      []ymlParam `xml:"param"`
	Text        string     `xml:",chardata"`
}

type ymlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Синтетический остаток для офферов без количества: фид сообщает только
// флаг наличия.
const feedSyntheticStock = 100

// FeedParser разбирает XML-фид магазина (категории + офферы) в общий
// нормализованный вид. Кодировка берется из XML-декларации фида.
type FeedParser struct {
	gate *ValidationGate
}

// NewFeedParser создает парсер фида.
func NewFeedParser() *FeedParser {
	return &FeedParser{gate: NewValidationGate()}
}

// Parse разбирает фид целиком. Полное отсутствие секции offers означает
// неисправимо сломанный фид: возвращается ошибка без частичного
// результата. Все остальные дефекты деградируют по-полевому, запись
// пропускается только если не проходит общий шлюз валидации.
func (fp *FeedParser) Parse(data []byte, summary *ImportSummary, maxRecords int) ([]NormalizedProduct, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var feed ymlCatalog
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: invalid XML feed: %v", ErrMalformedInput, err)
	}

	if feed.Shop.Offers == nil {
		return nil, fmt.Errorf("%w: feed has no offers section", ErrMalformedInput)
	}

	// Справочник категорий строится до обхода офферов. Отсутствие
	// секции categories не фатально: привязка категории останется
	// неразрешенной и уйдет на откуп вызывающему коду.
	categories := make(map[string]string, len(feed.Shop.Categories))
	for _, c := range feed.Shop.Categories {
		name := strings.TrimSpace(c.Name)
		if c.ID != "" && name != "" {
			categories[c.ID] = name
		}
	}

	var products []NormalizedProduct
	for idx, offer := range feed.Shop.Offers.Offers {
		summary.Total++

		if maxRecords > 0 && len(products) >= maxRecords {
			summary.RecordSkipped(idx+1, SkipRecordCapHit)
			continue
		}

		draft := fp.mapOffer(offer, categories)
		accepted, reason := fp.gate.Accept(draft, idx)
		if reason != "" {
			summary.RecordSkipped(idx+1, reason)
			continue
		}

		products = append(products, accepted)
		summary.RecordAccepted(accepted)
	}

	return products, nil
}

// mapOffer отображает поля оффера на черновик товара.
func (fp *FeedParser) mapOffer(offer ymlOffer, categories map[string]string) NormalizedProduct {
	name := strings.TrimSpace(offer.Name)
	if name == "" {
		// Фиды без <name> встречаются: текстовое содержимое оффера
		// служит запасным источником имени.
		name = strings.TrimSpace(offer.Text)
	}
	if model := strings.TrimSpace(offer.Model); model != "" {
		name = model
	}

	price, _ := ParsePrice(offer.Price)
	oldPrice, _ := ParsePrice(offer.OldPrice)

	active := !strings.EqualFold(strings.TrimSpace(offer.Available), "false")
	stock := 0
	if active {
		stock = feedSyntheticStock
	}

	currency := strings.TrimSpace(offer.CurrencyID)
	if strings.EqualFold(currency, "RUR") || strings.EqualFold(currency, "RUB") {
		currency = "₽"
	}

	draft := NormalizedProduct{
		Name:          name,
		SKU:           strings.TrimSpace(offer.ID),
		Price:         price,
		OriginalPrice: oldPrice,
		Currency:      currency,
		ImageURL:      strings.TrimSpace(offer.Picture),
		CategoryName:  categories[strings.TrimSpace(offer.CategoryID)],
		IsActive:      active,
		Stock:         stock,
		Description:   normalization.CleanDescription(offer.Description),
	}

	// Параметры оффера собираются в плоскую карту и сериализуются
	// в JSON, пустая карта не сохраняется.
	if len(offer.Params) > 0 {
		specs := make(map[string]string, len(offer.Params))
		for _, p := range offer.Params {
			key := strings.TrimSpace(p.Name)
			value := strings.TrimSpace(p.Value)
			if key != "" && value != "" {
				specs[key] = value
			}
		}
		if len(specs) > 0 {
			if serialized, err := json.Marshal(specs); err == nil {
				draft.Specs = string(serialized)
			}
		}
	}

	return draft
}
