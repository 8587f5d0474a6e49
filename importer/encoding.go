package importer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding идентификатор обнаруженной кодировки входного файла.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1251 Encoding = "windows-1251"
)

// Размер выборки для эвристической проверки Windows-1251.
const encodingSampleSize = 1000

// DecodeResult результат декодирования входного буфера в UTF-8.
type DecodeResult struct {
	Text     string
	Encoding Encoding
	// Fallback выставляется, когда детектор не смог уверенно определить
	// кодировку и использовал UTF-8 по умолчанию. Это не ошибка, но
	// признак возможного мусора в текстовых полях ниже по пайплайну.
	Fallback bool
}

// DecodeToUTF8 определяет кодировку сырого буфера и декодирует его в UTF-8.
// Никогда не возвращает ошибку: неверное определение кодировки проявляется
// как испорченные названия товаров, а не как отказ импорта.
func DecodeToUTF8(data []byte) DecodeResult {
	if len(data) == 0 {
		return DecodeResult{Text: "", Encoding: EncodingUTF8}
	}

	// BOM-сигнатуры проверяем в порядке приоритета: UTF-8, UTF-16 LE, UTF-16 BE.
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return DecodeResult{Text: string(data[3:]), Encoding: EncodingUTF8}
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		return decodeUTF16(data, xunicode.LittleEndian, EncodingUTF16LE)
	}
	if bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		return decodeUTF16(data, xunicode.BigEndian, EncodingUTF16BE)
	}

	// Валидный UTF-8 не трогаем: декодирование русского UTF-8 как
	// Windows-1251 дает кириллический мусор, который обманывает
	// эвристику плотности букв.
	if utf8.Valid(data) {
		return DecodeResult{Text: string(data), Encoding: EncodingUTF8}
	}

	// Эвристика для однобайтовой кириллицы: декодируем выборку как
	// Windows-1251 и оцениваем долю кириллических букв среди всех рун.
	sample := data
	if len(sample) > encodingSampleSize {
		sample = sample[:encodingSampleSize]
	}
	if looksLikeWindows1251(sample) {
		decoder := charmap.Windows1251.NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err == nil && utf8.Valid(decoded) {
			return DecodeResult{Text: string(decoded), Encoding: EncodingWindows1251}
		}
	}

	// Кодировку определить не удалось: используем UTF-8 по умолчанию,
	// невалидные последовательности заменяются U+FFFD.
	return DecodeResult{
		Text:     string(bytes.ToValidUTF8(data, []byte("�"))),
		Encoding: EncodingUTF8,
		Fallback: true,
	}
}

func decodeUTF16(data []byte, endian xunicode.Endianness, enc Encoding) DecodeResult {
	decoder := xunicode.UTF16(endian, xunicode.UseBOM).NewDecoder()
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil || !utf8.Valid(decoded) {
		return DecodeResult{Text: string(bytes.ToValidUTF8(data, []byte("�"))), Encoding: EncodingUTF8, Fallback: true}
	}
	return DecodeResult{Text: string(decoded), Encoding: enc}
}

// looksLikeWindows1251 проверяет, дает ли декодирование выборки как
// Windows-1251 правдоподобную плотность кириллицы. Простое наличие
// кириллицы недостаточно: считаем долю кириллических букв относительно
// всех букв и шума управляющих символов.
func looksLikeWindows1251(sample []byte) bool {
	decoder := charmap.Windows1251.NewDecoder()
	decoded, _, err := transform.Bytes(decoder, sample)
	if err != nil || len(decoded) == 0 || !utf8.Valid(decoded) {
		return false
	}

	var cyrillic, letters, control int
	for _, r := range string(decoded) {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
			letters++
		case unicode.IsLetter(r):
			letters++
		case unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t':
			control++
		}
	}

	if cyrillic == 0 || letters == 0 {
		return false
	}
	// Декодирование случайных бинарных данных дает много управляющих
	// символов и редкую кириллицу: отсекаем оба случая.
	if control > len(decoded)/20 {
		return false
	}
	return cyrillic*3 >= letters
}
