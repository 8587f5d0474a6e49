package importer

import (
	"testing"
	"unicode/utf8"
)

// Кодирует строку в Windows-1251 для тестов (только кириллица и ASCII).
func encodeWindows1251(t *testing.T, s string) []byte {
	t.Helper()
	var out []byte
	for _, r := range s {
		switch {
		case r < 128:
			out = append(out, byte(r))
		case r == 'Ё':
			out = append(out, 0xA8)
		case r == 'ё':
			out = append(out, 0xB8)
		case r >= 'А' && r <= 'я':
			out = append(out, byte(0xC0+(r-'А')))
		default:
			t.Fatalf("cannot encode rune %q to Windows-1251", r)
		}
	}
	return out
}

func TestDecodeToUTF8_BOM(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		want     string
		encoding Encoding
	}{
		{
			name:     "UTF-8 BOM",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("Дрель")...),
			want:     "Дрель",
			encoding: EncodingUTF8,
		},
		{
			name:     "UTF-16 LE BOM",
			data:     []byte{0xFF, 0xFE, 0x14, 0x04, 0x40, 0x04}, // "Др"
			want:     "Др",
			encoding: EncodingUTF16LE,
		},
		{
			name:     "UTF-16 BE BOM",
			data:     []byte{0xFE, 0xFF, 0x04, 0x14, 0x04, 0x40},
			want:     "Др",
			encoding: EncodingUTF16BE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DecodeToUTF8(tt.data)
			if result.Text != tt.want {
				t.Errorf("Text = %q, want %q", result.Text, tt.want)
			}
			if result.Encoding != tt.encoding {
				t.Errorf("Encoding = %q, want %q", result.Encoding, tt.encoding)
			}
			if result.Fallback {
				t.Errorf("Fallback = true, want false")
			}
		})
	}
}

func TestDecodeToUTF8_PlainUTF8(t *testing.T) {
	result := DecodeToUTF8([]byte("Дрель ударная Bosch"))
	if result.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf-8", result.Encoding)
	}
	if result.Fallback {
		t.Errorf("valid UTF-8 must not be reported as fallback")
	}
	if result.Text != "Дрель ударная Bosch" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestDecodeToUTF8_Windows1251(t *testing.T) {
	original := "Дрель ударная;Электроинструменты;4500"
	data := encodeWindows1251(t, original)

	result := DecodeToUTF8(data)
	if result.Encoding != EncodingWindows1251 {
		t.Fatalf("Encoding = %q, want windows-1251", result.Encoding)
	}
	if result.Text != original {
		t.Errorf("Text = %q, want %q", result.Text, original)
	}
	if result.Fallback {
		t.Errorf("confident detection must not set Fallback")
	}
}

func TestDecodeToUTF8_FallbackNeverFails(t *testing.T) {
	// Бинарный мусор: детектор обязан вернуть результат, а не ошибку.
	data := []byte{0x00, 0x01, 0xFE, 0x03, 0x9C, 0x05, 0x00, 0x81}
	result := DecodeToUTF8(data)

	if !result.Fallback {
		t.Errorf("inconclusive input must set Fallback")
	}
	if result.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf-8 default", result.Encoding)
	}
	if !utf8.ValidString(result.Text) {
		t.Errorf("fallback text must be valid UTF-8, got %q", result.Text)
	}
}

func TestDecodeToUTF8_Empty(t *testing.T) {
	result := DecodeToUTF8(nil)
	if result.Text != "" || result.Fallback {
		t.Errorf("empty input: got %+v", result)
	}
}
