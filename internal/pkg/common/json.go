package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict 解析 JSON 字符串到結構體（禁止未知欄位）
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, false)
}

// DecodeJSONStrict 使用統一設定解析 JSON，禁止未知欄位
func DecodeJSONStrict(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, true)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// StripCodeFences 去除 LLM 回應外層的 markdown 程式碼區塊標記
func StripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ExtractJSONBlock 從 LLM 回應中擷取第一個平衡的 {...} 區塊
// 模型可能在 JSON 前後附加說明文字；掃描時需忽略字串內的大括號
func ExtractJSONBlock(raw string) (string, error) {
	text := StripCodeFences(raw)

	start := strings.Index(text, "{")
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// StringSliceToString 將字符串切片轉換為逗號分隔的字符串
func StringSliceToString(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return strings.Join(slice, ", ")
}
