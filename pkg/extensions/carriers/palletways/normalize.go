package palletways

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/spf13/cast"
)

// Normalized 包装 JSON/XML 解码后的任意树形结构，
// 屏蔽承运商在标量、对象、列表之间摇摆的响应形态
type Normalized struct {
	v any
}

func NewNormalized(v any) Normalized { return Normalized{v: v} }

func (n Normalized) IsEmpty() bool { return n.v == nil }

func (n Normalized) Raw() any { return n.v }

// FirstOrSelf 列表取第一项，其余类型原样返回
func (n Normalized) FirstOrSelf() Normalized {
	if list, ok := n.v.([]any); ok {
		if len(list) == 0 {
			return Normalized{}
		}
		return Normalized{v: list[0]}
	}
	return n
}

// Get 取对象字段，非对象或字段缺失时为空
func (n Normalized) Get(key string) Normalized {
	if m, ok := n.v.(map[string]any); ok {
		if v, found := m[key]; found {
			return Normalized{v: v}
		}
	}
	return Normalized{}
}

// String 标量转字符串；对象若带 #text 取其文本
func (n Normalized) String() string {
	switch v := n.v.(type) {
	case nil:
		return ""
	case map[string]any:
		if text, ok := v["#text"]; ok {
			return cast.ToString(text)
		}
		return ""
	case []any:
		return ""
	default:
		return cast.ToString(v)
	}
}

// List 统一成切片：列表原样，空为 nil，其余包装为单元素
func (n Normalized) List() []Normalized {
	switch v := n.v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]Normalized, 0, len(v))
		for _, item := range v {
			out = append(out, Normalized{v: item})
		}
		return out
	default:
		return []Normalized{n}
	}
}

func parseJSON(data []byte) (Normalized, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Normalized{}, err
	}
	return Normalized{v: v}, nil
}

// parseXML 把 XML 递归转为 map 树。文本放 "#text"，属性放 "@名字"，
// 同名元素重复出现时折叠为列表
func parseXML(data []byte) (Normalized, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return Normalized{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			v, err := decodeElement(decoder, start)
			if err != nil {
				return Normalized{}, err
			}
			return Normalized{v: map[string]any{start.Name.Local: v}}, nil
		}
	}
}

func decodeElement(decoder *xml.Decoder, start xml.StartElement) (any, error) {
	node := map[string]any{}
	for _, attr := range start.Attr {
		node["@"+attr.Name.Local] = attr.Value
	}
	var text strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(decoder, t)
			if err != nil {
				return nil, err
			}
			name := t.Name.Local
			if existing, ok := node[name]; ok {
				if list, isList := existing.([]any); isList {
					node[name] = append(list, child)
				} else {
					node[name] = []any{existing, child}
				}
			} else {
				node[name] = child
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			trimmed := strings.TrimSpace(text.String())
			if len(node) == 0 {
				return trimmed, nil
			}
			if trimmed != "" {
				node["#text"] = trimmed
			}
			return node, nil
		}
	}
}

// normalizeBody 按响应内容分类：PDF 原样透传，HTML 报错页翻译为
// 分类错误，其余按 JSON 或 XML 解析
func normalizeBody(contentType string, body []byte) (Normalized, []byte, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf") || bytes.HasPrefix(body, []byte("%PDF")):
		return Normalized{}, body, nil
	case strings.Contains(ct, "html") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("<!DOCTYPE")) || bytes.HasPrefix(bytes.TrimSpace(body), []byte("<html")):
		return Normalized{}, nil, classifyErrorBody(body)
	case strings.Contains(ct, "json") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) || bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")):
		n, err := parseJSON(body)
		return n, nil, err
	default:
		n, err := parseXML(body)
		if err != nil {
			// 纯文本报错页也带同一套关键短语
			return Normalized{}, nil, classifyErrorBody(body)
		}
		return n, nil, nil
	}
}

// classifyErrorBody 把网关 HTML/纯文本报错页按关键短语归类
func classifyErrorBody(body []byte) error {
	text := strings.ToLower(string(body))
	switch {
	case strings.Contains(text, "not authorised") || strings.Contains(text, "not specified"):
		return &utils.CarrierAuthError{Message: bodyPrefix(body)}
	case strings.Contains(text, "does not exist") ||
		strings.Contains(text, "consignment data not found") ||
		strings.Contains(text, "not configured to produce labels"):
		return &utils.CarrierNotConfiguredError{Message: bodyPrefix(body)}
	default:
		return &utils.CarrierProtocolError{BodyPrefix: bodyPrefix(body)}
	}
}

func bodyPrefix(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
