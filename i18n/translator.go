package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "name", "min" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {key} placeholders filled from data; unknown placeholders stay verbatim.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":        "invalid value {value}",
		"required":            "required attribute {name} missing",
		"unknown_attribute":   "unrecognized attribute {name}",
		"unknown_element":     "unrecognized element {name}",
		"duplicate_key":       "an entry with key {key} has already been added",
		"duplicate_attribute": "attribute {name} duplicated",
		"duplicate_element":   "element {name} may only appear once",
		"too_small":           "value must be at least {min}",
		"too_big":             "value must be at most {max}",
		"too_short":           "length must be at least {min}",
		"too_long":            "length must be at most {max}",
		"pattern":             "value does not match {pattern}",
		"invalid_enum":        "value {value} is not one of {expected}",
		"invalid_format":      "invalid {format} value {value}",
		"parse_error":         "parse error",
		"truncated":           "truncated",
		"unknown_extension":   "no extension registered for element {name}",
		"extension_conflict":  "extension {name} conflicts with an existing entry",
		"not_found":           "{kind} {name} not found",
		"ambiguous_match":     "more than one {kind} matches {name}",
	},
	"ja": {
		"invalid_type":        "値 {value} が不正です",
		"required":            "必須属性 {name} がありません",
		"unknown_attribute":   "未知の属性 {name} です",
		"unknown_element":     "未知の要素 {name} です",
		"duplicate_key":       "キー {key} のエントリは既に追加されています",
		"duplicate_attribute": "属性 {name} が重複しています",
		"duplicate_element":   "要素 {name} は一度しか指定できません",
		"too_small":           "{min} 以上である必要があります",
		"too_big":             "{max} 以下である必要があります",
		"too_short":           "長さは {min} 以上である必要があります",
		"too_long":            "長さは {max} 以下である必要があります",
		"pattern":             "値が {pattern} に一致しません",
		"invalid_enum":        "値 {value} は {expected} のいずれでもありません",
		"invalid_format":      "{format} の値 {value} が不正です",
		"parse_error":         "解析エラー",
		"truncated":           "打ち切られました",
		"unknown_extension":   "要素 {name} の拡張が登録されていません",
		"extension_conflict":  "拡張 {name} が既存のエントリと競合しています",
		"not_found":           "{kind} {name} が見つかりません",
		"ambiguous_match":     "{name} に一致する {kind} が複数あります",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return strings.NewReplacer("{value} ", "", " {value}", "", "{name} ", "", " {name}", "").Replace(tmpl)
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
