package i18n

import "sync/atomic"

// Translator retrieves message templates for test names. Templates may embed
// ${param} placeholders (for example ${path}, ${min}, ${unknown}) which are
// interpolated by the engine when a validation error is created.
type Translator interface {
	Template(code string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Template(code string) string {
	switch t.lang {
	case "ja":
		if s, ok := ja[code]; ok {
			return s
		}
	}
	if s, ok := en[code]; ok {
		return s
	}
	return "${path} is invalid"
}

var en = map[string]string{
	"default":          "${path} is invalid",
	"required":         "${path} is a required field",
	"defined":          "${path} must be defined",
	"nullable":         "${path} cannot be null",
	"typeError":        "${path} must be a `${type}` type, but the final value was: `${value}`",
	"oneOf":            "${path} must be one of the following values: ${values}",
	"notOneOf":         "${path} must not be one of the following values: ${values}",
	"string.min":       "${path} must be at least ${min} characters",
	"string.max":       "${path} must be at most ${max} characters",
	"string.length":    "${path} must be exactly ${length} characters",
	"string.matches":   "${path} must match the following: \"${regex}\"",
	"number.min":       "${path} must be greater than or equal to ${min}",
	"number.max":       "${path} must be less than or equal to ${max}",
	"number.integer":   "${path} must be an integer",
	"array.min":        "${path} field must have at least ${min} items",
	"array.max":        "${path} field must have less than or equal to ${max} items",
	"array.length":     "${path} must have ${length} items",
	"object.noUnknown": "${path} field has unspecified keys: ${unknown}",
}

var ja = map[string]string{
	"default":          "${path} が不正です",
	"required":         "${path} は必須項目です",
	"defined":          "${path} は定義されている必要があります",
	"nullable":         "${path} は null にできません",
	"typeError":        "${path} は `${type}` 型である必要があります (値: `${value}`)",
	"oneOf":            "${path} は次のいずれかである必要があります: ${values}",
	"notOneOf":         "${path} は次のいずれでもない必要があります: ${values}",
	"string.min":       "${path} は ${min} 文字以上である必要があります",
	"string.max":       "${path} は ${max} 文字以下である必要があります",
	"string.length":    "${path} は ${length} 文字である必要があります",
	"string.matches":   "${path} は \"${regex}\" に一致する必要があります",
	"number.min":       "${path} は ${min} 以上である必要があります",
	"number.max":       "${path} は ${max} 以下である必要があります",
	"number.integer":   "${path} は整数である必要があります",
	"array.min":        "${path} は ${min} 件以上の要素が必要です",
	"array.max":        "${path} は ${max} 件以下の要素である必要があります",
	"array.length":     "${path} は ${length} 件の要素が必要です",
	"object.noUnknown": "${path} に未定義のキーがあります: ${unknown}",
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). A nil Translator restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T fetches the template for code using the current Translator.
func T(code string) string { return current.Load().(holder).tr.Template(code) }
