package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/goshape/i18n"
)

type upper struct{}

func (upper) Template(code string) string { return "${path}: " + code }

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })

	assert.Equal(t, "${path} is a required field", i18n.T("required"))
	assert.Equal(t, "${path} is invalid", i18n.T("no.such.code"))

	i18n.SetLanguage("ja")
	assert.Equal(t, "${path} は必須項目です", i18n.T("required"))

	i18n.SetLanguage("fr")
	assert.Equal(t, "${path} must be an integer", i18n.T("number.integer"))
}

func TestSetTranslator(t *testing.T) {
	t.Cleanup(func() { i18n.SetTranslator(nil) })

	i18n.SetTranslator(upper{})
	assert.Equal(t, "${path}: required", i18n.T("required"))

	i18n.SetTranslator(nil)
	assert.Equal(t, "${path} field has unspecified keys: ${unknown}", i18n.T("object.noUnknown"))
}
