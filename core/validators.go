package core

import (
	"reflect"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/trezcool/kalamu/core/richtext"
)

// rich text validation tags, usable with validate.Var when the bound comes from config
const (
	RichTextTag    = "richtext"
	RichTextMaxTag = "richtextmax"
)

var (
	// custom validation tags & texts
	absURLTag = "absurl"

	richTextText    = requiredText
	richTextMaxText = "this text is too long"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(absURLTag, absURLValidation)
	RegisterCustomTranslation(validate, translator, absURLTag, richtext.ErrInvalidURL.Error())

	_ = validate.RegisterValidation(RichTextTag, richTextValidation)
	RegisterCustomTranslation(validate, translator, RichTextTag, richTextText)

	_ = validate.RegisterValidation(RichTextMaxTag, richTextMaxValidation)
	RegisterCustomTranslation(validate, translator, RichTextMaxTag, richTextMaxText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// absURLValidation accepts the URLs the editor's link form accepts. Empty values pass, pair with required.
func absURLValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := richtext.ValidateURL(s)
	return err == nil
}

// richTextValidation rejects editor content that holds nothing but markup, like "<p><br></p>".
func richTextValidation(fl validator.FieldLevel) bool {
	return !richtext.Parse(fl.Field().String()).IsEmpty()
}

// richTextMaxValidation bounds the length of editor content as counted by richtext.Len.
func richTextMaxValidation(fl validator.FieldLevel) bool {
	max, err := strconv.Atoi(fl.Param())
	if err != nil || max <= 0 {
		return true
	}
	return richtext.Len(richtext.Parse(fl.Field().String())) <= max
}
