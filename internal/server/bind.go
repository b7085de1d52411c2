package server

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	apperrors "orianna-agent/internal/common/errors"
)

type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// validatorInstance returns the shared validator with english messages that
// use json tag names.
func validatorInstance() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("excludesall", trans,
			func(ut ut.Translator) error {
				return ut.Add("excludesall", "{0} must not contain any of '{1}'", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("excludesall", fe.Field(), fe.Param())
				return msg
			},
		)

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// validateStruct runs struct tag validation and reports the first failure as
// a 400-class error.
func validateStruct(v interface{}) error {
	svc := validatorInstance()
	err := svc.validate.Struct(v)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return apperrors.NewInvalidRequestError(verrs[0].Translate(svc.translator)).
			WithMetadata("field", verrs[0].Field())
	}
	return apperrors.NewInvalidRequestError(err.Error())
}
