package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
)

// custom validation tags
const (
	hhmmTag     = "hhmm"
	weekdayTag  = "weekday"
	slotTypeTag = "slottype"
	notBlankTag = "notblank"
)

var (
	registerOnce sync.Once
	translator   ut.Translator
)

// RegisterValidators installs the custom tags and English messages on gin's
// validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		uni := ut.New(en.New())
		translator, _ = uni.GetTranslator("en")
		_ = entranslations.RegisterDefaultTranslations(v, translator)

		// report JSON / form names instead of Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		_ = v.RegisterValidation(hhmmTag, func(fl validator.FieldLevel) bool {
			return timetable.ValidClock(fl.Field().String())
		})
		_ = v.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
			return model.IsValidDay(fl.Field().String())
		})
		_ = v.RegisterValidation(slotTypeTag, func(fl validator.FieldLevel) bool {
			return model.IsValidSlotType(fl.Field().String())
		})
		_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		messages := map[string]string{
			hhmmTag:     "{0} must be a 24-hour time in HH:MM form",
			weekdayTag:  "{0} must be a day name from Monday to Sunday",
			slotTypeTag: "{0} must be one of " + strings.Join(model.SlotTypes, ", "),
			notBlankTag: "{0} cannot be blank",
		}
		for tag, msg := range messages {
			tag, msg := tag, msg
			_ = v.RegisterTranslation(tag, translator,
				func(t ut.Translator) error { return t.Add(tag, msg, true) },
				func(t ut.Translator, fe validator.FieldError) string {
					s, _ := t.T(tag, fe.Field())
					return s
				})
		}
	})
}

// FieldErrors flattens a binding error into field → message pairs.
// Returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if translator != nil {
			out[key] = fe.Translate(translator)
		} else {
			out[key] = fe.Error()
		}
	}
	return out
}

// fieldPath drops the struct type segments (root and embedded structs) from
// a validator namespace, leaving the JSON path: "slots[0].start_time".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}
