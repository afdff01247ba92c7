package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"storefront/internal/services"
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators, gin validator'üne twphone kuralını ekler ve alan
// hatalarında Go alan adı yerine form etiketini kullanır. Birden fazla
// çağrılabilir.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("handlers: gin validator is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		registerErr = v.RegisterValidation("twphone", func(fl validator.FieldLevel) bool {
			return services.ValidatePhone(fl.Field().String()) == nil
		})
	})
	return registerErr
}

// ValidationMessages, binding hatasını form etiketine göre zh_TW
// mesajlarına çevirir.
func ValidationMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_form": "資料格式錯誤"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s 為必填", field)
		case "email":
			out[field] = fmt.Sprintf("%s 須為有效的電子信箱", field)
		case "twphone":
			value, _ := fe.Value().(string)
			if perr := services.ValidatePhone(value); perr != nil {
				out[field] = perr.Error()
			}
		default:
			out[field] = fmt.Sprintf("%s 格式不正確", field)
		}
	}
	return out
}
