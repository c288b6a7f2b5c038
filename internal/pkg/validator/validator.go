// Package validator concentra a validação de payloads com go-playground/validator,
// traduzindo as falhas para o ValidationError da aplicação.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "shoemarket/internal/errors"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Mensagens usam o nome do campo no JSON, que é o que o cliente conhece.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate valida a struct pelas tags `validate` e devolve um apperrors.ValidationError
// com todas as falhas encontradas.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInternalError("falha ao validar payload", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("campo '%s' %s", fieldPath(fe), msgForTag(fe)))
	}
	return apperrors.NewValidationError(strings.Join(msgs, "; "))
}

// fieldPath remove o nome da struct raiz do namespace (CheckoutRequest.shippingInfo.email → shippingInfo.email).
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "é obrigatório"
	case "email":
		return "deve ser um e-mail válido"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("deve ter ao menos %s item(ns)", fe.Param())
		}
		return fmt.Sprintf("deve ter ao menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
	case "gt":
		return fmt.Sprintf("deve ser maior que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "numeric":
		return "deve conter apenas dígitos"
	case "oneof":
		return fmt.Sprintf("deve ser um de: %s", fe.Param())
	default:
		return fmt.Sprintf("falhou na validação '%s'", fe.Tag())
	}
}
