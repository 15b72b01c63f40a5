package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal se valida como número (gte=0, gt=0).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindBody parsea el body JSON y valida los tags. Si devuelve false la respuesta ya fue escrita.
func bindBody(c *fiber.Ctx, in interface{}) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, invalidBody(c)
	}
	return checkStruct(c, in)
}

// bindQuery igual que bindBody para parámetros de query string.
func bindQuery(c *fiber.Ctx, in interface{}) (bool, error) {
	if err := c.QueryParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return checkStruct(c, in)
}

func checkStruct(c *fiber.Ctx, in interface{}) (bool, error) {
	err := validate.Struct(in)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, invalidBody(c)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Fields:  fields,
	})
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.items[0].cantidad" → "items[0].cantidad".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ValidIDParam responde 404 si el parámetro de ruta no es un UUID: un id mal formado es un
// recurso inexistente y no llega a la base.
func ValidIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uuid.Validate(c.Params(name)) != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
		}
		return c.Next()
	}
}
