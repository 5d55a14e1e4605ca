package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leapstack-labs/leapmodel/pkg/lint"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("issuecode", func(fl validator.FieldLevel) bool {
		_, ok := lint.Lookup(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks c and reports every invalid key.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", key, fe.Value(), fe.Param())
	case "issuecode":
		return fmt.Sprintf("%s: unknown issue code %q", key, fe.Value())
	case "required_if":
		return fmt.Sprintf("%s: required when %s", key, strings.ReplaceAll(fe.Param(), " ", "="))
	}
	return fmt.Sprintf("%s: failed %s", key, fe.Tag())
}
