package core

import (
	"fmt"

	"gopkg.in/go-playground/validator.v9"
)

var validate = validator.New()

// missing validates a form struct and returns one message per failed field, in field order.
// messages maps struct field names to user-facing messages.
func missing(form interface{}, messages map[string]string) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()} // programming error, e.g. form is not a struct
	}
	var result = make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		if msg, ok := messages[fieldErr.Field()]; ok {
			result = append(result, msg)
		} else {
			result = append(result, fmt.Sprintf("The %s is not valid.", fieldErr.Field()))
		}
	}
	return result
}
