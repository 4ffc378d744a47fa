package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

// convertValidationError turns the first validator failure into a
// ValidationError whose Field is the path as written in the suite file.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return journeyerrors.NewValidationError("suite", err.Error(), err)
	}

	fe := ves[0]
	field := yamlishFieldName(fe)
	return journeyerrors.NewValidationError(field, describe(field, fe), err)
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_for_action":
		return fmt.Sprintf("%s is required for action %q", field, fe.Param())
	case "action":
		return fmt.Sprintf("%s: unknown action %q (want one of %s)", field, fe.Value(), strings.Join(Actions, ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "semver":
		return fmt.Sprintf("%s must be a semantic version such as \"1.0\", got %q", field, fe.Value())
	case "regexp":
		return fmt.Sprintf("%s is not a valid regular expression", field)
	case "template":
		return fmt.Sprintf("%s is not a valid template", field)
	case "duration":
		return fmt.Sprintf("%s must be a duration such as \"500ms\", got %q", field, fe.Value())
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())
}

// yamlishFieldName drops the root type from the namespace, leaving the path
// as it is written in the document.
func yamlishFieldName(fe validator.FieldError) string {
	_, rest, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Namespace()
	}
	return rest
}

func fieldForJourney(index int, field string) string {
	return fmt.Sprintf("journeys[%d].%s", index, field)
}
