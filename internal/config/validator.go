package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"

	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	actionSet     = func() map[string]struct{} {
		set := make(map[string]struct{}, len(Actions))
		for _, a := range Actions {
			set[a] = struct{}{}
		}
		return set
	}()
)

// requiredByAction lists the fields each action needs, by yaml name.
var requiredByAction = map[string][]string{
	ActionGoto:        {"url"},
	ActionClick:       {"selector"},
	ActionFill:        {"selector", "value"},
	ActionWaitFor:     {"selector"},
	ActionAssertText:  {"selector", "contains"},
	ActionAssertTitle: {"contains"},
	ActionEvaluate:    {"expression"},
	ActionSleep:       {"duration"},
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
			_, err := regexp.Compile(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("template", func(fl validator.FieldLevel) bool {
			_, err := template.New("field").Option("missingkey=error").Parse(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d >= 0
		})

		_ = v.RegisterValidation("action", func(fl validator.FieldLevel) bool {
			_, ok := actionSet[fl.Field().String()]
			return ok
		})

		v.RegisterStructValidation(validateStepFields, Step{})

		validateInst = v
	})

	return validateInst
}

// validateStepFields reports every field the step's action requires but
// the document left empty.
func validateStepFields(sl validator.StructLevel) {
	step := sl.Current().Interface().(Step)
	for _, field := range requiredByAction[step.Action] {
		if stepField(step, field) == "" {
			sl.ReportError(stepField(step, field), field, field, "required_for_action", step.Action)
		}
	}
}

func stepField(step Step, field string) string {
	switch field {
	case "url":
		return step.URL
	case "selector":
		return step.Selector
	case "value":
		return step.Value
	case "contains":
		return step.Contains
	case "expression":
		return step.Expression
	case "duration":
		return step.Duration
	}
	return ""
}

// ValidateSuite performs schema and cross-field validation on a suite.
func ValidateSuite(suite *Suite) error {
	if suite == nil {
		return journeyerrors.NewValidationError("suite", "suite is nil", nil)
	}

	if err := validatorInstance().Struct(suite); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(suite.Journeys))
	for i, j := range suite.Journeys {
		if first, exists := seen[j.Name]; exists {
			return journeyerrors.NewValidationError(
				fieldForJourney(i, "name"),
				fmt.Sprintf("duplicate journey name %q (first declared at journeys[%d])", j.Name, first),
				nil,
			)
		}
		seen[j.Name] = i
	}

	return nil
}

// ValidateStep validates a single step independent of its journey.
func ValidateStep(step Step) error {
	if err := validatorInstance().Struct(step); err != nil {
		return convertValidationError(err)
	}
	return nil
}
