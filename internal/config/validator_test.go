package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

func validSuiteModel() *Suite {
	return &Suite{
		Version: "1.0",
		Name:    "suite",
		Journeys: []Journey{{
			Name:  "home",
			Steps: []Step{{Name: "open", Action: ActionGoto, URL: "https://shop.test"}},
		}},
	}
}

func TestValidateSuite(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		mutate    func(*Suite)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(*Suite) {}},
		{name: "nil params and settings are fine", mutate: func(s *Suite) { s.Params = nil }},
		{
			name:      "bad version",
			mutate:    func(s *Suite) { s.Version = "beta" },
			wantField: "version",
			wantMsg:   "semantic version",
		},
		{
			name:      "unknown browser",
			mutate:    func(s *Suite) { s.Settings.Browser = "webkit" },
			wantField: "settings.browser",
			wantMsg:   `must be one of [chromium, chrome], got "webkit"`,
		},
		{
			name:      "unknown reporter",
			mutate:    func(s *Suite) { s.Settings.Reporter = "xml" },
			wantField: "settings.reporter",
		},
		{
			name:      "bad match expression",
			mutate:    func(s *Suite) { s.Settings.Match = "([" },
			wantField: "settings.match",
		},
		{
			name:      "zero viewport",
			mutate:    func(s *Suite) { s.Settings.Viewport = &Viewport{Width: 0, Height: 10} },
			wantField: "settings.viewport.width",
		},
		{
			name:      "journey without steps",
			mutate:    func(s *Suite) { s.Journeys[0].Steps = nil },
			wantField: "journeys[0].steps",
		},
		{
			name:      "unknown action",
			mutate:    func(s *Suite) { s.Journeys[0].Steps[0].Action = "hover" },
			wantField: "journeys[0].steps[0].action",
			wantMsg:   "unknown action",
		},
		{
			name:      "action field missing",
			mutate:    func(s *Suite) { s.Journeys[0].Steps[0].URL = "" },
			wantField: "journeys[0].steps[0].url",
			wantMsg:   `required for action "goto"`,
		},
		{
			name: "fill needs a value",
			mutate: func(s *Suite) {
				s.Journeys[0].Steps[0] = Step{Name: "type", Action: ActionFill, Selector: "#q"}
			},
			wantField: "journeys[0].steps[0].value",
		},
		{
			name: "broken template",
			mutate: func(s *Suite) {
				s.Journeys[0].Steps[0].URL = "{{ .url"
			},
			wantField: "journeys[0].steps[0].url",
		},
		{
			name: "bad sleep duration",
			mutate: func(s *Suite) {
				s.Journeys[0].Steps[0] = Step{Name: "nap", Action: ActionSleep, Duration: "soon"}
			},
			wantField: "journeys[0].steps[0].duration",
			wantMsg:   `got "soon"`,
		},
		{
			name: "duplicate journey names",
			mutate: func(s *Suite) {
				s.Journeys = append(s.Journeys, s.Journeys[0])
			},
			wantField: "journeys[1].name",
			wantMsg:   "duplicate journey name",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			suite := validSuiteModel()
			tc.mutate(suite)
			err := ValidateSuite(suite)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *journeyerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantField, validationErr.Field)
			if tc.wantMsg != "" {
				require.Contains(t, validationErr.Message, tc.wantMsg)
			}
		})
	}
}

func TestValidateSuiteNil(t *testing.T) {
	t.Parallel()

	require.Error(t, ValidateSuite(nil))
}

func TestValidateStepEveryActionAcceptsItsMinimalFields(t *testing.T) {
	t.Parallel()

	steps := []Step{
		{Name: "a", Action: ActionGoto, URL: "https://shop.test"},
		{Name: "b", Action: ActionClick, Selector: "button"},
		{Name: "c", Action: ActionFill, Selector: "#q", Value: "shoes"},
		{Name: "d", Action: ActionWaitFor, Selector: "main"},
		{Name: "e", Action: ActionAssertText, Selector: "h1", Contains: "Shop"},
		{Name: "f", Action: ActionAssertTitle, Contains: "Shop"},
		{Name: "g", Action: ActionEvaluate, Expression: "document.title"},
		{Name: "h", Action: ActionSleep, Duration: "1s"},
	}
	require.Len(t, steps, len(Actions))

	for _, step := range steps {
		require.NoError(t, ValidateStep(step), step.Action)
	}
}
