package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("suite.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "suite.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "suite.yaml:12")
}

func TestParseErrorQuotesSourceLine(t *testing.T) {
	t.Parallel()

	doc := []byte("name: shop\r\njourneys: [\nsteps: 3\n")
	err := NewParseError("suite.yaml", 2, fmt.Errorf("did not find expected node")).WithSource(doc)
	require.Equal(t, "journeys: [", err.Source)
	require.Contains(t, err.Error(), "   2 | journeys: [")

	outside := NewParseError("suite.yaml", 40, fmt.Errorf("boom")).WithSource(doc)
	require.Empty(t, outside.Source)
	require.NotContains(t, outside.Error(), "|")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("journeys[1].steps[0].url", "is required for goto", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "journeys[1].steps[0].url", validationErr.Field)
	require.Equal(t, "invalid suite: journeys[1].steps[0].url: is required for goto", err.Error())

	named := NewValidationError("version", "version must be a semantic version", nil)
	require.Equal(t, "invalid suite: version must be a semantic version", named.Error())
}

func TestStepErrorIncludesJourneyAndStep(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("element not found")
	err := NewStepError("checkout", "click buy", 2, underlying)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "checkout", stepErr.Journey)
	require.Equal(t, 2, stepErr.Index)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "click buy")
}

func TestSessionErrorIncludesPhase(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("executable not found")
	err := NewSessionError("login", PhaseLaunch, underlying)

	var sessionErr *SessionError
	require.ErrorAs(t, err, &sessionErr)
	require.Equal(t, PhaseLaunch, sessionErr.Phase)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "browser launch failed")
}

func TestSetupAndReporterErrorsUnwrap(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("boom")
	require.True(t, stdErrors.Is(NewSetupError("j", underlying), underlying))
	require.True(t, stdErrors.Is(NewReporterError("step:end", underlying), underlying))
}

func TestNilErrorsRenderEmpty(t *testing.T) {
	t.Parallel()

	var stepErr *StepError
	require.Empty(t, stepErr.Error())
	require.Nil(t, stepErr.Unwrap())

	var sessionErr *SessionError
	require.Empty(t, sessionErr.Error())
}
