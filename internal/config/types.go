package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Action names accepted in a step's action field.
const (
	ActionGoto        = "goto"
	ActionClick       = "click"
	ActionFill        = "fill"
	ActionWaitFor     = "wait_for"
	ActionAssertText  = "assert_text"
	ActionAssertTitle = "assert_title"
	ActionEvaluate    = "evaluate"
	ActionSleep       = "sleep"
)

// Actions lists every supported action in documentation order.
var Actions = []string{
	ActionGoto, ActionClick, ActionFill, ActionWaitFor,
	ActionAssertText, ActionAssertTitle, ActionEvaluate, ActionSleep,
}

// Suite is one journeyman suite document.
type Suite struct {
	Version     string                 `yaml:"version" validate:"required,semver"`
	Name        string                 `yaml:"name" validate:"required,min=1,max=100"`
	Description string                 `yaml:"description,omitempty"`
	Settings    Settings               `yaml:"settings,omitempty"`
	Params      map[string]interface{} `yaml:"params,omitempty"`
	Journeys    []Journey              `yaml:"journeys" validate:"required,min=1,dive"`

	// Path is the file the suite was read from.
	Path string `yaml:"-"`
}

// Settings holds run-wide defaults. CLI flags take precedence.
type Settings struct {
	Browser      string            `yaml:"browser,omitempty" validate:"omitempty,oneof=chromium chrome"`
	Headless     *bool             `yaml:"headless,omitempty"`
	Reporter     string            `yaml:"reporter,omitempty" validate:"omitempty,oneof=default json tui log silent"`
	Screenshots  *bool             `yaml:"screenshots,omitempty"`
	StepTimeout  int               `yaml:"step_timeout,omitempty" validate:"omitempty,min=0,max=3600"`
	StepRate     float64           `yaml:"step_rate,omitempty" validate:"omitempty,min=0"`
	LoadState    string            `yaml:"load_state,omitempty" validate:"omitempty,oneof=load domcontentloaded"`
	Match        string            `yaml:"match,omitempty" validate:"omitempty,regexp"`
	ExecPath     string            `yaml:"exec_path,omitempty"`
	NoSandbox    bool              `yaml:"no_sandbox,omitempty"`
	Viewport     *Viewport         `yaml:"viewport,omitempty"`
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty" validate:"omitempty,dive,keys,required,endkeys"`
}

// Viewport is the page size in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" validate:"required,min=1,max=10000"`
	Height int `yaml:"height" validate:"required,min=1,max=10000"`
}

// HeadlessOr returns the headless setting, or def when unset.
func (s Settings) HeadlessOr(def bool) bool {
	if s.Headless == nil {
		return def
	}
	return *s.Headless
}

// ScreenshotsOr returns the screenshots setting, or def when unset.
func (s Settings) ScreenshotsOr(def bool) bool {
	if s.Screenshots == nil {
		return def
	}
	return *s.Screenshots
}

// Timeout converts StepTimeout to a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.StepTimeout) * time.Second
}

// Journey is a named list of declarative steps.
type Journey struct {
	Name        string `yaml:"name" validate:"required,min=1,max=200"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// Step is one declarative action. Which fields are required depends on
// Action; string fields are templates rendered against the run params.
type Step struct {
	Name       string `yaml:"name" validate:"required,min=1,max=200"`
	Action     string `yaml:"action" validate:"required,action"`
	URL        string `yaml:"url,omitempty" validate:"omitempty,template"`
	Selector   string `yaml:"selector,omitempty" validate:"omitempty,template"`
	Value      string `yaml:"value,omitempty" validate:"omitempty,template"`
	Contains   string `yaml:"contains,omitempty" validate:"omitempty,template"`
	Expression string `yaml:"expression,omitempty" validate:"omitempty,template"`
	Duration   string `yaml:"duration,omitempty" validate:"omitempty,duration"`

	// Line is the step's line in its suite file, zero when built in code.
	Line int `yaml:"-"`
}

var stepKeys = map[string]struct{}{
	"name": {}, "action": {}, "url": {}, "selector": {},
	"value": {}, "contains": {}, "expression": {}, "duration": {},
}

// UnmarshalYAML records the source line alongside the decoded fields and
// rejects unknown keys, which Node.Decode would otherwise drop silently.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if _, ok := stepKeys[key.Value]; !ok {
				return fmt.Errorf("line %d: field %s not found in step", key.Line, key.Value)
			}
		}
	}

	type rawStep Step
	var raw rawStep
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Step(raw)
	s.Line = value.Line
	return nil
}

// SleepDuration parses Duration. Validation guarantees it parses for sleep
// steps.
func (s Step) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Duration)
	if err != nil {
		return 0
	}
	return d
}
