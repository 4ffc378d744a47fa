package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/journeyman/internal/config"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	"github.com/alexisbeaulieu97/journeyman/internal/runner"
)

// runFlags holds the command-line overrides for a run. Zero values defer to
// the suite settings unless the flag was set explicitly.
type runFlags struct {
	browser     string
	reporter    string
	headless    bool
	params      string
	match       string
	screenshots bool
	stepTimeout time.Duration
	stepRate    float64
	metricsFile string
	traceFile   string
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.browser, "browser", "", "Browser to launch (chromium, chrome)")
	fs.StringVar(&f.reporter, "reporter", "", "Reporter (default, json, tui, log, silent)")
	fs.BoolVar(&f.headless, "headless", true, "Run the browser without a window")
	fs.StringVar(&f.params, "params", "", "Params as a YAML or JSON object, or @file")
	fs.StringVar(&f.match, "match", "", "Only run journeys whose names match this regular expression")
	fs.BoolVar(&f.screenshots, "screenshots", true, "Capture a screenshot after every successful step")
	fs.DurationVar(&f.stepTimeout, "step-timeout", 0, "Deadline for each step (0 for none)")
	fs.Float64Var(&f.stepRate, "step-rate", 0, "Maximum steps started per second (0 for unlimited)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	fs.StringVar(&f.traceFile, "trace-file", "", "Write OpenTelemetry spans to this file")
}

func validateSuitePaths(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("at least one suite file is required")
	}
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("suite path is empty")
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve suite path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("suite file does not exist: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("suite path %s is a directory", abs)
		}
	}
	return nil
}

// parseParams reads a YAML (and therefore JSON) object from the flag value,
// or from a file when the value starts with @.
func parseParams(value string) (map[string]interface{}, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read params file: %w", err)
		}
	}

	var params map[string]interface{}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("params must be a YAML or JSON object: %w", err)
	}
	return params, nil
}

// resolvedRun is the merge of suite settings and flags.
type resolvedRun struct {
	options     runner.Options
	reporter    string
	metricsFile string
	traceFile   string
}

func resolveRun(suite *config.Suite, flags *runFlags, changed func(string) bool) (resolvedRun, error) {
	s := suite.Settings

	params := make(map[string]interface{}, len(suite.Params))
	for k, v := range suite.Params {
		params[k] = v
	}
	overrides, err := parseParams(flags.params)
	if err != nil {
		return resolvedRun{}, err
	}
	for k, v := range overrides {
		params[k] = v
	}

	opts := runner.Options{
		Params:             params,
		BrowserType:        pick(changed("browser"), flags.browser, s.Browser),
		LoadState:          ports.LoadState(s.LoadState),
		StepTimeout:        s.Timeout(),
		StepRate:           s.StepRate,
		DisableScreenshots: !s.ScreenshotsOr(true),
		Launch: ports.LaunchOptions{
			Headless:     s.HeadlessOr(true),
			ExecPath:     s.ExecPath,
			NoSandbox:    s.NoSandbox,
			ExtraHeaders: s.ExtraHeaders,
		},
	}
	if s.Viewport != nil {
		opts.Launch.Viewport = ports.Viewport{Width: s.Viewport.Width, Height: s.Viewport.Height}
	}
	if changed("headless") {
		opts.Launch.Headless = flags.headless
	}
	if changed("screenshots") {
		opts.DisableScreenshots = !flags.screenshots
	}
	if changed("step-timeout") {
		opts.StepTimeout = flags.stepTimeout
	}
	if changed("step-rate") {
		opts.StepRate = flags.stepRate
	}
	if opts.StepTimeout < 0 || opts.StepRate < 0 {
		return resolvedRun{}, fmt.Errorf("step timeout and step rate must not be negative")
	}

	if expr := pick(changed("match"), flags.match, s.Match); expr != "" {
		re, err := regexp.Compile(expr)
		if err != nil {
			return resolvedRun{}, fmt.Errorf("invalid --match expression: %w", err)
		}
		opts.Match = re
	}

	return resolvedRun{
		options:     opts,
		reporter:    pick(changed("reporter"), flags.reporter, s.Reporter),
		metricsFile: flags.metricsFile,
		traceFile:   flags.traceFile,
	}, nil
}

func pick(useFlag bool, flagValue, setting string) string {
	if useFlag {
		return flagValue
	}
	return setting
}
