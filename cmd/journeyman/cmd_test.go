package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/journeyman/internal/browser"
	"github.com/alexisbeaulieu97/journeyman/internal/browser/browsertest"
	"github.com/alexisbeaulieu97/journeyman/internal/config"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
	"github.com/alexisbeaulieu97/journeyman/internal/reporter"
	"github.com/alexisbeaulieu97/journeyman/internal/runner"
)

const suiteYAML = `version: "1.0"
name: storefront
settings:
  reporter: default
  screenshots: false
  viewport: {width: 800, height: 600}
params:
  url: https://shop.test
journeys:
  - name: home
    steps:
      - {name: open, action: goto, url: "{{ .url }}"}
      - {name: title, action: assert_title, contains: Shop}
  - name: login
    steps:
      - {name: open, action: goto, url: "{{ .url }}/login"}
      - {name: submit, action: click, selector: "#submit"}
`

func writeSuite(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

// useFakeBrowsers swaps the chromium launcher for an in-memory one.
func useFakeBrowsers(t *testing.T) *browsertest.Launcher {
	t.Helper()

	launcher := browsertest.NewLauncher()
	launcher.Sites["https://shop.test"] = browsertest.Site{Title: "Shop"}
	launcher.Sites["https://shop.test/login"] = browsertest.Site{Title: "Login", Elements: map[string]string{"#submit": "Sign in"}}

	original := newBrowsers
	newBrowsers = func(ports.Logger) (*browser.Registry, error) {
		browsers := browser.NewRegistry()
		return browsers, browsers.Register(runner.DefaultBrowserType, launcher)
	}
	t.Cleanup(func() { newBrowsers = original })
	return launcher
}

func execute(args ...string) (string, string, error) {
	root := newRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommandSucceeds(t *testing.T) {
	launcher := useFakeBrowsers(t)
	path := writeSuite(t, suiteYAML)

	stdout, _, err := execute("run", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "journeyman • storefront")
	require.Contains(t, stdout, "2 passed, 0 failed")

	require.Equal(t, 2, launcher.Launches())
	require.Equal(t, ports.Viewport{Width: 800, Height: 600}, launcher.Browsers()[0].Options.Viewport)
	require.True(t, launcher.Browsers()[0].Options.Headless)
	require.Zero(t, launcher.Browsers()[0].Pages()[0].Screenshots())
}

func TestRunCommandFailsWhenAJourneyFails(t *testing.T) {
	launcher := useFakeBrowsers(t)
	delete(launcher.Sites, "https://shop.test/login")
	path := writeSuite(t, suiteYAML)

	stdout, _, err := execute("run", "--reporter", "json", path)
	require.ErrorIs(t, err, errJourneysFailed)

	var failed []reporter.Record
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var rec reporter.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		if rec.Error != "" && rec.Step == "" {
			failed = append(failed, rec)
		}
	}
	require.Len(t, failed, 1)
	require.Equal(t, "login", failed[0].Journey)
}

func TestRunCommandFlagsOverrideSuite(t *testing.T) {
	launcher := useFakeBrowsers(t)
	path := writeSuite(t, suiteYAML)

	stdout, _, err := execute("run",
		"--reporter", "silent",
		"--match", "^home$",
		"--headless=false",
		"--screenshots",
		"--params", `{"url": "https://shop.test"}`,
		path,
	)
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Equal(t, 1, launcher.Launches())
	require.False(t, launcher.Browsers()[0].Options.Headless)
	require.Equal(t, 2, launcher.Browsers()[0].Pages()[0].Screenshots())
}

func TestRunCommandWritesMetricsAndTraces(t *testing.T) {
	launcher := useFakeBrowsers(t)
	path := writeSuite(t, suiteYAML)
	dir := t.TempDir()
	metrics := filepath.Join(dir, "journeyman.prom")
	traces := filepath.Join(dir, "traces.json")

	_, _, err := execute("run", "--reporter", "silent", "--metrics-file", metrics, "--trace-file", traces, path)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.Contains(t, string(data), `journeyman_journeys_total{status="succeeded"} 2`)

	data, err = os.ReadFile(traces)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(data), `"Name":"journey.run"`))
	require.Equal(t, 4, strings.Count(string(data), `"Name":"step.run"`))
	require.Equal(t, 1, strings.Count(string(data), `"Name":"suite.run"`))

	for _, b := range launcher.Browsers() {
		require.Contains(t, b.Options.ExtraHeaders, "traceparent")
	}
}

func TestRunCommandRejectsBadInput(t *testing.T) {
	useFakeBrowsers(t)

	_, _, err := execute("run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "suite file does not exist")

	_, _, err = execute("run", t.TempDir())
	require.ErrorContains(t, err, "is a directory")

	_, _, err = execute("run", "--reporter", "xml", writeSuite(t, suiteYAML))
	require.ErrorContains(t, err, "reporter not found")

	_, _, err = execute("run", "--match", "([", writeSuite(t, suiteYAML))
	require.ErrorContains(t, err, "invalid --match expression")

	_, _, err = execute("run")
	require.Error(t, err)
}

func TestResolveRunPrecedence(t *testing.T) {
	t.Parallel()

	headless := false
	suite := &config.Suite{
		Settings: config.Settings{
			Browser:     "chrome",
			Reporter:    "log",
			Headless:    &headless,
			StepTimeout: 10,
			StepRate:    2,
			LoadState:   "domcontentloaded",
			Match:       "home",
		},
		Params: map[string]interface{}{"url": "https://a.test", "user": "ada"},
	}

	none := func(string) bool { return false }
	got, err := resolveRun(suite, &runFlags{params: "url: https://b.test"}, none)
	require.NoError(t, err)
	require.Equal(t, "chrome", got.options.BrowserType)
	require.Equal(t, "log", got.reporter)
	require.False(t, got.options.Launch.Headless)
	require.Equal(t, 10*time.Second, got.options.StepTimeout)
	require.Equal(t, 2.0, got.options.StepRate)
	require.Equal(t, ports.LoadStateDOMContentLoaded, got.options.LoadState)
	require.True(t, got.options.Match.MatchString("home page"))
	require.Equal(t, "https://b.test", got.options.Params["url"])
	require.Equal(t, "ada", got.options.Params["user"])
	require.Equal(t, "https://a.test", suite.Params["url"])

	all := func(string) bool { return true }
	got, err = resolveRun(suite, &runFlags{browser: "chromium", reporter: "json", headless: true, stepTimeout: time.Second, screenshots: false}, all)
	require.NoError(t, err)
	require.Equal(t, "chromium", got.options.BrowserType)
	require.Equal(t, "json", got.reporter)
	require.True(t, got.options.Launch.Headless)
	require.Equal(t, time.Second, got.options.StepTimeout)
	require.Zero(t, got.options.StepRate)
	require.True(t, got.options.DisableScreenshots)
	require.Nil(t, got.options.Match)

	_, err = resolveRun(suite, &runFlags{stepRate: -1}, all)
	require.Error(t, err)
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	params, err := parseParams("")
	require.NoError(t, err)
	require.Nil(t, params)

	params, err = parseParams(`{"user": {"name": "ada"}}`)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"name": "ada"}, params["user"])

	file := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(file, []byte("url: https://shop.test\n"), 0o600))
	params, err = parseParams("@" + file)
	require.NoError(t, err)
	require.Equal(t, "https://shop.test", params["url"])

	_, err = parseParams("[1, 2]")
	require.Error(t, err)
	_, err = parseParams("@" + filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestListCommand(t *testing.T) {
	path := writeSuite(t, suiteYAML)

	stdout, _, err := execute("list", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "JOURNEY")
	require.Contains(t, stdout, "home")
	require.Contains(t, stdout, "assert_title")
	require.Contains(t, stdout, "2 journey(s) in storefront")

	stdout, _, err = execute("list", "--json", path)
	require.NoError(t, err)
	var payload listJSONPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Equal(t, 2, payload.Count)
	require.Equal(t, "submit", payload.Journeys[1].Steps[1].Name)
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})

	version, commit, date = "1.2.3", "abcdef1", "2026-10-03"

	stdout, _, err := execute("version")
	require.NoError(t, err)
	require.Contains(t, stdout, "journeyman 1.2.3")
	require.Contains(t, stdout, "abcdef1")
	require.Contains(t, stdout, "2026-10-03")
	require.Contains(t, stdout, "go: go")

	stdout, _, err = execute("version", "--short")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", stdout)
}

func TestExitCodes(t *testing.T) {
	useFakeBrowsers(t)
	path := writeSuite(t, suiteYAML)

	require.Equal(t, 0, run([]string{"run", "--reporter", "silent", path}))
	require.Equal(t, 2, run([]string{"run", "--reporter", "silent", filepath.Join(t.TempDir(), "missing.yaml")}))
}
