package main

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/journeyman/internal/browser"
	"github.com/alexisbeaulieu97/journeyman/internal/browser/chromium"
	"github.com/alexisbeaulieu97/journeyman/internal/logger"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// newBrowsers builds the launcher registry. Tests replace it with a fake.
var newBrowsers = func(log ports.Logger) (*browser.Registry, error) {
	browsers := browser.NewRegistry()
	err := browsers.RegisterFactory(func() (ports.BrowserLauncher, error) {
		return chromium.NewLauncher(log), nil
	}, chromium.Names...)
	return browsers, err
}

func newLogger(verbose bool, w io.Writer) (*logger.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: isTerminal(w), Writer: w})
}

func isTerminal(w any) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
