package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	journeyerrors "github.com/alexisbeaulieu97/journeyman/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseSuite loads a suite file from disk, validates it, and returns the resulting model.
func ParseSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, journeyerrors.NewParseError(path, 0, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates a suite document. Unknown keys are rejected so
// a misspelled action field fails loudly instead of being ignored.
func Parse(path string, data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return nil, journeyerrors.NewParseError(path, extractLine(err), err).WithSource(data)
	}
	suite.Path = path

	if err := ValidateSuite(&suite); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &suite, nil
}

// ParseSuites parses every path in order and merges the results.
func ParseSuites(paths ...string) (*Suite, error) {
	if len(paths) == 0 {
		return nil, journeyerrors.NewValidationError("suite", "no suite files given", nil)
	}
	suites := make([]*Suite, 0, len(paths))
	for _, path := range paths {
		suite, err := ParseSuite(path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return Merge(suites...), nil
}

// Merge combines suites: settings and identity come from the first, params
// from later suites override earlier keys, and journeys concatenate in order.
func Merge(suites ...*Suite) *Suite {
	if len(suites) == 0 {
		return nil
	}
	merged := *suites[0]
	merged.Params = make(map[string]interface{})
	merged.Journeys = nil

	for _, suite := range suites {
		for k, v := range suite.Params {
			merged.Params[k] = v
		}
		merged.Journeys = append(merged.Journeys, suite.Journeys...)
	}
	return &merged
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
