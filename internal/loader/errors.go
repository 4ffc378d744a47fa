package loader

import (
	"fmt"

	"github.com/alexisbeaulieu97/journeyman/pkg/diff"
)

// AssertionError reports an assert_* step whose observed value did not
// contain the expected text.
type AssertionError struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s does not contain %q\n%s", e.Subject, e.Expected, e.Diff())
}

// Diff renders the mismatch between the expected and actual text.
func (e *AssertionError) Diff() string {
	return diff.Mismatch(e.Expected, e.Actual)
}
