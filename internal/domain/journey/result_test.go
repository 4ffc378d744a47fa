package journey

import (
	"errors"
	"testing"
)

func TestResultsFailed(t *testing.T) {
	results := Results{
		"a": {Name: "a", Status: StatusSucceeded},
	}
	if results.Failed() {
		t.Fatal("expected no failure")
	}

	results["b"] = JourneyResult{Name: "b", Status: StatusFailed, Err: errors.New("x")}
	if !results.Failed() {
		t.Fatal("expected failure once a journey failed")
	}

	ok, failed := results.Summary()
	if ok != 1 || failed != 1 {
		t.Fatalf("unexpected summary %d/%d", ok, failed)
	}
	names := results.Names()
	if len(names) != 2 || names[0] != "a" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestJourneyResultFailedStep(t *testing.T) {
	res := JourneyResult{
		Steps: []StepOutcome{
			{Name: "one", Index: 1, Status: StatusSucceeded},
			{Name: "two", Index: 2, Status: StatusFailed},
		},
	}
	step, ok := res.FailedStep()
	if !ok || step.Name != "two" {
		t.Fatalf("expected second step to be reported, got %+v", step)
	}
}

func TestStatusOf(t *testing.T) {
	if StatusOf(nil) != StatusSucceeded {
		t.Fatal("nil error should succeed")
	}
	if StatusOf(errors.New("x")) != StatusFailed {
		t.Fatal("error should fail")
	}
}
