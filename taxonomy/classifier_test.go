package taxonomy

import (
	"testing"

	"georeport/open311"
)

func TestClassifierOpenSetMembership(t *testing.T) {
	c := NewClassifier([]string{"10", "11", "12"}, []string{"10"})

	for _, id := range []string{"10", "11", "12"} {
		if got := c.Classify(id); got != open311.StatusOpen {
			t.Errorf("Classify(%q) = %q, want open", id, got)
		}
	}
	for _, id := range []string{"13", "99", ""} {
		if got := c.Classify(id); got != open311.StatusClosed {
			t.Errorf("Classify(%q) = %q, want closed", id, got)
		}
	}
}

func TestClassifierEmptyOpenSet(t *testing.T) {
	c := NewClassifier(nil, []string{"10"})

	for _, id := range []string{"10", "11", ""} {
		if got := c.Classify(id); got != open311.StatusClosed {
			t.Errorf("Classify(%q) = %q, want closed for empty open set", id, got)
		}
	}
}

func TestClassifierIgnoresClosedSet(t *testing.T) {
	// A status listed nowhere classifies closed purely by not being in
	// the open set; there is no closed-set lookup to get this wrong.
	c := NewClassifier([]string{"10"}, []string{"10"})
	if got := c.Classify("20"); got != open311.StatusClosed {
		t.Errorf("Classify(unlisted) = %q, want closed", got)
	}
}

func TestOpenStartFirstWins(t *testing.T) {
	c := NewClassifier(nil, []string{"7", "8", "9"})
	id, err := c.OpenStart()
	if err != nil {
		t.Fatalf("OpenStart: %v", err)
	}
	if id != "7" {
		t.Errorf("OpenStart = %q, want first configured id 7", id)
	}
}

func TestOpenStartUnconfigured(t *testing.T) {
	c := NewClassifier(nil, nil)
	if _, err := c.OpenStart(); err == nil {
		t.Fatal("expected error when no start status is configured")
	}
}
