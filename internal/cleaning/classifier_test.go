package cleaning

import (
	"testing"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
)

func TestClassifyTestAccountBeforeEmail(t *testing.T) {
	c := NewClassifier([]string{"test-1"}, []string{"uat"})

	// A test account with a flagged email must be reported as a test
	// account, not as a flagged email.
	excl, ok := c.Classify("test-1", "someone@uatbuild.com")
	if ok {
		t.Fatal("Classify accepted a test account")
	}
	if excl.Reason != models.ReasonTestAccount {
		t.Fatalf("reason = %q, want %q", excl.Reason, models.ReasonTestAccount)
	}
	if excl.Details != "Known test user ID" {
		t.Fatalf("details = %q, want %q", excl.Details, "Known test user ID")
	}
}

func TestClassifyFlaggedEmail(t *testing.T) {
	c := NewClassifier(nil, []string{"uat"})

	excl, ok := c.Classify("u1", "builder@UATBUILD.com")
	if ok {
		t.Fatal("Classify accepted a flagged email")
	}
	if excl.Reason != models.ReasonFlaggedEmail {
		t.Fatalf("reason = %q, want %q", excl.Reason, models.ReasonFlaggedEmail)
	}
	if excl.Details != "Email: builder@UATBUILD.com" {
		t.Fatalf("details = %q", excl.Details)
	}
}

func TestClassifyEligible(t *testing.T) {
	c := NewClassifier([]string{"test-1"}, []string{"uat"})

	if _, ok := c.Classify("u1", "real.user@example.com"); !ok {
		t.Fatal("Classify rejected an eligible user")
	}
	if _, ok := c.Classify("u1", ""); !ok {
		t.Fatal("Classify rejected a user with an empty email")
	}
}
