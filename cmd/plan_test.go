package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlanCommand(t *testing.T) {
	originalPath := planConfigPath
	defer func() { planConfigPath = originalPath }()
	planConfigPath = filepath.Join(t.TempDir(), "absent.yaml")

	var buf bytes.Buffer
	planCmd.SetOut(&buf)
	defer planCmd.SetOut(nil)

	if err := runPlan(planCmd, nil); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}

	output := buf.String()
	for _, name := range []string{"datastore", "cache", "auth", "users"} {
		if !strings.Contains(output, name) {
			t.Errorf("Expected plan output to mention %s, got:\n%s", name, output)
		}
	}

	// The root of the diamond must come before its dependents.
	if strings.Index(output, "datastore") > strings.Index(output, "users") {
		t.Error("Expected datastore to be listed before users")
	}
}

func TestPlanCommand_SingleTarget(t *testing.T) {
	originalPath := planConfigPath
	defer func() { planConfigPath = originalPath }()
	planConfigPath = filepath.Join(t.TempDir(), "absent.yaml")

	var buf bytes.Buffer
	planCmd.SetOut(&buf)
	defer planCmd.SetOut(nil)

	if err := runPlan(planCmd, []string{"cache"}); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "datastore") || !strings.Contains(output, "cache") {
		t.Errorf("Expected chain beneath cache, got:\n%s", output)
	}
	if strings.Contains(output, "users") {
		t.Errorf("users is not in the chain beneath cache, got:\n%s", output)
	}
}

func TestPlanCommand_UnknownTarget(t *testing.T) {
	originalPath := planConfigPath
	defer func() { planConfigPath = originalPath }()
	planConfigPath = filepath.Join(t.TempDir(), "absent.yaml")

	if err := runPlan(planCmd, []string{"nonexistent"}); err == nil {
		t.Error("Expected an error for an unknown target")
	}
}
