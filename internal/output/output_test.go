package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

func setup(t *testing.T) (stdout, stderr *bytes.Buffer, code *int) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	code = new(int)
	*code = -1

	prevOut, prevErr, prevExit := Stdout, Stderr, Exit
	prevJSON, prevYAML := JSONMode, YAMLMode
	Stdout, Stderr = stdout, stderr
	Exit = func(c int) { *code = c }
	t.Cleanup(func() {
		Stdout, Stderr, Exit = prevOut, prevErr, prevExit
		JSONMode, YAMLMode = prevJSON, prevYAML
	})
	return stdout, stderr, code
}

func TestPrintText(t *testing.T) {
	stdout, _, _ := setup(t)
	called := false
	Print(sample{Name: "a"}, func() { called = true })
	if !called {
		t.Error("text function not called")
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected structured output: %q", stdout.String())
	}
}

func TestPrintJSON(t *testing.T) {
	stdout, _, _ := setup(t)
	JSONMode = true
	Print(sample{Name: "a", Version: "1.0.0"}, func() { t.Error("text function called") })

	var got struct {
		Success bool   `json:"success"`
		Data    sample `json:"data"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout.String(), err)
	}
	if !got.Success || got.Data.Version != "1.0.0" {
		t.Errorf("got %+v", got)
	}
}

func TestPrintYAML(t *testing.T) {
	stdout, _, _ := setup(t)
	YAMLMode = true
	Print(sample{Name: "a", Version: "1.0.0"}, func() { t.Error("text function called") })

	want := "name: a\nversion: 1.0.0\n"
	if stdout.String() != want {
		t.Errorf("YAML = %q, want %q", stdout.String(), want)
	}
}

func TestPrintError(t *testing.T) {
	_, stderr, code := setup(t)
	PrintError(errors.New("boom"))
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	if stderr.String() != "Error: boom\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestPrintErrorJSON(t *testing.T) {
	stdout, stderr, code := setup(t)
	JSONMode = true
	PrintError(errors.New("boom"))
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), `"error": "boom"`) {
		t.Errorf("stdout = %q", stdout.String())
	}
}
