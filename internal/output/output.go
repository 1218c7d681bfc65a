package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// JSONMode controls whether output is JSON or human-readable
var JSONMode bool

// YAMLMode renders structured output as YAML. JSONMode wins when both are set.
var YAMLMode bool

// Stdout and Stderr are where results and errors go.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Exit terminates after PrintError. The CLI points it at the lifecycle
// hooks so deferred notices still print.
var Exit = os.Exit

// Result represents a generic result for JSON output
type Result struct {
	Success bool   `json:"success" yaml:"success"`
	Data    any    `json:"data,omitempty" yaml:"data,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Print outputs data. In JSON or YAML mode, marshals the data. Otherwise calls the textFn.
func Print(data any, textFn func()) {
	switch {
	case JSONMode:
		out, err := json.MarshalIndent(Result{Success: true, Data: data}, "", "  ")
		if err != nil {
			PrintError(err)
			return
		}
		fmt.Fprintln(Stdout, string(out))
	case YAMLMode:
		out, err := yaml.Marshal(data)
		if err != nil {
			PrintError(err)
			return
		}
		fmt.Fprint(Stdout, string(out))
	default:
		textFn()
	}
}

// PrintError outputs an error and exits with status 1. In JSON mode, marshals error to JSON.
func PrintError(err error) {
	if JSONMode {
		out, _ := json.MarshalIndent(Result{Success: false, Error: err.Error()}, "", "  ")
		fmt.Fprintln(Stdout, string(out))
		Exit(1)
		return
	}
	fmt.Fprintf(Stderr, "Error: %v\n", err)
	Exit(1)
}
