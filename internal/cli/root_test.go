package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	if root.Use != "oceanpack" {
		t.Errorf("Unexpected Use: %s", root.Use)
	}

	for _, flag := range []string{"config", "verbose", "quiet"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag: %s", flag)
		}
	}

	want := []string{"convert", "merge", "process", "detect", "inspect", "diagnose", "validate", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:    "version",
			args:    []string{"version"},
			wantOut: "oceanpack dev",
		},
		{
			name:     "unknown command",
			args:     []string{"frobnicate"},
			wantCode: 2,
			wantErr:  "unknown command",
		},
		{
			name:     "verbose and quiet",
			args:     []string{"--verbose", "--quiet", "version"},
			wantCode: 2,
			wantErr:  "mutually exclusive",
		},
		{
			name:     "missing argument",
			args:     []string{"inspect"},
			wantCode: 2,
			wantErr:  "accepts 1 arg",
		},
		{
			name:     "missing config",
			args:     []string{"--config", "/nonexistent/oceanpack.yaml", "inspect", "x.opds"},
			wantCode: 2,
			wantErr:  "loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Run(tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if tt.wantOut != "" && !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout missing %q: %s", tt.wantOut, stdout.String())
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr missing %q: %s", tt.wantErr, stderr.String())
			}
		})
	}
}
