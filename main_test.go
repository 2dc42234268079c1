package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/Claudiof5/eon-disaster-sim/internal/eon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintUsage_WritesHelpToStderr(t *testing.T) {
	saved := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	printUsage()

	w.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	os.Stderr = saved

	out := buf.String()
	assert.Contains(t, out, "Usage: eon-sim <command> [flags]")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "Flags:")
}

func TestRun_Unit(t *testing.T) {
	origEon := runEon
	defer func() { runEon = origEon }()

	tests := map[string]struct {
		args               []string
		stubEon            func([]string) error
		wantCode           int
		wantStderrContains []string
	}{
		"no args": {
			args:               []string{},
			wantCode:           1,
			wantStderrContains: []string{"Usage: eon-sim"},
		},
		"unknown command": {
			args:               []string{"badcmd"},
			wantCode:           1,
			wantStderrContains: []string{"unknown command"},
		},
		"run success": {
			args:     []string{"run"},
			stubEon:  func(_ []string) error { return nil },
			wantCode: 0,
		},
		"run config error": {
			args:               []string{"run"},
			stubEon:            func(_ []string) error { return fmt.Errorf("boom") },
			wantCode:           1,
			wantStderrContains: []string{"error: boom"},
		},
		"run invariant error": {
			args:     []string{"run"},
			stubEon:  func(_ []string) error { return &eon.InvariantError{Reason: "bad release"} },
			wantCode: 2,
		},
		"run passes args": {
			args: []string{"run", "-config", "x"},
			stubEon: func(a []string) error {
				assert.Equal(t, []string{"-config", "x"}, a)
				return nil
			},
			wantCode: 0,
		},
		"version": {
			args:     []string{"version"},
			wantCode: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.stubEon != nil {
				runEon = tt.stubEon
			} else {
				runEon = func([]string) error { return nil }
			}

			saved := os.Stderr
			r, w, err := os.Pipe()
			require.NoError(t, err)
			os.Stderr = w

			code := run(tt.args)

			w.Close()
			var buf bytes.Buffer
			_, err = buf.ReadFrom(r)
			require.NoError(t, err)
			os.Stderr = saved

			out := buf.String()

			assert.Equal(t, tt.wantCode, code)
			for _, want := range tt.wantStderrContains {
				assert.Contains(t, out, want)
			}
			if tt.wantCode == 0 {
				assert.NotContains(t, out, "error:")
			}
		})
	}
}

func TestMain_Subprocess(t *testing.T) {
	tests := map[string]struct {
		args               []string
		wantExitNonZero    bool
		wantOutputContains []string
	}{
		"no args": {
			args:               []string{},
			wantExitNonZero:    true,
			wantOutputContains: []string{"Usage: eon-sim"},
		},
		"unknown command": {
			args:               []string{"badcmd"},
			wantExitNonZero:    true,
			wantOutputContains: []string{"unknown command", "Usage: eon-sim"},
		},
		"run missing config file": {
			args:               []string{"run", "-config", "does-not-exist.yaml"},
			wantExitNonZero:    true,
			wantOutputContains: []string{"failed to load config", "error:"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, exitErr := runChildMain(t, tt.args...)

			if tt.wantExitNonZero {
				if exitErr == nil {
					t.Fatalf("expected child to exit non-zero, got success; output=%q", out)
				}
			} else {
				require.NoError(t, exitErr)
			}

			for _, want := range tt.wantOutputContains {
				assert.Contains(t, out, want)
			}
		})
	}
}

// runChildMain re-executes the test binary in a special child mode that
// calls main(). It returns combined stdout+stderr and any exec error.
func runChildMain(t *testing.T, args ...string) (string, error) {
	cmdArgs := append([]string{"-test.run=TestMain_ChildProcess", "--"}, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(), "EONSIM_TEST_MAIN=1")
	b, err := cmd.CombinedOutput()
	return string(b), err
}

// TestMain_ChildProcess runs inside the spawned child test binary. When the
// EONSIM_TEST_MAIN env var is set the child will call main() with the
// arguments provided after "--" on the command line and then exit.
func TestMain_ChildProcess(t *testing.T) {
	if os.Getenv("EONSIM_TEST_MAIN") != "1" {
		return
	}

	sep := "--"
	var progArgs []string
	for i, a := range os.Args {
		if a == sep && i+1 < len(os.Args) {
			progArgs = os.Args[i+1:]
			break
		}
	}
	if progArgs == nil {
		progArgs = []string{}
	}

	os.Args = append([]string{"eon-sim"}, progArgs...)
	main()
	t.Fatalf("main() returned unexpectedly")
}
