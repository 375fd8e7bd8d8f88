package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definitionsYAML = `
commands:
  - name: SignUp
    schema:
      type: object
      required: [name]
      properties:
        name: {type: string, minLength: 1}
        age: {type: integer, minimum: 13}
  - name: Ping
    validations: false
`

func writeDefinitions(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interaction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definitionsYAML), 0o600))
	return path
}

func quietEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OTEL_ENABLED", "REDIS_ADDR", "JOURNAL_DSN", "THROTTLE_RPS", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "ERROR")
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Run(append([]string{"interaction"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := run()
	assert.Equal(t, exitRuntime, code)
	assert.Contains(t, stderr, "USAGE")

	code, stdout, _ := run("help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "journal")

	code, _, stderr = run("frobnicate")
	assert.Equal(t, exitRuntime, code)
	assert.Contains(t, stderr, "Unknown command: frobnicate")

	code, stdout, _ = run("version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "interaction dev")
}

func TestRunCmd_Succeeds(t *testing.T) {
	quietEnv(t)
	defs := writeDefinitions(t)

	code, stdout, stderr := run("run", "-d", defs, "-c", "sign_up", "--args", `{"name":"John Smith"}`, "--json")
	require.Equal(t, exitOK, code, stderr)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "succeeded", res["outcome"])
	assert.Equal(t, "sign_up_success", res["event"])
	assert.Equal(t, map[string]any{"name": "John Smith"}, res["payload"])
	assert.NotContains(t, res, "errors")
}

func TestRunCmd_ValidationFailure(t *testing.T) {
	quietEnv(t)
	defs := writeDefinitions(t)

	code, stdout, _ := run("run", "-d", defs, "-c", "SignUp", "--args", `{"age":9}`)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout, "sign_up failed (sign_up_failure)")
	assert.Contains(t, stdout, "name is required")
}

func TestRunCmd_ForcedFailure(t *testing.T) {
	quietEnv(t)
	defs := writeDefinitions(t)

	code, stdout, _ := run("run", "-d", defs, "-c", "sign_up", "--args", `{"name":"x"}`, "--fail", "quota_exceeded")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout, "reason: quota_exceeded")
}

func TestRunCmd_ArgsFromFile(t *testing.T) {
	quietEnv(t)
	defs := writeDefinitions(t)
	argsPath := filepath.Join(t.TempDir(), "args.json")
	require.NoError(t, os.WriteFile(argsPath, []byte(`{"anything":true}`), 0o600))

	code, stdout, stderr := run("run", "-d", defs, "-c", "ping", "--args", "@"+argsPath)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "ping succeeded")
}

func TestRunCmd_Errors(t *testing.T) {
	quietEnv(t)
	defs := writeDefinitions(t)

	tests := map[string][]string{
		"missing command": {"run", "-d", defs},
		"unknown command": {"run", "-d", defs, "-c", "nope"},
		"bad args":        {"run", "-d", defs, "-c", "ping", "--args", "[1]"},
		"missing file":    {"run", "-d", filepath.Join(t.TempDir(), "none.yaml"), "-c", "ping"},
		"bad flag":        {"run", "--bogus"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			code, _, _ := run(args...)
			assert.Equal(t, exitRuntime, code)
		})
	}
}

func TestValidateCmd(t *testing.T) {
	defs := writeDefinitions(t)

	code, stdout, _ := run("validate", "-d", defs, "-c", "sign_up", "--args", `{"name":"Ann","age":30}`)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "sign_up: valid")

	code, stdout, _ = run("validate", "-d", defs, "-c", "sign_up", "--args", `{"name":"","age":9}`, "--json")
	assert.Equal(t, exitFailed, code)
	var res struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "name")
	assert.Contains(t, res.Errors, "age")

	code, stdout, _ = run("validate", "-d", defs, "-c", "ping")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "ping has no schema")
}

func TestEventsCmd(t *testing.T) {
	defs := writeDefinitions(t)

	code, stdout, _ := run("events", "-d", defs)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "sign_up_success sign_up_failure")
	assert.Contains(t, stdout, "ping_success ping_failure")
}

func TestJournalCmd_RecordsRuns(t *testing.T) {
	quietEnv(t)
	defs := writeDefinitions(t)
	dsn := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("JOURNAL_DSN", dsn)
	t.Setenv("JOURNAL_DRIVER", "sqlite")

	code, _, stderr := run("run", "-d", defs, "-c", "sign_up", "--args", `{"name":"Ann"}`)
	require.Equal(t, exitOK, code, stderr)
	code, _, _ = run("run", "-d", defs, "-c", "sign_up", "--args", `{}`)
	require.Equal(t, exitFailed, code)

	code, stdout, stderr := run("journal", "--key", "sign_up", "--json")
	require.Equal(t, exitOK, code, stderr)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "sign_up_success", first["name"])
	assert.Equal(t, "sign_up_failure", second["name"])
	assert.Equal(t, map[string]any{"name": []any{"is required"}}, second["payload"])
}

func TestJournalCmd_RequiresDSN(t *testing.T) {
	quietEnv(t)
	code, _, stderr := run("journal")
	assert.Equal(t, exitRuntime, code)
	assert.Contains(t, stderr, "JOURNAL_DSN")
}
