package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quietConfig = `
log:
  level: disabled
  pretty: false
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

const hangScenario = `
name: hang
steps:
  - kind: thread
    thread: 1
  - kind: breakpoint
    thread: 1
    delay: 1h
`

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "dbgcore", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "config"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRun_ReplaysUntilExit(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", quietConfig)
	scenarioPath := writeFile(t, dir, "scenario.yaml", `
name: crash
steps:
  - kind: module
    module: app
    base: 4096
    size: 4096
    symbols: true
  - kind: thread
    thread: 1
    frames:
      - function: main
        module: app
  - kind: breakpoint
    thread: 1
  - kind: exception
    thread: 1
    exception: boom
    unhandled: true
  - kind: exit
    exit_code: 3
`)

	out, err := execute(t, "--config", configPath, "run", "--scenario", scenarioPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7, out)
	assert.True(t, strings.HasPrefix(lines[0], "paused: breakpoint"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "thread 1 at main"), lines[0])
	assert.Equal(t, "resumed", lines[1])
	assert.Equal(t, "exception: [unhandled] *simulator.SimulatedException: boom, thread: 1", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "paused: exception"), lines[3])
	assert.Equal(t, "resumed", lines[4])
	assert.Equal(t, "exited", lines[5])
	assert.Equal(t, "exit code 3", lines[6])
}

func TestRun_TerminatesOnTimeout(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", quietConfig)
	scenarioPath := writeFile(t, dir, "scenario.yaml", hangScenario)

	start := time.Now()
	out, err := execute(t, "--config", configPath, "run", "--scenario", scenarioPath, "--timeout", "50ms")
	require.NoError(t, err)
	assert.Equal(t, "exited\nexit code 0\n", out)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRun_InterruptWithoutTimeout(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", quietConfig)
	scenarioPath := writeFile(t, dir, "scenario.yaml", hangScenario)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := executeContext(t, ctx, "--config", configPath, "run", "--scenario", scenarioPath, "--timeout", "0")
	require.NoError(t, err)
	assert.Equal(t, "exited\nexit code 0\n", out)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRun_WithTracing(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", quietConfig+`
tracing:
  enabled: true
  endpoint: 127.0.0.1:1
  insecure: true
  sample_rate: 0
`)
	scenarioPath := writeFile(t, dir, "scenario.yaml", `
name: quick
steps:
  - kind: thread
    thread: 1
  - kind: breakpoint
    thread: 1
  - kind: exit
    exit_code: 0
`)

	out, err := execute(t, "--config", configPath, "run", "--scenario", scenarioPath, "--timeout", "1s")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "paused: breakpoint"), out)
	assert.True(t, strings.HasSuffix(out, "exit code 0\n"), out)
}

func TestRun_RequiresScenario(t *testing.T) {
	_, err := execute(t, "run")
	assert.ErrorContains(t, err, "scenario")
}

func TestRun_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", quietConfig)
	scenarioPath := writeFile(t, dir, "scenario.yaml", "steps:\n  - kind: breakpoint\n    thread: 9\n")

	_, err := execute(t, "--config", configPath, "run", "--scenario", scenarioPath)
	assert.ErrorContains(t, err, "unknown thread 9")
}

func TestConfig_PrintsEffectiveConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", quietConfig)
	t.Setenv("DBGCORE_PROCESS_PAUSE_ON_HANDLED_EXCEPTION", "true")

	out, err := execute(t, "--config", configPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "level: disabled")
	assert.Contains(t, out, "pause_on_handled_exception: true")
}

func TestConfigInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: info")
}
