package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claims = "../../testdata/claims.yaml"

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "careflow.yaml")
	require.NoError(t, os.WriteFile(file, []byte("workers: 3\nauthor: ops\nmetrics:\n  enabled: true\n  namespace: hc\n"), 0o644))

	t.Run("file", func(t *testing.T) {
		config, err := LoadConfig(viper.New(), file)
		require.NoError(t, err)
		assert.Equal(t, 3, config.Workers)
		assert.Equal(t, "ops", config.Author)
		assert.Equal(t, "info", config.Log.Level)
		assert.True(t, config.Metrics.Enabled)
		assert.Equal(t, "hc", config.Metrics.Namespace)
		assert.Equal(t, "careflow", config.Tracing.ServiceName)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("CAREFLOW_WORKERS", "5")
		t.Setenv("CAREFLOW_LOG_LEVEL", "debug")
		config, err := LoadConfig(viper.New(), file)
		require.NoError(t, err)
		assert.Equal(t, 5, config.Workers)
		assert.Equal(t, "debug", config.Log.Level)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("CAREFLOW_WORKERS", "0")
		_, err := LoadConfig(viper.New(), file)
		assert.Error(t, err)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(viper.New(), filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	cmd := NewRootCommand()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(output)
	cmd.SetArgs(append([]string{"--log-level", "error", "--config", emptyConfig(t)}, args...))
	err := cmd.Execute()
	return output.String(), err
}

func emptyConfig(t *testing.T) string {
	file := filepath.Join(t.TempDir(), "careflow.yaml")
	require.NoError(t, os.WriteFile(file, []byte("workers: 2\n"), 0o644))
	return file
}

func TestCommand_Validate(t *testing.T) {
	output, err := execute(t, "validate", claims)
	require.NoError(t, err)
	assert.Contains(t, output, "claims.yaml: valid")

	cycle := filepath.Join(t.TempDir(), "cycle.yaml")
	require.NoError(t, os.WriteFile(cycle, []byte("workflow: {name: loop, version: 1.0.0, type: appeals}\nsteps: {A: {type: task, on: {success: B}}, B: {type: task, on: {success: A}}}\nstart: A\n"), 0o644))
	output, err = execute(t, "validate", claims, cycle)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, output, "CIRCULAR_DEPENDENCY")
}

func TestCommand_Compile(t *testing.T) {
	output, err := execute(t, "--author", "jdoe", "compile", claims)
	require.NoError(t, err)
	assert.Contains(t, output, `"name": "claims"`)
	assert.Contains(t, output, `"createdBy": "jdoe"`)

	output, err = execute(t, "compile", "--format", "yaml", claims)
	require.NoError(t, err)
	assert.Contains(t, output, "name: claims")
}

func TestCommand_Diff(t *testing.T) {
	output, err := execute(t, "diff", claims, claims)
	require.NoError(t, err)
	assert.Contains(t, output, "no changes")

	_, err = execute(t, "diff", claims)
	assert.Error(t, err)
}

func TestCommand_DiffExpandsEnv(t *testing.T) {
	data, err := os.ReadFile(claims)
	require.NoError(t, err)
	dir := t.TempDir()
	from := filepath.Join(dir, "from.yaml")
	to := filepath.Join(dir, "to.yaml")
	require.NoError(t, os.WriteFile(from, data, 0o644))
	require.NoError(t, os.WriteFile(to, []byte(strings.Replace(string(data), "https://clearinghouse.local/claims", "https://${env.CAREFLOW_CLEARINGHOUSE}/claims", 1)), 0o644))

	t.Setenv("CAREFLOW_CLEARINGHOUSE", "clearinghouse.local")
	output, err := execute(t, "diff", from, to)
	require.NoError(t, err)
	assert.Contains(t, output, "no changes")

	t.Setenv("CAREFLOW_CLEARINGHOUSE", "edi.payer.test")
	output, err = execute(t, "diff", from, to)
	require.NoError(t, err)
	assert.Contains(t, output, "+")
	assert.Contains(t, output, "https://edi.payer.test/claims")
}
