package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "labelproc", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"--help"})

	// Help should not return an error
	require.NoError(t, err)

	assert.Contains(t, output, "kitchen labels")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"--version"})
	require.NoError(t, err)

	assert.Contains(t, output, "labelproc version")
}

func TestRootCommandVersionAfterHelp(t *testing.T) {
	// Flag values on the shared command survive Execute; a prior --help run
	// must not short-circuit a later --version run.
	_, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"--help"})
	require.NoError(t, err)

	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"--version"})
	require.NoError(t, err)

	assert.Contains(t, output, "labelproc version")
	assert.NotContains(t, output, "Available Commands:")
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := rootCmd

	subcommands := cmd.Commands()
	commandNames := make([]string, len(subcommands))
	for i, subcmd := range subcommands {
		commandNames[i] = subcmd.Name()
	}

	expectedCommands := []string{"image", "parse", "serve"}
	for _, expected := range expectedCommands {
		assert.Contains(t, commandNames, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	cmd := rootCmd

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"--invalid-flag"})
	err := cmd.Execute()

	require.Error(t, err)

	output := buf.String()
	assert.Contains(t, output, "unknown flag")
}

// Helper function to execute command and capture output. Flag values set by
// one Execute persist on the shared command, so the sticky ones are reset
// before each run.
func executeCommandAndCaptureOutput(t *testing.T, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	for _, name := range []string{"help", "version"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			require.NoError(t, f.Value.Set("false"))
			f.Changed = false
		}
	}

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return strings.TrimSpace(buf.String()), err
}

func TestGetConfigRejectsInvalidOverride(t *testing.T) {
	base := GetConfig()
	require.NoError(t, base.Validate())

	// An out-of-range bound value must not survive the reload.
	v := GetConfigLoader().GetViper()
	v.Set("server.port", 99999)
	defer v.Set("server.port", base.Server.Port)

	cfg := GetConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, base.Server.Port, cfg.Server.Port)
}

func TestRootCommandConfiguration(t *testing.T) {
	cmd := rootCmd

	assert.True(t, cmd.HasSubCommands())
	assert.NotNil(t, cmd.PersistentFlags())
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}
