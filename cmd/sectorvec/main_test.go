package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func contextWithLogLevel(level string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	return cli.NewContext(nil, set, nil)
}

func TestSetupLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "WARN", "Error"} {
		require.NoError(t, setupLogger(contextWithLogLevel(level)), "level %s", level)
	}
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	err := setupLogger(contextWithLogLevel("verbose"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}

func TestAIFlagDefaults(t *testing.T) {
	var modelFlag *cli.StringFlag
	for _, f := range aiFlags() {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "embedding-model" {
			modelFlag = sf
			break
		}
	}
	require.NotNil(t, modelFlag)
	assert.Equal(t, "text-embedding-3-small", modelFlag.Value)
	assert.Contains(t, modelFlag.EnvVars, "EMBEDDING_MODEL")
}
