package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["setup"])
	assert.True(t, names["snapshot"])
	assert.True(t, names["preview"])
}

func TestRootPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	assert.NotNil(t, flags.Lookup("config"))
	assert.NotNil(t, flags.Lookup("token"))
	assert.NotNil(t, flags.Lookup("base-url"))
}

func TestTokenFlagBindsToViper(t *testing.T) {
	require.NoError(t, rootCmd.PersistentFlags().Set("token", "flag-token"))
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("token", "")
	})
	assert.Equal(t, "flag-token", viper.GetString("xano.token"))
}

func TestInitializeConfigWithoutFile(t *testing.T) {
	// No xano-viz.yaml in the test working directory: defaults still load.
	require.NoError(t, initializeConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "graph-data", cfg.Deploy.DataEndpoint)
}
