package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNormalized(t *testing.T) {
	cfg := Default().Normalize()

	assert.Contains(t, cfg.YesTokens, "yes")
	assert.Contains(t, cfg.NoTokens, "no")
	assert.Contains(t, cfg.CancelTokens, "cancel")
	assert.Contains(t, cfg.CommandPrefixes, "query")
	assert.Contains(t, cfg.Topics, "consents")
	assert.NotEmpty(t, cfg.DefaultReprompt)
	assert.Equal(t, "choose_topic", cfg.DefaultWizardStep())
	assert.True(t, cfg.KnownWizardStep("collect_details"))
	assert.False(t, cfg.KnownWizardStep("launch_rockets"))
}

func TestLoadPartialOverride(t *testing.T) {
	cfg, err := Load(strings.NewReader("topics:\n  - Buses\n  - meals\n"))
	require.NoError(t, err)

	// Named table replaced and normalized.
	assert.Equal(t, []string{"buses", "meals"}, cfg.Topics)
	// Unnamed tables fall back to defaults.
	assert.Contains(t, cfg.YesTokens, "yes")
	assert.Contains(t, cfg.CommandPrefixes, "select")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(strings.NewReader("topics: [unclosed"))
	require.Error(t, err)
}
