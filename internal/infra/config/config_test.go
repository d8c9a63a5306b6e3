package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "guild")
	for _, k := range []string{
		"DATABASE_URL", "REGISTRY_FILE", "ADMIN_ROLE_IDS",
		"GRACE_PERIOD_SECONDS", "PARTY_MIN_START", "PARTY_AUTO_CLOSE_EMPTY",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "registry.json", cfg.RegistryFile)
	assert.Equal(t, 60*time.Second, cfg.GracePeriod)
	assert.Equal(t, 1, cfg.PartyMinStart)
	assert.False(t, cfg.PartyAutoCloseEmpty)
	assert.Empty(t, cfg.AdminRoleIDs)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "guild")
	t.Setenv("REGISTRY_FILE", "/var/lib/bot/registry.json")
	t.Setenv("GRACE_PERIOD_SECONDS", "90")
	t.Setenv("PARTY_MIN_START", "3")
	t.Setenv("PARTY_AUTO_CLOSE_EMPTY", "true")
	t.Setenv("ADMIN_ROLE_IDS", "1, 2 ,,3")

	cfg := Load()

	assert.Equal(t, "/var/lib/bot/registry.json", cfg.RegistryFile)
	assert.Equal(t, 90*time.Second, cfg.GracePeriod)
	assert.Equal(t, 3, cfg.PartyMinStart)
	assert.True(t, cfg.PartyAutoCloseEmpty)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.AdminRoleIDs)
}
