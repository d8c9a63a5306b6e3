package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DiscordToken string
	DiscordGuild string

	// DatabaseURL empty -> registry kept in RegistryFile instead.
	DatabaseURL  string
	RegistryFile string

	AdminRoleIDs []string

	// GracePeriod between a voice channel being observed empty and its
	// deletion.
	GracePeriod time.Duration

	// PartyMinStart is the minimum fill for a 🎉 start; PartyAutoCloseEmpty
	// closes a party whose last member left. Both were left open by the
	// original bot, so they are knobs here.
	PartyMinStart       int
	PartyAutoCloseEmpty bool
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("missing env %s", k)
		}
		return v
	}
	getInt := func(k string, def int) int {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("env %s: %v", k, err)
		}
		return n
	}

	cfg := Config{
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		DiscordGuild: get("DISCORD_GUILD_ID", true),
		DatabaseURL:  get("DATABASE_URL", false),
		RegistryFile: get("REGISTRY_FILE", false),

		GracePeriod:         time.Duration(getInt("GRACE_PERIOD_SECONDS", 60)) * time.Second,
		PartyMinStart:       getInt("PARTY_MIN_START", 1),
		PartyAutoCloseEmpty: os.Getenv("PARTY_AUTO_CLOSE_EMPTY") == "true",
	}
	if cfg.RegistryFile == "" {
		cfg.RegistryFile = "registry.json"
	}
	if ids := get("ADMIN_ROLE_IDS", false); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.AdminRoleIDs = append(cfg.AdminRoleIDs, id)
			}
		}
	}
	return cfg
}
