package storage

import (
	"context"
	"errors"
)

type ChannelKind string

const (
	KindParty ChannelKind = "party"
	KindGames ChannelKind = "games"
)

// ErrCorruptStore means the persisted snapshot exists but cannot be parsed.
// Fatal for the operation; never auto-repaired.
var ErrCorruptStore = errors.New("registry snapshot is corrupt")

// ChannelConfig is the tagged per-channel record. Exactly one of the party /
// games field groups is populated, discriminated by Kind.
type ChannelConfig struct {
	Kind ChannelKind `json:"type"`

	// AnchorChannelID is the channel new voice channels are positioned under.
	AnchorChannelID string `json:"anchor_channel_id"`

	// Party channels.
	GameName            string   `json:"game_name,omitempty"`
	MaxSlots            int      `json:"max_slots,omitempty"`
	OpenToAll           bool     `json:"open_to_all,omitempty"`
	ActiveVoiceChannels []string `json:"active_voice_channels,omitempty"`
	PartyMessageID      string   `json:"party_message_id,omitempty"`

	// Games channels.
	PerGameCounters map[string]int    `json:"per_game_counters,omitempty"`
	Ownership       map[string]string `json:"ownership,omitempty"` // user id -> voice channel id
}

func NewPartyConfig(gameName string, maxSlots int, anchorChannelID string, openToAll bool) *ChannelConfig {
	return &ChannelConfig{
		Kind:            KindParty,
		GameName:        gameName,
		MaxSlots:        maxSlots,
		AnchorChannelID: anchorChannelID,
		OpenToAll:       openToAll,
	}
}

func NewGamesConfig(anchorChannelID string) *ChannelConfig {
	return &ChannelConfig{
		Kind:            KindGames,
		AnchorChannelID: anchorChannelID,
		PerGameCounters: map[string]int{},
		Ownership:       map[string]string{},
	}
}

// NextCounter bumps and returns the per-game counter. Counters start at 1 and
// never go back down, even when every channel for the game is long gone.
func (c *ChannelConfig) NextCounter(game string) int {
	if c.PerGameCounters == nil {
		c.PerGameCounters = map[string]int{}
	}
	c.PerGameCounters[game]++
	return c.PerGameCounters[game]
}

func (c *ChannelConfig) SetOwner(userID, voiceChannelID string) {
	if c.Ownership == nil {
		c.Ownership = map[string]string{}
	}
	c.Ownership[userID] = voiceChannelID
}

func (c *ChannelConfig) RemoveOwner(userID string) (string, bool) {
	vc, ok := c.Ownership[userID]
	if ok {
		delete(c.Ownership, userID)
	}
	return vc, ok
}

// OwnerOf reverse-scans the ownership map. O(n), but n is "users with an
// open channel in one games channel".
func (c *ChannelConfig) OwnerOf(voiceChannelID string) (string, bool) {
	for user, vc := range c.Ownership {
		if vc == voiceChannelID {
			return user, true
		}
	}
	return "", false
}

func (c *ChannelConfig) TrackVoiceChannel(id string) {
	for _, vc := range c.ActiveVoiceChannels {
		if vc == id {
			return
		}
	}
	c.ActiveVoiceChannels = append(c.ActiveVoiceChannels, id)
}

func (c *ChannelConfig) UntrackVoiceChannel(id string) bool {
	for i, vc := range c.ActiveVoiceChannels {
		if vc == id {
			c.ActiveVoiceChannels = append(c.ActiveVoiceChannels[:i], c.ActiveVoiceChannels[i+1:]...)
			return true
		}
	}
	return false
}

// EvictVoiceChannel drops a voice channel id from whichever partition tracks
// it: the party channel list or the games ownership map.
func (c *ChannelConfig) EvictVoiceChannel(id string) bool {
	if c.UntrackVoiceChannel(id) {
		return true
	}
	if user, ok := c.OwnerOf(id); ok {
		delete(c.Ownership, user)
		return true
	}
	return false
}

// TracksVoiceChannel reports whether this config knows the voice channel id.
func (c *ChannelConfig) TracksVoiceChannel(id string) bool {
	for _, vc := range c.ActiveVoiceChannels {
		if vc == id {
			return true
		}
	}
	_, ok := c.OwnerOf(id)
	return ok
}

// Snapshot is the whole registry: text channel id -> configuration. Callers
// load it, mutate in memory and save the whole thing back.
type Snapshot map[string]*ChannelConfig

// FindVoiceChannel scans every config for the channel that tracks the given
// voice channel id. Not every voice channel on the guild is ours.
func (s Snapshot) FindVoiceChannel(voiceChannelID string) (string, *ChannelConfig, bool) {
	for channelID, cfg := range s {
		if cfg.TracksVoiceChannel(voiceChannelID) {
			return channelID, cfg, true
		}
	}
	return "", nil, false
}

// Store is the persistence boundary: whole-snapshot load and save,
// last write wins.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
