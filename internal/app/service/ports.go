package service

import "context"

// Implemented by internal/adapters/discord.Platform. Services stay off the
// discordgo types so they can run against fakes in tests.

// PartyBoard is everything the adapter needs to render a party message.
type PartyBoard struct {
	GameName  string
	Capacity  int
	Members   []string // user ids, join order
	Status    string
	OpenToAll bool
}

type Messenger interface {
	SendMessage(ctx context.Context, channelID, content string) (messageID string, err error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	SendPartyBoard(ctx context.Context, channelID string, b PartyBoard) (messageID string, err error)
	EditPartyBoard(ctx context.Context, channelID, messageID string, b PartyBoard) error

	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	// RemoveUserReaction keeps the visible reaction state honest when an
	// action is rejected (full party, missing permissions).
	RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	ClearReactions(ctx context.Context, channelID, messageID string) error

	// ListReactors returns the non-bot users currently reacting with emoji,
	// used to rebuild party membership after a restart.
	ListReactors(ctx context.Context, channelID, messageID, emoji string) ([]string, error)

	// PurgeBotMessages clears the bot's own recent messages from a channel.
	PurgeBotMessages(ctx context.Context, channelID string) error
}

type VoiceHost interface {
	// CreateVoiceBelow creates a voice channel directly below the anchor
	// channel (same parent, next position) and returns its id.
	CreateVoiceBelow(ctx context.Context, anchorChannelID, name string) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	ChannelExists(ctx context.Context, channelID string) (bool, error)
	ChannelEmpty(ctx context.Context, channelID string) (bool, error)
}
