package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/app/service"
)

// Platform implements the service ports (Messenger, VoiceHost) on top of a
// discordgo session. The ctx parameters are part of the port contract;
// discordgo does its own request management underneath.
type Platform struct {
	s       *discordgo.Session
	guildID string
}

func NewPlatform(s *discordgo.Session, guildID string) *Platform {
	return &Platform{s: s, guildID: guildID}
}

// ---------- Messenger ----------

func (p *Platform) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	m, err := p.s.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := p.s.ChannelMessageDelete(channelID, messageID)
	if isUnknownResource(err) {
		return nil
	}
	return err
}

func (p *Platform) SendPartyBoard(ctx context.Context, channelID string, b service.PartyBoard) (string, error) {
	m, err := p.s.ChannelMessageSendEmbed(channelID, partyEmbed(b))
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (p *Platform) EditPartyBoard(ctx context.Context, channelID, messageID string, b service.PartyBoard) error {
	_, err := p.s.ChannelMessageEditEmbed(channelID, messageID, partyEmbed(b))
	if isUnknownResource(err) {
		return nil
	}
	return err
}

func (p *Platform) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return p.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (p *Platform) RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	err := p.s.MessageReactionRemove(channelID, messageID, emoji, userID)
	if isUnknownResource(err) {
		return nil
	}
	return err
}

func (p *Platform) ClearReactions(ctx context.Context, channelID, messageID string) error {
	err := p.s.MessageReactionsRemoveAll(channelID, messageID)
	if isUnknownResource(err) {
		return nil
	}
	return err
}

func (p *Platform) ListReactors(ctx context.Context, channelID, messageID, emoji string) ([]string, error) {
	users, err := p.s.MessageReactions(channelID, messageID, emoji, 100, "", "")
	if err != nil {
		if isUnknownResource(err) {
			return nil, nil
		}
		return nil, err
	}
	me := p.s.State.User.ID
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID == me {
			continue
		}
		out = append(out, u.ID)
	}
	return out, nil
}

// PurgeBotMessages deletes the bot's own recent messages, bulk first and one
// by one for anything bulk delete refuses (messages older than two weeks).
func (p *Platform) PurgeBotMessages(ctx context.Context, channelID string) error {
	msgs, err := p.s.ChannelMessages(channelID, 100, "", "", "")
	if err != nil {
		return err
	}
	me := p.s.State.User.ID
	var ids []string
	for _, m := range msgs {
		if m.Author != nil && m.Author.ID == me {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := p.s.ChannelMessagesBulkDelete(channelID, ids); err != nil {
		for _, id := range ids {
			if derr := p.s.ChannelMessageDelete(channelID, id); derr != nil && !isUnknownResource(derr) {
				log.Printf("purge %s/%s: %v", channelID, id, derr)
			}
		}
	}
	return nil
}

// Message fetches a message, reporting existence separately so callers can
// treat "already deleted" as a normal outcome.
func (p *Platform) Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, bool, error) {
	m, err := p.s.ChannelMessage(channelID, messageID)
	if err != nil {
		if isUnknownResource(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return m, true, nil
}

// ---------- VoiceHost ----------

func (p *Platform) CreateVoiceBelow(ctx context.Context, anchorChannelID, name string) (string, error) {
	anchor, err := p.channel(anchorChannelID)
	if err != nil {
		return "", fmt.Errorf("anchor channel %s: %w", anchorChannelID, err)
	}
	ch, err := p.s.GuildChannelCreateComplex(p.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: anchor.ParentID,
		Position: anchor.Position + 1,
	})
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (p *Platform) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := p.s.ChannelDelete(channelID)
	if isUnknownResource(err) {
		return nil
	}
	return err
}

func (p *Platform) ChannelExists(ctx context.Context, channelID string) (bool, error) {
	if _, err := p.s.State.Channel(channelID); err == nil {
		return true, nil
	}
	_, err := p.s.Channel(channelID)
	if err == nil {
		return true, nil
	}
	if isUnknownResource(err) {
		return false, nil
	}
	return false, err
}

func (p *Platform) ChannelEmpty(ctx context.Context, channelID string) (bool, error) {
	g, err := p.s.State.Guild(p.guildID)
	if err != nil {
		return false, err
	}
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == channelID {
			return false, nil
		}
	}
	return true, nil
}

// ---------- helpers ----------

func (p *Platform) channel(id string) (*discordgo.Channel, error) {
	if ch, err := p.s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := p.s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = p.s.State.ChannelAdd(ch)
	return ch, nil
}

// isUnknownResource matches the platform telling us the target is already
// gone (unknown channel/message), which every cleanup path tolerates.
func isUnknownResource(err error) bool {
	if err == nil {
		return false
	}
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Message != nil {
		switch rerr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage:
			return true
		}
	}
	return false
}
