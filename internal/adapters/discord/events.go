package discord

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/app/service"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/domain"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"
)

const eventTimeout = 15 * time.Second

// Reactions are the mutation surface; users will break the state if these
// are not handled in strict sequence, so everything funnels through the
// serializer.

func (r *Router) onReactionAdd(s *discordgo.Session, m *discordgo.MessageReactionAdd) {
	if m.GuildID != r.guildID || m.UserID == s.State.User.ID {
		return
	}
	r.ser.Do(func() { r.dispatchReaction(m.MessageReaction, m.Member, true) })
}

func (r *Router) onReactionRemove(s *discordgo.Session, m *discordgo.MessageReactionRemove) {
	if m.GuildID != r.guildID || m.UserID == s.State.User.ID {
		return
	}
	r.ser.Do(func() { r.dispatchReaction(m.MessageReaction, nil, false) })
}

func (r *Router) dispatchReaction(mr *discordgo.MessageReaction, member *discordgo.Member, added bool) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	snap, err := r.store.Load(ctx)
	if err != nil {
		log.Printf("[router] registry load: %v", err)
		return
	}
	cfg, ok := snap[mr.ChannelID]
	if !ok {
		return
	}

	switch cfg.Kind {
	case storage.KindParty:
		// the reaction may refer to a message deleted by a concurrent reset
		if _, exists, err := r.platform.Message(ctx, mr.ChannelID, mr.MessageID); err != nil || !exists {
			return
		}
		ev := service.ReactionEvent{
			ChannelID: mr.ChannelID,
			MessageID: mr.MessageID,
			UserID:    mr.UserID,
			Emoji:     mr.Emoji.Name,
			IsAdmin:   r.userIsAdmin(mr.UserID, member),
		}
		if added {
			err = r.party.HandleReactionAdd(ctx, ev)
		} else {
			err = r.party.HandleReactionRemove(ctx, ev)
		}
		if err != nil {
			log.Printf("[router] party reaction %s in %s: %v", mr.Emoji.Name, mr.ChannelID, err)
		}

	case storage.KindGames:
		if !added {
			return
		}
		msg, exists, err := r.platform.Message(ctx, mr.ChannelID, mr.MessageID)
		if err != nil || !exists {
			return
		}
		game, ok := domain.ResolveGameName(msg.Content, mr.Emoji.Name)
		if !ok {
			return
		}
		ev := service.ReactionEvent{
			ChannelID: mr.ChannelID,
			MessageID: mr.MessageID,
			UserID:    mr.UserID,
			Emoji:     mr.Emoji.Name,
		}
		if err := r.voice.HandleGameReaction(ctx, ev, game); err != nil {
			log.Printf("[router] game reaction %s in %s: %v", mr.Emoji.Name, mr.ChannelID, err)
		}
	}
}

// onVoiceStateUpdate only tracks disconnects: when a user leaves a channel
// and nobody is left in it, the grace-period sweep is armed. Whether the
// channel is ours at all is the sweep's problem.
func (r *Router) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.GuildID != r.guildID {
		return
	}
	before := vs.BeforeUpdate
	if before == nil || before.ChannelID == "" || before.ChannelID == vs.ChannelID {
		return
	}
	r.ser.Do(func() {
		empty, err := r.platform.ChannelEmpty(context.Background(), before.ChannelID)
		if err != nil {
			log.Printf("[router] voice state %s: %v", before.ChannelID, err)
			return
		}
		if !empty {
			return
		}
		r.voice.HandleChannelEmptied(before.ChannelID)
	})
}

// Declaration messages in activated games channels get auto-reactions so
// users only have to click.

func (r *Router) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID != r.guildID || m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	r.handleDeclaration(m.ChannelID, m.ID, m.Content)
}

func (r *Router) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.GuildID != r.guildID || m.Content == "" {
		return
	}
	if m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}
	r.handleDeclaration(m.ChannelID, m.ID, m.Content)
}

func (r *Router) handleDeclaration(channelID, messageID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	if err := r.voice.HandleDeclaration(ctx, channelID, messageID, content); err != nil {
		log.Printf("[router] declaration in %s: %v", channelID, err)
	}
}
