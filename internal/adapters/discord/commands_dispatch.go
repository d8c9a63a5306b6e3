package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/domain"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"
)

// Slash commands are the admin surface. They are deliberately NOT routed
// through the reaction serializer (see DESIGN.md).
func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionApplicationCommand || ic.GuildID != r.guildID {
		return
	}
	cmd := ic.ApplicationCommandData()
	log.Printf("cmd: /%s by=%s channel=%s", cmd.Name, ic.Member.User.ID, ic.ChannelID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Unknown error. Tell someone from the programming team to check the logs.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	sub, _ := subcmdName(ic)

	switch cmd.Name {
	case "party":
		switch sub {
		case "activate":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			game, _ := optStr(ic, "game")
			slots, _ := optInt(ic, "slots")
			anchor, ok := optChannelID(ic, "anchor")
			if !ok || !r.anchorUsable(ctx, anchor) {
				ReplyEphemeral(s, ic, "Usage: `/party activate game slots anchor open` — anchor must be an existing channel.")
				return
			}
			open, _ := optBool(ic, "open")
			if slots <= 0 {
				ReplyEphemeral(s, ic, "`slots` must be a positive number.")
				return
			}
			msg, err := r.party.ActivateChannel(ctx, ic.ChannelID, game, slots, anchor, open)
			if err != nil {
				ReplyEphemeral(s, ic, r.errText(err))
				return
			}
			ReplyEphemeral(s, ic, "✅ "+msg)

		case "deactivate":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			msg, err := r.party.DeactivateChannel(ctx, ic.ChannelID)
			if err != nil {
				ReplyEphemeral(s, ic, r.errText(err))
				return
			}
			ReplyEphemeral(s, ic, "✅ "+msg)

		case "status":
			r.replyPartyStatus(ctx, s, ic)

		default:
			ReplyEphemeral(s, ic, "Use `/party activate`, `/party deactivate` or `/party status`.")
		}

	case "games":
		switch sub {
		case "activate":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			anchor, ok := optChannelID(ic, "anchor")
			if !ok || !r.anchorUsable(ctx, anchor) {
				ReplyEphemeral(s, ic, "Usage: `/games activate anchor` — anchor must be an existing channel.")
				return
			}
			msg, err := r.voice.ActivateGamesChannel(ctx, ic.ChannelID, anchor)
			if err != nil {
				ReplyEphemeral(s, ic, r.errText(err))
				return
			}
			ReplyEphemeral(s, ic, "✅ "+msg)

		case "deactivate":
			if !r.requireAdminOrRoles(s, ic) {
				return
			}
			msg, err := r.voice.DeactivateGamesChannel(ctx, ic.ChannelID)
			if err != nil {
				ReplyEphemeral(s, ic, r.errText(err))
				return
			}
			ReplyEphemeral(s, ic, "✅ "+msg)

		default:
			ReplyEphemeral(s, ic, "Use `/games activate` or `/games deactivate`.")
		}
	}
}

func (r *Router) replyPartyStatus(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	snap, err := r.store.Load(ctx)
	if err != nil {
		ReplyEphemeral(s, ic, r.errText(err))
		return
	}
	cfg, ok := snap[ic.ChannelID]
	if !ok || cfg.Kind != storage.KindParty {
		ReplyEphemeral(s, ic, r.errText(domain.ErrChannelNotActivated))
		return
	}
	p := r.party.CurrentParty(ic.ChannelID)
	if p == nil || p.Size() == 0 {
		ReplyEphemeral(s, ic, fmt.Sprintf("No party for **%s** yet — react %s on the party message.",
			cfg.GameName, domain.EmojiJoin))
		return
	}
	out := fmt.Sprintf("**%s** party (%s): %d / %d\n", cfg.GameName, p.Status, p.Size(), cfg.MaxSlots)
	for i, m := range p.Members() {
		out += fmt.Sprintf("%d) <@%s>\n", i+1, m)
	}
	ReplyEphemeral(s, ic, out)
}

func (r *Router) anchorUsable(ctx context.Context, channelID string) bool {
	ok, err := r.platform.ChannelExists(ctx, channelID)
	return err == nil && ok
}

func (r *Router) errText(err error) string {
	switch {
	case errors.Is(err, domain.ErrChannelNotActivated):
		return "The bot is not configured to use this channel. Admins can change that via `/party activate` or `/games activate`."
	case errors.Is(err, storage.ErrCorruptStore):
		log.Printf("[router] FATAL registry unreadable: %v", err)
		return "❌ The channel registry is unreadable. Operator intervention required."
	default:
		log.Printf("[router] command error: %v", err)
		return "❌ Unknown error. Tell someone from the programming team to check the logs."
	}
}
