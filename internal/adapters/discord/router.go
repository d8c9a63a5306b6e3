package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/app/service"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"
)

type Router struct {
	s        *discordgo.Session
	guildID  string
	platform *Platform

	store storage.Store
	party *service.PartyService
	voice *service.VoiceService
	ser   *service.Serializer

	adminRoleIDs []string
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	platform *Platform,
	store storage.Store,
	party *service.PartyService,
	voice *service.VoiceService,
	ser *service.Serializer,
	adminRoleIDs []string,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		platform:     platform,
		store:        store,
		party:        party,
		voice:        voice,
		ser:          ser,
		adminRoleIDs: adminRoleIDs,
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(r.handleSlashCommand)
	r.s.AddHandler(r.onReactionAdd)
	r.s.AddHandler(r.onReactionRemove)
	r.s.AddHandler(r.onVoiceStateUpdate)
	r.s.AddHandler(r.onMessageCreate)
	r.s.AddHandler(r.onMessageUpdate)
}
