package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/app/service"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/domain"
)

const partyEmbedColor = 0x0000FF

func partyEmbed(b service.PartyBoard) *discordgo.MessageEmbed {
	var members strings.Builder
	for i, m := range b.Members {
		fmt.Fprintf(&members, "%d. <@%s>\n", i+1, m)
	}
	if members.Len() == 0 {
		members.WriteString("*nobody yet*")
	}

	mode := "invite only"
	if b.OpenToAll {
		mode = "open to all"
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Game: %s", b.GameName),
		Color: partyEmbedColor,
		Description: fmt.Sprintf(
			"React with %s to join, %s to start the party for %s.",
			domain.EmojiJoin, domain.EmojiStart, b.GameName),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Members", Value: members.String()},
			{Name: "Slots", Value: fmt.Sprintf("%d / %d", len(b.Members), b.Capacity), Inline: true},
			{Name: "Status", Value: b.Status + " · " + mode, Inline: true},
		},
	}
}
