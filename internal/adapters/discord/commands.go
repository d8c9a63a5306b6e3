package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "party",
		Description: "Party matchmaking for this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "activate",
				Description: "Activate this channel for party matchmaking (admins)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "game", Description: "Game name", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "slots", Description: "Maximum party size", Required: true},
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "anchor", Description: "Voice channels are created below this channel", Required: true},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "open", Description: "Allow joining after the party started", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "deactivate",
				Description: "Disable party matchmaking in this channel (admins)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Show the current party",
			},
		},
	},
	{
		Name:        "games",
		Description: "On-demand game voice channels for this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "activate",
				Description: "Activate this channel for game voice channels (admins)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "anchor", Description: "Voice channels are created below this channel", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "deactivate",
				Description: "Disable game voice channels in this channel (admins)",
			},
		},
	},
}
