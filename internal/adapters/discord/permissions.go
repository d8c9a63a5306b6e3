package discord

import "github.com/bwmarrin/discordgo"

// memberIsAdmin: guild owner, the Administrator bit, or one of the bot's
// configured admin roles.
func (r *Router) memberIsAdmin(userID string, roleIDs []string) bool {
	if g, _ := r.s.State.Guild(r.guildID); g != nil && g.OwnerID == userID {
		return true
	}

	roles, _ := r.s.GuildRoles(r.guildID)
	var perms int64
	for _, rid := range roleIDs {
		for _, ro := range roles {
			if ro.ID == rid {
				perms |= ro.Permissions
			}
		}
	}
	if (perms & discordgo.PermissionAdministrator) != 0 {
		return true
	}

	if len(r.adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(roleIDs))
		for _, rid := range roleIDs {
			has[rid] = struct{}{}
		}
		for _, want := range r.adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}
	return false
}

// userIsAdmin resolves the member first; used on paths (reaction remove)
// where the event does not carry member data.
func (r *Router) userIsAdmin(userID string, member *discordgo.Member) bool {
	if member == nil {
		if m, err := r.s.State.Member(r.guildID, userID); err == nil {
			member = m
		} else if m, err := r.s.GuildMember(r.guildID, userID); err == nil {
			member = m
		}
	}
	if member == nil {
		return false
	}
	return r.memberIsAdmin(userID, member.Roles)
}

// requireAdminOrRoles gates a slash command, answering the denial itself.
func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil || ic.Member.User == nil {
		return false
	}
	if r.memberIsAdmin(ic.Member.User.ID, ic.Member.Roles) {
		return true
	}
	ReplyEphemeral(s, ic, "🔒 Insufficient rank permissions.")
	return false
}
