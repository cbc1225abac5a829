package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"albot/internal/botkit"
)

// ViewCmdLeave removes one catalog role from the author, or every catalog
// role when no argument is given.
func ViewCmdLeave(catalog *Catalog) botkit.ViewFunc {
	return func(ctx context.Context, inv *botkit.Invocation) error {
		if inv.Guild == nil {
			return inv.Send(noGuildReply)
		}

		if inv.Args == "" {
			roles := lo.Filter(inv.AuthorRoles(), func(r *discordgo.Role, _ int) bool {
				return r.Name != everyoneRole && catalog.Managed(r.Name)
			})
			return leaveRoles(inv, roles)
		}

		grant, ok := catalog.Grant(inv.Args)
		if !ok {
			return inv.Send(fmt.Sprintf("%s role doesn't exist", inv.Args))
		}

		role, ok := inv.RoleByName(grant.Role)
		if !ok {
			return inv.Send(fmt.Sprintf("%s role doesn't exist", inv.Args))
		}

		return leaveRole(inv, role)
	}
}
