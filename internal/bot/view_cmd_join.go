package bot

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"albot/internal/botkit"
	"albot/internal/model"
)

const (
	everyoneRole = "@everyone"
	noGuildReply = "Roles are only available in a Discord server."
)

// DiskFS opens files by their path on the local filesystem.
var DiskFS fs.FS = diskFS{}

type diskFS struct{}

func (diskFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func ViewCmdJoin(catalog *Catalog, files fs.FS) botkit.ViewFunc {
	return func(ctx context.Context, inv *botkit.Invocation) error {
		if inv.Guild == nil {
			return inv.Send(noGuildReply)
		}

		if inv.Args == "" {
			return inv.Send(fmt.Sprintf("Usage: %sjoin <role>", inv.Prefix))
		}

		grant, ok := catalog.Grant(inv.Args)
		if !ok {
			return inv.Send(fmt.Sprintf("%s role doesn't exist", inv.Args))
		}

		role, ok := inv.RoleByName(grant.Role)
		if !ok {
			log.Printf("[WARN] guild %s has no role %q", inv.Guild.ID, grant.Role)
			return inv.Send(fmt.Sprintf("%s role doesn't exist", inv.Args))
		}

		if grant.Exclusive {
			others := lo.Filter(inv.AuthorRoles(), func(r *discordgo.Role, _ int) bool {
				return r.Name != grant.Role && catalog.Managed(r.Name)
			})
			if err := leaveRoles(inv, others); err != nil {
				return err
			}
		}

		if err := inv.AddRole(role); err != nil {
			return err
		}

		for _, greeting := range grant.Greetings {
			if err := inv.Send(greeting); err != nil {
				return err
			}
		}

		if grant.File != "" {
			return sendGrantFile(inv, files, grant)
		}

		return nil
	}
}

// sendGrantFile sends the grant's file. A missing file is logged, not
// reported to the member, who already has the role.
func sendGrantFile(inv *botkit.Invocation, files fs.FS, grant model.RoleGrant) error {
	f, err := files.Open(grant.File)
	if err != nil {
		log.Printf("[WARN] failed to open file for role %q: %v", grant.Role, err)
		return nil
	}
	defer f.Close()

	return inv.SendFile(path.Base(grant.File), f)
}

func leaveRole(inv *botkit.Invocation, role *discordgo.Role) error {
	if !inv.HasRole(role) {
		return nil
	}

	if err := inv.RemoveRole(role); err != nil {
		return err
	}

	return inv.Send(fmt.Sprintf("Removed role from %s", role.Name))
}

func leaveRoles(inv *botkit.Invocation, roles []*discordgo.Role) error {
	for _, role := range roles {
		if err := leaveRole(inv, role); err != nil {
			return err
		}
	}
	return nil
}
