package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"albot/internal/botkit"
	"albot/internal/model"
)

func ViewCmdList(catalog *Catalog) botkit.ViewFunc {
	return func(ctx context.Context, inv *botkit.Invocation) error {
		for _, project := range catalog.Projects() {
			if err := inv.SendEmbed(projectEmbed(project, inv.Prefix)); err != nil {
				return err
			}
		}
		return nil
	}
}

func projectEmbed(project model.Project, prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       project.Title,
		URL:         project.URL,
		Description: project.Description,
		Color:       project.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Join using", Value: prefix + "join " + project.JoinAs, Inline: true},
		},
	}
}
