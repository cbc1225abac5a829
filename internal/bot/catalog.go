package bot

import (
	"github.com/samber/lo"
	"go.tomakado.io/containers/set"

	"albot/internal/botkit"
	"albot/internal/model"
)

// Catalog holds the club's projects and the roles members may join.
type Catalog struct {
	projects []model.Project
	grants   []model.RoleGrant
	matchers []func(alias string) bool
}

func NewCatalog(projects []model.Project, grants []model.RoleGrant) *Catalog {
	c := &Catalog{
		projects: projects,
		grants:   grants,
		matchers: make([]func(string) bool, 0, len(grants)),
	}

	for _, grant := range grants {
		aliases := lo.Map(grant.Aliases, func(alias string, _ int) string {
			return botkit.Fold(alias)
		})
		aliases = append(aliases, botkit.Fold(grant.Role))

		aliasSet := set.New(aliases...)
		c.matchers = append(c.matchers, aliasSet.Contains)
	}

	return c
}

// DefaultCatalog returns the club's projects and roles. swampImage is sent
// to new members of the muddy swamp.
func DefaultCatalog(swampImage string) *Catalog {
	return NewCatalog(
		[]model.Project{
			{
				Key:         "muddyswamp",
				Title:       "Muddy Swamp",
				URL:         "https://github.com/ufosc/MuddySwamp",
				Description: "A UF themed python MUD game.",
				Color:       0x00630c,
				JoinAs:      "muddyswamp",
				Feed:        "https://github.com/ufosc/MuddySwamp/commits.atom",
			},
			{
				Key:         "mvw",
				Title:       "Marston Vs West",
				URL:         "https://github.com/ufosc/marston-vs-west",
				Description: "A HTML5 smashbros-esque game fitting our libraries against each other.",
				Color:       0xff0036,
				JoinAs:      "mvw",
				Feed:        "https://github.com/ufosc/marston-vs-west/commits.atom",
			},
			{
				Key:         "clubsite",
				Title:       "Club Website",
				URL:         "https://github.com/ufosc/club-website",
				Description: "Our club website made using basic HTML, CSS, and JS.",
				Color:       0x00ecff,
				JoinAs:      "clubsite",
				Feed:        "https://github.com/ufosc/club-website/commits.atom",
			},
			{
				Key:         "bot",
				Title:       "Bot",
				URL:         "https://github.com/ufosc/albot-and-albota",
				Description: "The club's chat bot.",
				Color:       0x808080,
				JoinAs:      "bot",
				Feed:        "https://github.com/ufosc/albot-and-albota/commits.atom",
			},
		},
		[]model.RoleGrant{
			{
				Role:      "alumnus",
				Aliases:   []string{"alumni", "alum"},
				Greetings: []string{"Eway elcomway youway otay hetay alumni ounglay", ":thinking:"},
				Exclusive: true,
			},
			{
				Role:      "muddy-swamp",
				Aliases:   []string{"muddyswamp", "muddy", "swamp"},
				Greetings: []string{"Get out of my swamp!"},
				File:      swampImage,
			},
			{
				Role:      "club-website",
				Aliases:   []string{"clubsite", "website", "site"},
				Greetings: []string{"HTML is my favorite programming language."},
			},
			{
				Role:      "marston-vs-west",
				Aliases:   []string{"mvw", "marstonvswest"},
				Greetings: []string{"Newell is the best 24/7 library. Don't @ me"},
			},
			{
				Role:      "bot-dev",
				Aliases:   []string{"bot", "albot", "albota"},
				Greetings: []string{"I, for one, welcome our robot overlords"},
			},
		},
	)
}

func (c *Catalog) Projects() []model.Project {
	return c.projects
}

// Grant finds the role grant for a user-typed alias or role name.
func (c *Catalog) Grant(alias string) (model.RoleGrant, bool) {
	alias = botkit.Fold(alias)

	for i, matches := range c.matchers {
		if matches(alias) {
			return c.grants[i], true
		}
	}

	return model.RoleGrant{}, false
}

// Managed reports whether role name belongs to one of the catalog's grants.
func (c *Catalog) Managed(roleName string) bool {
	return lo.ContainsBy(c.grants, func(g model.RoleGrant) bool {
		return g.Role == roleName
	})
}

// Project finds a project by key, join alias, or any alias of its role.
func (c *Catalog) Project(name string) (model.Project, bool) {
	name = botkit.Fold(name)

	if p, ok := lo.Find(c.projects, func(p model.Project) bool {
		return botkit.Fold(p.Key) == name || botkit.Fold(p.JoinAs) == name
	}); ok {
		return p, true
	}

	grant, ok := c.Grant(name)
	if !ok {
		return model.Project{}, false
	}

	return lo.Find(c.projects, func(p model.Project) bool {
		g, ok := c.Grant(p.JoinAs)
		return ok && g.Role == grant.Role
	})
}
