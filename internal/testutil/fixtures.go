package testutil

import (
	"fmt"
	"time"

	"github.com/dom/blitzadex/internal/domain"
)

// ChampionBuilder creates test champions
type ChampionBuilder struct {
	champion domain.Champion
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	return (&ChampionBuilder{
		champion: domain.Champion{
			Title:    "the Test Champion",
			ShortBio: "A champion that only exists in tests.",
			TacticalInfo: domain.TacticalInfo{
				Style:      5,
				Difficulty: 2,
				DamageType: "kPhysical",
			},
			PlaystyleInfo: domain.PlaystyleInfo{
				Damage:       2,
				Durability:   2,
				CrowdControl: 1,
				Mobility:     1,
				Utility:      1,
			},
			Roles: []string{string(domain.RoleFighter)},
		},
	}).WithID(1)
}

// WithID sets the champion ID and derives name, alias and asset paths from it
func (b *ChampionBuilder) WithID(id uint64) *ChampionBuilder {
	alias := fmt.Sprintf("Champion%d", id)
	b.champion.ID = id
	b.champion.Name = fmt.Sprintf("Champion %d", id)
	b.champion.Alias = alias
	b.champion.SquarePortraitPath = fmt.Sprintf("/lol-game-data/assets/v1/champion-icons/%d.png", id)
	b.champion.StingerSfxPath = fmt.Sprintf("/lol-game-data/assets/v1/champion-sfx-audios/%d.ogg", id)
	b.champion.ChooseVoPath = fmt.Sprintf("/lol-game-data/assets/v1/champion-choose-vo/%d.ogg", id)
	b.champion.BanVoPath = fmt.Sprintf("/lol-game-data/assets/v1/champion-ban-vo/%d.ogg", id)
	return b
}

// WithName sets the champion name
func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.champion.Name = name
	return b
}

// WithAlias sets the champion alias
func (b *ChampionBuilder) WithAlias(alias string) *ChampionBuilder {
	b.champion.Alias = alias
	return b
}

// WithTitle sets the champion title
func (b *ChampionBuilder) WithTitle(title string) *ChampionBuilder {
	b.champion.Title = title
	return b
}

// WithRoles sets the champion roles
func (b *ChampionBuilder) WithRoles(roles ...string) *ChampionBuilder {
	b.champion.Roles = roles
	return b
}

func (b *ChampionBuilder) Build() domain.Champion {
	c := b.champion
	c.Roles = append([]string(nil), b.champion.Roles...)
	return c
}

// SeedChampions returns count champions with ids 1..count
func SeedChampions(count int) []domain.Champion {
	champions := make([]domain.Champion, count)
	for i := range champions {
		champions[i] = NewChampionBuilder().WithID(uint64(i + 1)).Build()
	}
	return champions
}

// RealChampions returns a handful of champions with their real ids
func RealChampions() []domain.Champion {
	return []domain.Champion{
		NewChampionBuilder().WithID(1).WithName("Annie").WithAlias("Annie").WithTitle("the Dark Child").WithRoles("mage").Build(),
		NewChampionBuilder().WithID(103).WithName("Ahri").WithAlias("Ahri").WithTitle("the Nine-Tailed Fox").WithRoles("mage", "assassin").Build(),
		NewChampionBuilder().WithID(266).WithName("Aatrox").WithAlias("Aatrox").WithTitle("the Darkin Blade").WithRoles("fighter", "tank").Build(),
		NewChampionBuilder().WithID(84).WithName("Akali").WithAlias("Akali").WithTitle("the Rogue Assassin").WithRoles("assassin").Build(),
		NewChampionBuilder().WithID(238).WithName("Zed").WithAlias("Zed").WithTitle("the Master of Shadows").WithRoles("assassin").Build(),
	}
}

// Date returns midnight UTC on the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewPlugin returns a directory plugin last modified at mtime
func NewPlugin(name domain.PluginName, mtime time.Time) domain.Plugin {
	return domain.Plugin{
		Name:  name,
		Type:  domain.PluginTypeDirectory,
		Mtime: mtime,
	}
}

// GameDataPlugin returns the game data plugin last modified at mtime
func GameDataPlugin(mtime time.Time) domain.Plugin {
	return NewPlugin(domain.PluginRcpBeLolGameData, mtime)
}
