package domain

type TacticalInfo struct {
	Style      int    `json:"style"`
	Difficulty int    `json:"difficulty"`
	DamageType string `json:"damageType"`
}

type PlaystyleInfo struct {
	Damage       int `json:"damage"`
	Durability   int `json:"durability"`
	CrowdControl int `json:"crowdControl"`
	Mobility     int `json:"mobility"`
	Utility      int `json:"utility"`
}

// Champion is a single record from champions/<id>.json.
type Champion struct {
	ID                 uint64        `json:"id" validate:"required"`
	Name               string        `json:"name" validate:"required"`
	Alias              string        `json:"alias" validate:"required"`
	Title              string        `json:"title"`
	ShortBio           string        `json:"shortBio"`
	TacticalInfo       TacticalInfo  `json:"tacticalInfo"`
	PlaystyleInfo      PlaystyleInfo `json:"playstyleInfo"`
	SquarePortraitPath string        `json:"squarePortraitPath"`
	StingerSfxPath     string        `json:"stingerSfxPath"`
	ChooseVoPath       string        `json:"chooseVoPath"`
	BanVoPath          string        `json:"banVoPath"`
	Roles              []string      `json:"roles"`
}

type ChampionRole string

const (
	RoleAssassin ChampionRole = "assassin"
	RoleFighter  ChampionRole = "fighter"
	RoleMage     ChampionRole = "mage"
	RoleMarksman ChampionRole = "marksman"
	RoleSupport  ChampionRole = "support"
	RoleTank     ChampionRole = "tank"
)

// HasRole reports whether the champion lists role.
func (c Champion) HasRole(role ChampionRole) bool {
	for _, r := range c.Roles {
		if ChampionRole(r) == role {
			return true
		}
	}
	return false
}
