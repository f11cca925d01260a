package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type PluginName string

const (
	PluginRcpBeLolGameData            PluginName = "rcp-be-lol-game-data"
	PluginRcpBeLolLicenseAgreement    PluginName = "rcp-be-lol-license-agreement"
	PluginRcpBeSanitizer              PluginName = "rcp-be-sanitizer"
	PluginRcpFeAudio                  PluginName = "rcp-fe-audio"
	PluginRcpFeCommonLibs             PluginName = "rcp-fe-common-libs"
	PluginRcpFeEmberLibs              PluginName = "rcp-fe-ember-libs"
	PluginRcpFeLolCareerStats         PluginName = "rcp-fe-lol-career-stats"
	PluginRcpFeLolChampSelect         PluginName = "rcp-fe-lol-champ-select"
	PluginRcpFeLolChampionDetails     PluginName = "rcp-fe-lol-champion-details"
	PluginRcpFeLolChampionStatistics  PluginName = "rcp-fe-lol-champion-statistics"
	PluginRcpFeLolClash               PluginName = "rcp-fe-lol-clash"
	PluginRcpFeLolCollections         PluginName = "rcp-fe-lol-collections"
	PluginRcpFeLolEsportsSpectate     PluginName = "rcp-fe-lol-esports-spectate"
	PluginRcpFeLolEventHub            PluginName = "rcp-fe-lol-event-hub"
	PluginRcpFeLolEventShop           PluginName = "rcp-fe-lol-event-shop"
	PluginRcpFeLolHighlights          PluginName = "rcp-fe-lol-highlights"
	PluginRcpFeLolHonor               PluginName = "rcp-fe-lol-honor"
	PluginRcpFeLolKickout             PluginName = "rcp-fe-lol-kickout"
	PluginRcpFeLolL10n                PluginName = "rcp-fe-lol-l10n"
	PluginRcpFeLolLeagues             PluginName = "rcp-fe-lol-leagues"
	PluginRcpFeLolLockAndLoad         PluginName = "rcp-fe-lol-lock-and-load"
	PluginRcpFeLolLoot                PluginName = "rcp-fe-lol-loot"
	PluginRcpFeLolMatchHistory        PluginName = "rcp-fe-lol-match-history"
	PluginRcpFeLolNavigation          PluginName = "rcp-fe-lol-navigation"
	PluginRcpFeLolNewPlayerExperience PluginName = "rcp-fe-lol-new-player-experience"
	PluginRcpFeLolNpeRewards          PluginName = "rcp-fe-lol-npe-rewards"
	PluginRcpFeLolParties             PluginName = "rcp-fe-lol-parties"
	PluginRcpFeLolPaw                 PluginName = "rcp-fe-lol-paw"
	PluginRcpFeLolPft                 PluginName = "rcp-fe-lol-pft"
	PluginRcpFeLolPostgame            PluginName = "rcp-fe-lol-postgame"
	PluginRcpFeLolPremadeVoice        PluginName = "rcp-fe-lol-premade-voice"
	PluginRcpFeLolProfiles            PluginName = "rcp-fe-lol-profiles"
	PluginRcpFeLolSettings            PluginName = "rcp-fe-lol-settings"
	PluginRcpFeLolSharedComponents    PluginName = "rcp-fe-lol-shared-components"
	PluginRcpFeLolSkinsPicker         PluginName = "rcp-fe-lol-skins-picker"
	PluginRcpFeLolSocial              PluginName = "rcp-fe-lol-social"
	PluginRcpFeLolStartup             PluginName = "rcp-fe-lol-startup"
	PluginRcpFeLolStaticAssets        PluginName = "rcp-fe-lol-static-assets"
	PluginRcpFeLolStore               PluginName = "rcp-fe-lol-store"
	PluginRcpFeLolTft                 PluginName = "rcp-fe-lol-tft"
	PluginRcpFeLolTftTeamPlanner      PluginName = "rcp-fe-lol-tft-team-planner"
	PluginRcpFeLolTftTroves           PluginName = "rcp-fe-lol-tft-troves"
	PluginRcpFeLolTypekit             PluginName = "rcp-fe-lol-typekit"
	PluginRcpFeLolUikit               PluginName = "rcp-fe-lol-uikit"
	PluginRcpFeLolYourshop            PluginName = "rcp-fe-lol-yourshop"
	PluginRcpFePluginRunner           PluginName = "rcp-fe-plugin-runner"

	// PluginManifest stands in for every name the catalog reports that is
	// not listed above.
	PluginManifest PluginName = "plugin-manifest"
)

var knownPluginNames = map[PluginName]struct{}{
	PluginRcpBeLolGameData:            {},
	PluginRcpBeLolLicenseAgreement:    {},
	PluginRcpBeSanitizer:              {},
	PluginRcpFeAudio:                  {},
	PluginRcpFeCommonLibs:             {},
	PluginRcpFeEmberLibs:              {},
	PluginRcpFeLolCareerStats:         {},
	PluginRcpFeLolChampSelect:         {},
	PluginRcpFeLolChampionDetails:     {},
	PluginRcpFeLolChampionStatistics:  {},
	PluginRcpFeLolClash:               {},
	PluginRcpFeLolCollections:         {},
	PluginRcpFeLolEsportsSpectate:     {},
	PluginRcpFeLolEventHub:            {},
	PluginRcpFeLolEventShop:           {},
	PluginRcpFeLolHighlights:          {},
	PluginRcpFeLolHonor:               {},
	PluginRcpFeLolKickout:             {},
	PluginRcpFeLolL10n:                {},
	PluginRcpFeLolLeagues:             {},
	PluginRcpFeLolLockAndLoad:         {},
	PluginRcpFeLolLoot:                {},
	PluginRcpFeLolMatchHistory:        {},
	PluginRcpFeLolNavigation:          {},
	PluginRcpFeLolNewPlayerExperience: {},
	PluginRcpFeLolNpeRewards:          {},
	PluginRcpFeLolParties:             {},
	PluginRcpFeLolPaw:                 {},
	PluginRcpFeLolPft:                 {},
	PluginRcpFeLolPostgame:            {},
	PluginRcpFeLolPremadeVoice:        {},
	PluginRcpFeLolProfiles:            {},
	PluginRcpFeLolSettings:            {},
	PluginRcpFeLolSharedComponents:    {},
	PluginRcpFeLolSkinsPicker:         {},
	PluginRcpFeLolSocial:              {},
	PluginRcpFeLolStartup:             {},
	PluginRcpFeLolStaticAssets:        {},
	PluginRcpFeLolStore:               {},
	PluginRcpFeLolTft:                 {},
	PluginRcpFeLolTftTeamPlanner:      {},
	PluginRcpFeLolTftTroves:           {},
	PluginRcpFeLolTypekit:             {},
	PluginRcpFeLolUikit:               {},
	PluginRcpFeLolYourshop:            {},
	PluginRcpFePluginRunner:           {},
	PluginManifest:                    {},
}

// ParsePluginName maps a catalog name onto a known PluginName, falling back
// to PluginManifest for anything unrecognised.
func ParsePluginName(s string) PluginName {
	name := PluginName(s)
	if _, ok := knownPluginNames[name]; ok {
		return name
	}
	return PluginManifest
}

// LookupPluginName resolves a user-supplied name. Unlike ParsePluginName it
// rejects unrecognised names; only the literal "plugin-manifest" selects
// PluginManifest.
func LookupPluginName(s string) (PluginName, error) {
	name := PluginName(s)
	if _, ok := knownPluginNames[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlugin, s)
	}
	return name, nil
}

// Known reports whether n is one of the named plugins rather than the
// PluginManifest fallback.
func (n PluginName) Known() bool {
	_, ok := knownPluginNames[n]
	return ok && n != PluginManifest
}

func (n PluginName) String() string {
	return string(n)
}

func (n *PluginName) UnmarshalText(text []byte) error {
	*n = ParsePluginName(string(text))
	return nil
}

type PluginType string

const (
	PluginTypeFile      PluginType = "file"
	PluginTypeDirectory PluginType = "directory"
)

func (t *PluginType) UnmarshalText(text []byte) error {
	switch PluginType(text) {
	case PluginTypeFile, PluginTypeDirectory:
		*t = PluginType(text)
		return nil
	default:
		return fmt.Errorf("%w: unknown plugin type %q", ErrDecode, string(text))
	}
}

type Plugin struct {
	Name  PluginName
	Type  PluginType
	Mtime time.Time
	Size  *int64
}

// UpdatedSince reports whether the plugin was modified after t.
func (p Plugin) UpdatedSince(t time.Time) bool {
	return p.Mtime.After(t)
}

type pluginJSON struct {
	Name  PluginName `json:"name"`
	Type  PluginType `json:"type"`
	Mtime string     `json:"mtime"`
	Size  *int64     `json:"size"`
}

func (p Plugin) MarshalJSON() ([]byte, error) {
	return json.Marshal(pluginJSON{
		Name:  p.Name,
		Type:  p.Type,
		Mtime: FormatMtime(p.Mtime),
		Size:  p.Size,
	})
}

func (p *Plugin) UnmarshalJSON(data []byte) error {
	var raw pluginJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("%w: plugin entry has no name", ErrDecode)
	}
	if raw.Type != PluginTypeFile && raw.Type != PluginTypeDirectory {
		return fmt.Errorf("%w: plugin %s has no type", ErrDecode, raw.Name)
	}
	mtime, err := ParseMtime(raw.Mtime)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", raw.Name, err)
	}
	*p = Plugin{
		Name:  raw.Name,
		Type:  raw.Type,
		Mtime: mtime,
		Size:  raw.Size,
	}
	return nil
}

// FindPlugin returns the first plugin in plugins with the given name.
func FindPlugin(plugins []Plugin, name PluginName) (Plugin, bool) {
	for _, p := range plugins {
		if p.Name == name {
			return p, true
		}
	}
	return Plugin{}, false
}
