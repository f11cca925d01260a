package cdragon

import (
	"fmt"

	"github.com/dom/blitzadex/internal/domain"
)

// EvaluateFreshness classifies the cached copy of plugin name against the
// remote listing. A nil cached slice means nothing has been cached yet.
// Remote is only consulted when the plugin is present in cached.
func EvaluateFreshness(cached, remote []domain.Plugin, name domain.PluginName) (domain.SyncStatus, error) {
	cachedPlugin, ok := domain.FindPlugin(cached, name)
	if !ok {
		return domain.StatusOutOfDate, nil
	}

	remotePlugin, ok := domain.FindPlugin(remote, name)
	if !ok {
		return domain.StatusUninitialized, fmt.Errorf("%w: plugin %s missing from remote listing", domain.ErrNotFound, name)
	}

	if cachedPlugin.Mtime.Before(remotePlugin.Mtime) {
		return domain.StatusOutOfDate, nil
	}
	return domain.StatusUpToDate, nil
}
