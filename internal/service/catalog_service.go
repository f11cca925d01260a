package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/repository"
)

// CatalogService answers read queries. The in-memory copy held by CDragon is
// authoritative; the repository is consulted when it is empty (a server that
// has a database but no cache yet).
type CatalogService struct {
	dragon       *cdragon.CDragon
	championRepo repository.ChampionRepository
}

func NewCatalogService(dragon *cdragon.CDragon, championRepo repository.ChampionRepository) *CatalogService {
	return &CatalogService{
		dragon:       dragon,
		championRepo: championRepo,
	}
}

type ChampionFilter struct {
	Role   string
	Search string
}

func (f ChampionFilter) matches(c domain.Champion) bool {
	if f.Role != "" && !c.HasRole(domain.ChampionRole(f.Role)) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(strings.ToLower(c.Alias), needle) {
			return false
		}
	}
	return true
}

func (s *CatalogService) ListChampions(ctx context.Context, filter ChampionFilter) ([]domain.Champion, error) {
	champions := s.dragon.Champions()
	if len(champions) == 0 {
		stored, err := s.championRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list stored champions: %w", err)
		}
		champions = stored
	}

	result := make([]domain.Champion, 0, len(champions))
	for _, c := range champions {
		if filter.matches(c) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *CatalogService) GetChampion(ctx context.Context, id uint64) (*domain.Champion, error) {
	if champion, ok := s.dragon.Champion(id); ok {
		return &champion, nil
	}

	champion, err := s.championRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("ERROR [service.GetChampion] id=%d: %v", id, err)
		}
		return nil, err
	}
	return champion, nil
}

func (s *CatalogService) ListPlugins() []domain.Plugin {
	return s.dragon.Plugins()
}

func (s *CatalogService) GetPlugin(name domain.PluginName) (domain.Plugin, error) {
	plugin, ok := s.dragon.Plugin(name)
	if !ok {
		return domain.Plugin{}, fmt.Errorf("%w: plugin %s", domain.ErrNotFound, name)
	}
	return plugin, nil
}
