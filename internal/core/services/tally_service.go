package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

type tallyService struct {
	repo ports.TallyRepository
}

func NewTallyService(repo ports.TallyRepository) ports.TallyService {
	return &tallyService{
		repo: repo,
	}
}

// ReconcileAll rewrites vote counts for every category concurrently and
// returns how many candidates changed per category.
func (s *tallyService) ReconcileAll(ctx context.Context) (map[domain.Category]int64, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		adjusted = make(map[domain.Category]int64, len(domain.Categories))
		errChan  = make(chan error, len(domain.Categories))
	)

	for _, category := range domain.Categories {
		wg.Add(1)
		go func(c domain.Category) {
			defer wg.Done()
			n, err := s.repo.ReconcileVoteCounts(ctx, c)
			if err != nil {
				errChan <- fmt.Errorf("failed to reconcile %s: %w", c, err)
				return
			}
			mu.Lock()
			adjusted[c] = n
			mu.Unlock()
		}(category)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return adjusted, err
		}
	}

	return adjusted, nil
}
