package entitlements

import (
	"log"
	"sync"

	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/cache"
	"github.com/ryvynn-app/ryvynn/internal/pkg/env"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
)

var (
	activeMatrix *tiers.Matrix
	matrixOnce   sync.Once
)

// ActiveMatrix returns the matrix the process runs on: the file named by
// TIER_MATRIX_PATH when set and valid, otherwise the compiled-in table.
// Loaded once; a matrix must not change mid-request.
func ActiveMatrix() *tiers.Matrix {
	matrixOnce.Do(func() {
		if path := env.GetEnv("TIER_MATRIX_PATH", ""); path != "" {
			m, err := tiers.LoadMatrix(path)
			if err != nil {
				log.Printf("tier matrix %s rejected, using built-in: %v", path, err)
			} else {
				activeMatrix = m
				return
			}
		}
		activeMatrix = tiers.Default()
	})
	return activeMatrix
}

// NewDefault wires the service from the global repository factory, the
// active matrix and the redis snapshot cache.
func NewDefault() *Service {
	repos := repository.GetGlobalRepositories()
	return NewService(repos.Entitlement, repos.Subscription, ActiveMatrix(), cache.NewStore())
}
