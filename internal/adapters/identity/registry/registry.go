// Package registry serves voter identities from a local JSON file, for
// development and demos without RENIEC credentials.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
)

var _ ports.IdentityLookup = (*Registry)(nil)

type registryFile struct {
	Voters []domain.Voter `json:"voters"`
}

type Registry struct {
	mu     sync.RWMutex
	path   string
	voters map[string]domain.Voter
}

// Load reads the voters file at path.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the in-memory voters with the current file contents.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read voters file: %w", err)
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse voters file: %w", err)
	}

	voters := make(map[string]domain.Voter, len(file.Voters))
	for _, v := range file.Voters {
		dni, err := domain.ValidateDNI(v.DNI)
		if err != nil {
			return fmt.Errorf("voter %q: %w", v.FullName, err)
		}
		v.DNI = dni
		voters[dni] = v
	}

	r.mu.Lock()
	r.voters = voters
	r.mu.Unlock()
	return nil
}

func (r *Registry) Lookup(ctx context.Context, dni string) (*domain.Voter, error) {
	dni, err := domain.ValidateDNI(dni)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.voters[dni]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return &v, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.voters)
}
