package service

import (
	"fmt"
	"sync"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
)

// SpecRegistry holds the process-wide resource spec table. It is populated
// once at startup and read-only afterwards.
type SpecRegistry struct {
	mu    sync.RWMutex
	specs map[domain.ResourceKind]*domain.ResourceSpec
}

func NewSpecRegistry() *SpecRegistry {
	return &SpecRegistry{
		specs: make(map[domain.ResourceKind]*domain.ResourceSpec),
	}
}

func (r *SpecRegistry) Register(spec *domain.ResourceSpec) error {
	if spec == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil resource spec")
	}
	if spec.Kind == "" {
		return errors.New(errors.CodeInternal, "resource spec kind cannot be empty")
	}
	if spec.Prefix == "" {
		return errors.Newf(errors.CodeInternal, "resource spec '%s' has no middleware prefix", spec.Kind)
	}
	if !spec.Singleton && spec.IDField == "" {
		return errors.Newf(errors.CodeInternal, "resource spec '%s' has no identifier field", spec.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.Kind]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("resource spec for kind '%s' already registered", spec.Kind))
	}
	r.specs[spec.Kind] = spec
	return nil
}

func (r *SpecRegistry) Get(kind domain.ResourceKind) (*domain.ResourceSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, exists := r.specs[kind]
	if !exists {
		return nil, errors.New(errors.CodeNotImplemented, fmt.Sprintf("resource kind '%s' is not supported", kind))
	}
	return spec, nil
}

func (r *SpecRegistry) Kinds() []domain.ResourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.ResourceKind, 0, len(r.specs))
	for k := range r.specs {
		kinds = append(kinds, k)
	}
	return kinds
}
