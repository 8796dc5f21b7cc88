package service

import (
	"sort"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

var _ output.ActionRegistry = (*ActionRegistryImpl)(nil)

// ActionRegistryImpl maps action kinds to handlers. Registration
// happens during wiring, before any run starts; dispatch only reads.
type ActionRegistryImpl struct {
	handlers map[entity.ActionKind]output.ActionHandler
}

func NewActionRegistry() *ActionRegistryImpl {
	return &ActionRegistryImpl{
		handlers: make(map[entity.ActionKind]output.ActionHandler),
	}
}

func (r *ActionRegistryImpl) Register(kind entity.ActionKind, handler output.ActionHandler) {
	r.handlers[kind] = handler
}

func (r *ActionRegistryImpl) Get(kind entity.ActionKind) (output.ActionHandler, bool) {
	handler, ok := r.handlers[kind]
	return handler, ok
}

// Kinds returns the registered kinds sorted, so prompt rendering stays
// stable across runs.
func (r *ActionRegistryImpl) Kinds() []entity.ActionKind {
	kinds := make([]entity.ActionKind, 0, len(r.handlers))
	for kind := range r.handlers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
