package usecase

import (
	"strings"

	drepo "HealthPull/internal/domain/repository"
)

// IdentityResolver picks the subject id for a session: an explicit request
// parameter wins and is persisted ("device link"); otherwise the persisted
// value is used. The id is an opaque token and is not validated.
type IdentityResolver struct{}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver() *IdentityResolver { return &IdentityResolver{} }

// Resolve returns the subject id, or "" when the session is not linked.
func (r *IdentityResolver) Resolve(param string, store drepo.IdentityStore) string {
	if id := strings.TrimSpace(param); id != "" {
		if store != nil {
			store.Set(id)
		}
		return id
	}
	if store == nil {
		return ""
	}
	if id, ok := store.Get(); ok {
		return id
	}
	return ""
}
