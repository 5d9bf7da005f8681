package middleware

import "github.com/aretw0/sysml/pkg/ports"

// Middleware wraps a ModelRepository to add behavior.
type Middleware func(ports.ModelRepository) ports.ModelRepository

// Chain wraps repo with mws. The first middleware is the outermost, so it
// sees a Save first.
func Chain(repo ports.ModelRepository, mws ...Middleware) ports.ModelRepository {
	for i := len(mws) - 1; i >= 0; i-- {
		repo = mws[i](repo)
	}
	return repo
}
