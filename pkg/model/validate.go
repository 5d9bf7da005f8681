package model

import (
	"time"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/validator"
)

// Validate checks the whole model. It returns nil or a
// *validator.AggregateError listing every finding.
func (s *Store) Validate() error {
	start := time.Now()

	s.mu.RLock()
	elements := make([]domain.Element, 0, len(s.elementOrder))
	for _, id := range s.elementOrder {
		elements = append(elements, s.elements[id])
	}
	err := validator.ValidateModel(elements, func(id string) (domain.Element, bool) {
		e, ok := s.elements[id]
		return e, ok
	})
	s.mu.RUnlock()

	findings := len(validator.ValidationErrors(err))
	s.metrics.validation(time.Since(start), findings)
	if err != nil {
		s.logger.Debug("model validation failed", "findings", findings)
	}
	return err
}
