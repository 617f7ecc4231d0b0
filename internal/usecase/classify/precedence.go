package classify

import (
	"fmt"

	"github.com/kailas-cloud/searchintent/internal/domain"
	"github.com/kailas-cloud/searchintent/internal/domain/entity"
)

// Precedence orders entity kinds when several kinds match equally well.
type Precedence []entity.Kind

// DefaultPrecedence is Place > Category > Brand.
func DefaultPrecedence() Precedence {
	return Precedence(entity.Kinds())
}

// ParsePrecedence builds a Precedence from config values.
// Empty input yields the default; otherwise every kind must appear exactly once.
func ParsePrecedence(names []string) (Precedence, error) {
	if len(names) == 0 {
		return DefaultPrecedence(), nil
	}
	all := entity.Kinds()
	if len(names) != len(all) {
		return nil, fmt.Errorf("%w: want %d kinds, got %d", domain.ErrInvalidPrecedence, len(all), len(names))
	}
	seen := make(map[entity.Kind]struct{}, len(names))
	p := make(Precedence, 0, len(names))
	for _, n := range names {
		k, err := entity.ParseKind(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPrecedence, err)
		}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", domain.ErrInvalidPrecedence, n)
		}
		seen[k] = struct{}{}
		p = append(p, k)
	}
	return p, nil
}
