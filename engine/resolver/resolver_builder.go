package resolver

import "github.com/Carmen-Shannon/oxy-swarm/engine/formation"

// ResolverBuilderOption is a functional option for configuring a Resolver.
// Use the With* functions to create options.
type ResolverBuilderOption func(r *resolver)

// WithStages sets the ordered formation stages. Later stages override earlier ones for the particles
// they claim, from their own start time onward.
//
// Parameters:
//   - stages: formations in pipeline order
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithStages(stages ...formation.Formation) ResolverBuilderOption {
	return func(r *resolver) {
		r.stages = append([]formation.Formation(nil), stages...)
	}
}

// WithReveal sets the column reveal. Without it the default reveal over the default column reveal
// window is used.
//
// Parameters:
//   - reveal: the column reveal
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithReveal(reveal ColumnReveal) ResolverBuilderOption {
	return func(r *resolver) {
		r.reveal = &reveal
	}
}
