package store

// StoreBuilderOption is a functional option for configuring a Store during construction.
type StoreBuilderOption func(*store)

// WithState is an option builder that replaces the initial state.
//
// Parameters:
//   - state: the starting state
//
// Returns:
//   - StoreBuilderOption: a function that applies the state to a store
func WithState(state State) StoreBuilderOption {
	return func(s *store) {
		s.state = state.clone()
	}
}
