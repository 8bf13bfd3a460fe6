package driven

// RuleEngine applies deterministic transformation rules to a batch of
// words. The engine makes no guarantee about the count relationship
// between input and output; one word may expand into many candidates.
type RuleEngine interface {
	// Apply runs every rule line over the batch and returns the results
	// in the engine's own order.
	Apply(rules []string, words []string) ([]string, error)
}
