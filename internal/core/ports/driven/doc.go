// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The generation pipeline is composed from
// one DataSource, one Parser and one Transformer; the Transformer in turn
// delegates to either a RuleEngine or an LLMService.
package driven
