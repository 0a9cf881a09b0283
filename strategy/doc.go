// Package strategy holds the per-tag configuration telling the merge engine
// how children of an element are identified across revisions.
//
// An [Element] strategy is bound to a tag name and chooses one of three
// matching modes:
//
//   - Keyed: same-tag siblings are told apart by an attribute value. Order
//     only matters when the strategy says it is significant.
//   - Singleton: the element occurs at most once under its parent and is
//     matched by tag.
//   - Positional: the n-th occurrence of a tag matches the n-th occurrence on
//     the other side. This is the default for any tag without a strategy.
//
// A strategy may also mark the element atomic, in which case differing
// content is reported as a whole rather than recursed into.
//
// Strategies are collected with a [Builder] and frozen into a [Registry].
// A Registry is never mutated and is safe to share between concurrent merge
// passes.
//
//	reg, err := strategy.NewBuilder().
//		Set("entry", strategy.Keyed("guid", false)).
//		Set("header", strategy.Singleton()).
//		Build()
package strategy
