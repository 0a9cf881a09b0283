// Package xnode provides the element-tree helpers shared by the merge engine.
//
// Documents are github.com/beevik/etree trees. xnode adds what the engine
// needs on top of them:
//
//   - canonical comparison, where attribute order, whitespace-only text and
//     comments do not count as content
//   - outer XML rendering of a single element
//   - ContextDescriptor, a path locator that can be resolved back into a
//     document later without re-running a diff
//   - MalformedInputError, raised when a document violates a structural
//     assumption the strategy configuration depends on
//
// # Locators
//
// A ContextDescriptor path is an etree path made of steps built by
// [KeyedStep], [TagStep] and [IndexStep]:
//
//	/lift/entry[@guid='abc']/sense[2]/gloss
//
// Paths resolve with [ContextDescriptor.Resolve].
package xnode
