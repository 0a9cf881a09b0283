// Package conflict defines the conflicts a merge pass reports when both sides
// changed the same unit incompatibly.
//
// The set of conflicts is closed. Each kind has a concrete type and a fixed
// type GUID in a static table; every concrete type implements [Conflict].
//
// # Identity
//
// A conflict's ID is a name-based UUID derived from its kind, the file, the
// context path, the contributing revisions and the contributors' content.
// Running the same merge twice yields the same IDs, which is what lets a
// review tool recognize a conflict it has already shown.
//
// # Serialization
//
// [Conflict.WriteXML] renders a conflict as a <conflict> element and
// [ReadXML] reconstructs it. All identifying fields survive the round trip.
package conflict
