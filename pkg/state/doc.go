// Package state persists string tables per domain, culture and scope, and
// turns them into lexicon assets.
//
//   - Store loads, saves and deletes one Table for one Ref.
//   - Resolver loads the tables of several scopes, orders them with
//     lexicon.NewStack and merges them strongest first through layering.
//   - Resolver.Mutate applies an edit under optimistic concurrency (ETag)
//     and reports the change to activity hooks.
//   - Provider materializes the merged table for the culture of a filter
//     line, so stored content can sit anywhere in an asset tree.
//
// Keys are stored in the String form of a line ("Section:Errors:Key:NotFound")
// and the culture lives in the Ref, not in the key.
package state
