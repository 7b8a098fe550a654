// Package fuzzy filters candidate lists by case-insensitive subsequence queries.
//
// Matching is delegated to [github.com/sahilm/fuzzy] in its no-sort mode, so a filtered view is always
// an order-preserving subsequence of the input. An empty query is the identity filter. Candidates whose
// display text is not valid UTF-8 never match a non-empty query and are skipped without aborting the pass.
package fuzzy
