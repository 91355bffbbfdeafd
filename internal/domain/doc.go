// Package domain models location resolution for disaster incident reports.
//
// # Resolution flow
//
// Incident descriptions arrive as unstructured free text ("Heavy flooding in
// Manhattan. Water rising fast."). Resolution extracts a candidate place name
// and turns it into coordinates through an ordered chain of providers, each
// consulted only when the previous one fails:
//
//  1. Semantic extraction via an external language model (when a credential
//     is configured), falling back to
//  2. keyword extraction against an ordered list of known place names, then a
//     capitalized-token heuristic, then the "Unknown Location" sentinel.
//
// The candidate name goes to the geocoding provider; when that fails, a
// static gazetteer supplies approximate coordinates; when even the gazetteer
// has no entry, resolution degrades to (0, 0). Resolution therefore never
// fails past input validation; it degrades confidence instead.
//
// # Confidence ladder
//
// Confidence is a float in [0, 1], lower for coarser fallback tiers:
//
//	provider score  geocoding succeeded and the provider reported relevance
//	0.5             geocoding succeeded without a provider score
//	0.3             coordinates came from the static gazetteer
//	0.1             nothing matched; coordinates are (0, 0)
//
// The constants are fixed tier markers, not calibrated probabilities.
//
// # Cache key convention
//
// Resolved results are cached under "geocode:" + the raw description text.
// The description is deliberately not normalized: two descriptions differing
// only in case or whitespace resolve and cache independently.
//
// # Priority tiers
//
// Reports and social posts are classified into urgent/high/normal by ordered
// keyword tiers. Tier order and keyword order within a tier are the
// tie-breaks: the urgent tier is checked before the high tier, and the first
// matching keyword in declared order names the classification reason.
package domain
