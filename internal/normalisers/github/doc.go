// Package github normalises GitHub repository search results.
//
// Search results carry the matched term wrapped in highlight markup,
// either as plain <em> tags or as their unicode-escaped text form when the
// payload was double encoded. The normaliser strips both, drops results
// that have no description, and removes names matching the exclusion list.
package github
