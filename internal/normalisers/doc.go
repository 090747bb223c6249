// Package normalisers provides implementations of the ResultNormaliser
// interface. Each normaliser turns one source's raw results into
// canonical items.
package normalisers
