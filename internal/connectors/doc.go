// Package connectors holds the search sources reposcout can query.
// Each source implements driven.PageFetcher and ships the
// driven.ResultExtractor that understands its page format.
package connectors
