// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PageFetcher: Fetches one search results page with retry
//   - ResultExtractor: Pulls raw results out of a fetched page
//   - ResultNormaliser: Turns raw results into canonical items
//   - CorpusLoader: Builds the known set from the curated dataset
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - BrowserOpener: Opens links for review. Without it, items are listed only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
