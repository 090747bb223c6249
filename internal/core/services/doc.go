// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// DiscoveryService runs the page pipeline, ReviewService presents its
// output, and SettingsService maps the config store onto AppSettings.
package services
