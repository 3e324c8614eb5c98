// Package main hosts the Marquee CLI entrypoint and command graph.
//
// The Cobra-based command tree opens the configured catalog and providers in
// process and drives the enrichment engine directly: inspecting titles,
// creating placeholders, importing provider records, refreshing metadata,
// reconciling searches across providers, and running sweeps either once or as
// a long-lived daemon. It centralizes configuration resolution and output
// formatting so subcommands stay small.
package main
