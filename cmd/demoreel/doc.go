// Package main hosts the demoreel CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the structured
// logger, and hands off to the internal packages: beatsync cuts and muxes
// beats, validation scores them, report renders and persists results, and
// history records every run. Commands stay thin; behaviour lives in internal/.
package main
