// Package timeline models the demo as an ordered list of beats.
//
// A Plan comes either from the hand-authored [[beats]] table in the
// configuration or from a markdown storyboard. The storyboard parser reports
// every line it cannot place as a Diagnostic rather than dropping it. Check
// inspects a plan for gaps, overlaps, and windows outside the master
// recording; its findings are advisory and never block a run.
package timeline
