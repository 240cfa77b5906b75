// Package textutil normalizes titles and narration text.
//
// It provides accent-stripping slugs for derived file names, title casing for
// storyboard headings, phrase matching for topic coverage, and a small
// term-frequency fingerprint used to spot near-duplicate narration.
package textutil
