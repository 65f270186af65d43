// Package taxonomy models the fixed archive directory taxonomy and parses
// filesystem paths into typed descriptors.
//
// A media item moves through five lifecycle stages, each backed by a fixed
// directory name (0_new through 4_print). Within a stage, events group media
// by date and type subdirectories group files by category. The classifier
// walks path segments through an ordered list of matchers and produces an
// immutable Descriptor; the policy tables map file extensions to categories
// and canonical locations.
package taxonomy
