// Package main hosts the pwf CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the archive
// workflow: initializing a taxonomy tree, checking and protecting events,
// importing them into the original archive, linking between stages, and
// rendering previews, downsized copies and statistics. It centralizes
// configuration resolution, archive locking and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
