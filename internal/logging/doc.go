// Package logging assembles the structured slog loggers used across pwf
// commands and components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so component code automatically tags
// log lines with the command correlation ID. Prefer these constructors over
// hand-rolled slog setup so every component emits data with the same shape.
package logging
