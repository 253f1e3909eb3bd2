// Package logger provides structured JSON logging built on log/slog.
//
// A request-scoped logger travels through context.Context so that every log
// line written while serving a request carries its trace_id.
package logger
