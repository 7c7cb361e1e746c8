// Package app wires the batch runner together: it validates configuration,
// constructs the logger, discovers and loads script files, and hands the
// batch to the orchestrator.
package app
