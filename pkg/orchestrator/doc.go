// Package orchestrator wires the schema source → structural check →
// transformer → renderer pipeline for callers that want rendered output from a
// stored form without assembling the pieces themselves.
package orchestrator
