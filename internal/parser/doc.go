// Package parser is the typed boundary for persisted match files. It turns
// the JSON document written by the grading tool (optionally gzip or zstd
// compressed) into a validated model.MatchData and writes it back in the same
// shape.
package parser
