// Package main is the entry point for the tennis-grader CLI, which scores
// graded tennis matches and reports serve, shot and risk statistics.
package main

import "github.com/pable/go-tennis-grader/cmd"

func main() {
	cmd.Execute()
}
