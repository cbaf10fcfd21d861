package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/aggregator"
	"github.com/pable/go-tennis-grader/internal/report"
	"github.com/pable/go-tennis-grader/internal/storage"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("tennis-grader shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("grader")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <id-prefix> [--at N]")
				continue
			}
			at := -1
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--at" {
					at, _ = strconv.Atoi(args[i+1])
				}
			}
			shellShow(db, args[0], at)
		case "rallies":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: rallies <id-prefix>")
				continue
			}
			shellRallies(db, args[0])
		case "next":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: next <id-prefix>")
				continue
			}
			shellNext(db, args[0])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <id-prefix>", "show a match's score and statistics"},
		{"show <id-prefix> --at <N>", "same, as it stood after N rallies"},
		{"rallies <id-prefix>", "rally-by-rally score sheet"},
		{"next <id-prefix>", "score and server of the next point"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-16s  %-16s  %7s  %s\n", "ID", "ME", "OPPONENT", "RALLIES", "EDITED")
	cMuted.Fprintf(os.Stdout, "%-14s  %-16s  %-16s  %7s  %s\n",
		"──────────────", "────────────────", "────────────────", "───────", "────────────────────")
	for _, s := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-16s  %-16s  %7d  %s\n",
			s.ID[:min(12, len(s.ID))], s.MyName, s.OppoName, s.NumRallies, s.LastEditedAt)
	}
}

func shellShow(db *storage.DB, prefix string, at int) {
	m, err := findMatch(db, prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "no match found with prefix %q\n", prefix)
		return
	}
	if at < 0 || at > len(m.Rallies) {
		at = len(m.Rallies)
	}
	contexts := aggregator.Build(m.Rallies)
	report.PrintMatchSummary(os.Stdout, m, contexts[at].ScoreBefore)
	report.PrintServeStats(os.Stdout, m, contexts[at].StatBefore)
	fmt.Println()
	report.PrintShotStats(os.Stdout, m, contexts[at].StatBefore)
	fmt.Println()
	report.PrintEasinessByGame(os.Stdout, m, contexts[:at])
}

func shellRallies(db *storage.DB, prefix string) {
	m, err := mustFindMatch(db, prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintRallySheet(os.Stdout, m, timeline.Build(m.Rallies), 0, 0)
}

func shellNext(db *storage.DB, prefix string) {
	m, err := mustFindMatch(db, prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Fprintf(os.Stdout, "%s vs %s\n", m.MyName, m.OppoName)
	report.PrintNextPoint(os.Stdout, m, timeline.NextContext(m.Rallies))
}
