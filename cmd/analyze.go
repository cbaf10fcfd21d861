package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/aggregator"
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/risk"
	"github.com/pable/go-tennis-grader/internal/score"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

const analyzeSystemPrompt = `You are a tennis coach reviewing a singles match. You are given structured
statistics from a rally-by-rally grading tool and a question from the graded
player ("me"). The opponent is the other player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the player can actually change.

Glossary:
- Shot quality: manual 1-5 rating of a shot. 5 is a stretcher, 3 is neutral.
- Forcing win: point won with a last shot rated above 3.
- Unforced error: point lost by a double fault or to a winning shot rated 3 or lower.
- Risk level: winning shot quality minus what the ball it was hit from allowed.
  0-1 is a safe attack, 2+ is aggressive, negative is a lucky or weak finish.
- Easiness per won point: Easy (gift), Medium (safe forcing win), Hard (risky forcing win).
- Game/set points: points where that player would win the game/set by winning it.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeRender bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <id-prefix> <question>",
	Short: "AI-powered grounded match analysis (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().BoolVar(&analyzeRender, "render", false, "render the answer as markdown once complete")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mustFindMatch(db, args[0])
	if err != nil {
		return err
	}
	if len(m.Rallies) == 0 {
		return fmt.Errorf("match %s has no rallies to analyze", m.ID)
	}

	contextJSON, err := buildMatchContext(m, aggregator.Build(m.Rallies))
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, args[1], analyzeRender)
}

type ratioEntry struct {
	Num int  `json:"n"`
	Den int  `json:"of"`
	Pct *int `json:"pct"`
}

func ratio(r model.Ratio) ratioEntry {
	e := ratioEntry{Num: r.Num, Den: r.Den}
	if p, ok := r.Percent(); ok {
		e.Pct = &p
	}
	return e
}

type playerEntry struct {
	Name                string     `json:"name"`
	PointsWon           int        `json:"points_won"`
	FirstServeIn        ratioEntry `json:"first_serve_in"`
	SecondServeIn       ratioEntry `json:"second_serve_in"`
	FirstServePtsWon    ratioEntry `json:"first_serve_points_won"`
	SecondServePtsWon   ratioEntry `json:"second_serve_points_won"`
	DoubleFaults        int        `json:"double_faults"`
	ForcingWins         int        `json:"forcing_wins"`
	ForcingOnServe      ratioEntry `json:"forcing_win_on_serve"`
	ForcingOnReturn     ratioEntry `json:"forcing_win_on_return"`
	UnforcedErrors      int        `json:"unforced_errors"`
	UnforcedOnServe     ratioEntry `json:"unforced_error_on_serve"`
	UnforcedOnReturn    ratioEntry `json:"unforced_error_on_return"`
	GamePointsPlayed    int        `json:"game_points_played"`
	SetPointsPlayed     int        `json:"set_points_played"`
	GamePointsConverted int        `json:"game_points_converted"`
	Easiness            []string   `json:"won_point_easiness"`
	RiskLevels          []int      `json:"forcing_win_risk_levels"`
}

func buildPlayer(m *model.MatchData, contexts []timeline.RallyContext, p model.Player) playerEntry {
	stat := contexts[len(contexts)-1].StatBefore
	own := stat.Of(p)
	forMe := p == model.P1
	e := playerEntry{
		Name:              m.Name(p),
		PointsWon:         stat.PointsWon(p),
		FirstServeIn:      ratio(own.FirstServePct()),
		SecondServeIn:     ratio(own.SecondServePct()),
		FirstServePtsWon:  ratio(own.FirstServePointsWonPct()),
		SecondServePtsWon: ratio(own.SecondServePointsWonPct()),
		DoubleFaults:      own.NumDoubleFaults(),
		ForcingWins:       stat.ForcingWins(p),
		ForcingOnServe:    ratio(stat.ForcingWinPctOnServe(p)),
		ForcingOnReturn:   ratio(stat.ForcingWinPctOnReturn(p)),
		UnforcedErrors:    stat.UnforcedErrors(p),
		UnforcedOnServe:   ratio(stat.UnforcedErrorPctOnServe(p)),
		UnforcedOnReturn:  ratio(stat.UnforcedErrorPctOnReturn(p)),
		GamePointsPlayed:  own.NumGamePts,
		SetPointsPlayed:   own.NumSetPts,
	}
	for _, c := range contexts {
		if level := risk.Easiness(c, forMe); level != risk.LevelNone {
			e.Easiness = append(e.Easiness, string(level))
		}
		if w, ok := c.Winner(); ok && w == p && risk.IsForcingWin(c) {
			e.RiskLevels = append(e.RiskLevels, risk.RiskLevel(c))
		}
		if plot, ok := c.PlotForNextRally(); ok && plot.IsMyPlot == forMe {
			e.GamePointsConverted++
		}
	}
	return e
}

// buildMatchContext serialises a match into compact JSON for the model.
func buildMatchContext(m *model.MatchData, contexts []timeline.RallyContext) (string, error) {
	final := contexts[len(contexts)-1].ScoreBefore
	doc := map[string]any{
		"subject":        "match",
		"scoring_system": m.ScoringSystem,
		"rallies":        len(m.Rallies),
		"points_played":  contexts[len(contexts)-1].StatBefore.TotalPoints(),
		"score": map[string]any{
			"sets":   score.SetsStr(final),
			"games":  score.GamesStr(final),
			"points": score.PointsStr(final),
		},
		"me":       buildPlayer(m, contexts, model.P1),
		"opponent": buildPlayer(m, contexts, model.P2),
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API to stdout. With
// render set the answer is buffered and printed once as rendered markdown.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string, render bool) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	var answer strings.Builder
	var out io.Writer = os.Stdout
	if render {
		out = &answer
	}
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(out, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}

	if render {
		if err := renderMarkdown(os.Stdout, answer.String()); err != nil {
			return err
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")
	return nil
}

func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
