package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect generated lessons and tutor hints",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests with the level or question they served",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		subject, _ := cmd.Flags().GetString("subject")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(contextOf(cmd), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printLLMEvents(cmd.OutOrStdout(), e.catalog, filterLLMEvents(events, purpose, subject))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM request with the lesson or hint it produced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		brief, _ := cmd.Flags().GetBool("brief")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := contextOf(cmd)
		ev, err := e.store.EventRepo().GetLLMEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}

		w := cmd.OutOrStdout()
		printLLMEventHeader(w, e.catalog, ev)
		if err := printLLMEventOutcome(ctx, w, e.store, e.catalog, ev); err != nil {
			return err
		}
		if !brief {
			printLLMBodies(w, ev)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, estimated cost and generation cost per level",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := contextOf(cmd)
		repo := e.store.EventRepo()
		w := cmd.OutOrStdout()

		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(w, "No LLM usage recorded yet.")
			return nil
		}
		printUsageByPurpose(w, byPurpose)

		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printCostByModel(w, byModel)

		byLevel, err := repo.LLMUsageBySubject(ctx, llm.PurposeLessonGen)
		if err != nil {
			return fmt.Errorf("query generation usage: %w", err)
		}
		return printGenerationByLevel(ctx, w, byLevel, e.store.SegmentCache(), e.catalog)
	},
}

func filterLLMEvents(events []store.LLMRequestEventRecord, purpose, subject string) []store.LLMRequestEventRecord {
	if purpose == "" && subject == "" {
		return events
	}
	var out []store.LLMRequestEventRecord
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		if subject != "" && e.Subject != subject {
			continue
		}
		out = append(out, e)
	}
	return out
}

// subjectLabel names what a request was for: the level title for lesson
// generation, the question ID for hints.
func subjectLabel(catalog *curriculum.Catalog, purpose, subject string) string {
	if subject == "" {
		return "-"
	}
	if purpose == llm.PurposeLessonGen {
		if lvl, ok := catalog.Level(subject); ok {
			return lvl.Title
		}
	}
	return subject
}

func printLLMEvents(w io.Writer, catalog *curriculum.Catalog, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-10s  %-24s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "For", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-10s  %-24s  %-6d  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Purpose,
			truncate(subjectLabel(catalog, e.Purpose, e.Subject), 24),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func printLLMEventHeader(w io.Writer, catalog *curriculum.Catalog, e *store.LLMRequestEventRecord) {
	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Model:     %s (%s)\n", e.Model, e.Provider)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	if e.Subject != "" {
		fmt.Fprintf(w, "For:       %s\n", subjectLabel(catalog, e.Purpose, e.Subject))
	}
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	if !e.Success {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}
}

// printLLMEventOutcome shows what the request produced for the learner: the
// cached lesson of a level, or the hint shown for a question.
func printLLMEventOutcome(ctx context.Context, w io.Writer, st *store.Store, catalog *curriculum.Catalog, e *store.LLMRequestEventRecord) error {
	if e.Subject == "" {
		return nil
	}
	fmt.Fprintln(w)

	switch e.Purpose {
	case llm.PurposeLessonGen:
		fmt.Fprintf(w, "Level:     %s\n", e.Subject)
		if lvl, ok := catalog.Level(e.Subject); ok && lvl.Description != "" {
			fmt.Fprintf(w, "Topic:     %s\n", lvl.Description)
		}
		gen, err := st.SegmentCache().Load(ctx, e.Subject)
		if err != nil {
			return err
		}
		if gen == nil {
			fmt.Fprintln(w, "Lesson:    not cached")
			return nil
		}
		fmt.Fprintf(w, "Lesson:    %d segments by %s for a %d XP learner, saved %s\n",
			segmentCount(gen.Segments), gen.Model, gen.XP, gen.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	case llm.PurposeHint:
		// The tutor records its hint right after the request completes.
		hints, err := st.EventRepo().QueryHintEvents(ctx, store.QueryOpts{After: e.Sequence})
		if err != nil {
			return fmt.Errorf("query hint events: %w", err)
		}
		var hint *store.HintEventRecord
		for i := len(hints) - 1; i >= 0; i-- {
			if hints[i].QuestionID == e.Subject {
				hint = &hints[i]
				break
			}
		}
		fmt.Fprintf(w, "Question:  %s\n", e.Subject)
		if hint == nil {
			fmt.Fprintln(w, "Hint:      not recorded")
			return nil
		}
		fmt.Fprintf(w, "Prompt:    %s\n", hint.QuestionText)
		if hint.Context != "" {
			fmt.Fprintf(w, "Tried:     %s\n", hint.Context)
		}
		label := "Hint:     "
		if hint.Fallback {
			label = "Fallback: "
		}
		fmt.Fprintf(w, "%s %s\n", label, hint.HintText)
	}
	return nil
}

func printLLMBodies(w io.Writer, e *store.LLMRequestEventRecord) {
	sep := strings.Repeat("─", 60)
	for _, part := range []struct{ name, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.name)
		fmt.Fprintln(w, sep)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

func printUsageByPurpose(w io.Writer, stats []store.LLMUsage) {
	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var calls, in, out int
	for _, st := range stats {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

func printCostByModel(w io.Writer, usage []store.LLMUsage) {
	if len(usage) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var total float64
	var unknown []string
	for _, mu := range usage {
		c, ok := usageCost(mu)
		if !ok {
			unknown = append(unknown, mu.Model)
		}
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, costCell(c, ok))
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

// printGenerationByLevel breaks lesson generation down per level, with the
// size of the lesson now cached for it. A level generated by several models
// gets one row per model.
func printGenerationByLevel(ctx context.Context, w io.Writer, usage []store.LLMUsage, cache store.SegmentCache, catalog *curriculum.Catalog) error {
	if len(usage) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lesson Generation by Level")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-24s  %6s  %10s  %10s  %10s  %4s\n", "Level", "Calls", "Input", "Output", "Cost", "Segs")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, u := range usage {
		segs := "-"
		if u.Subject != "" {
			gen, err := cache.Load(ctx, u.Subject)
			if err != nil {
				return err
			}
			if gen != nil {
				segs = fmt.Sprint(segmentCount(gen.Segments))
			}
		}
		c, ok := usageCost(u)
		fmt.Fprintf(w, "%-24s  %6d  %10d  %10d  %10s  %4s\n",
			truncate(subjectLabel(catalog, llm.PurposeLessonGen, u.Subject), 24),
			u.Calls, u.InputTokens, u.OutputTokens, costCell(c, ok), segs)
	}
	return nil
}

func usageCost(u store.LLMUsage) (float64, bool) {
	cost := llm.LookupCost(u.Model)
	if cost == nil {
		return 0, false
	}
	return cost.Cost(u.InputTokens, u.OutputTokens), true
}

func costCell(usd float64, known bool) string {
	if !known {
		return "?"
	}
	return formatCost(usd)
}

// segmentCount counts the entries of a cached segment list.
func segmentCount(raw []byte) int {
	var segs []json.RawMessage
	if err := json.Unmarshal(raw, &segs); err != nil {
		return 0
	}
	return len(segs)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (lesson-gen or hint)")
	llmListCmd.Flags().StringP("subject", "s", "", "Filter by level or question ID")
	llmViewCmd.Flags().Bool("brief", false, "Leave out the request and response bodies")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
