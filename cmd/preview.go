package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codulingo/internal/curriculum"
	"github.com/abhisek/codulingo/internal/lessongen"
	"github.com/abhisek/codulingo/internal/llm"
	"github.com/abhisek/codulingo/internal/logger"
	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/session"
	"github.com/abhisek/codulingo/internal/tutor"
	"github.com/abhisek/codulingo/internal/ui/richtext"
)

var previewCmd = &cobra.Command{
	Use:   "preview <level-id>",
	Short: "Play a level line by line (no database)",
	Long: `Run a level through the lesson engine in plain text.

This is a stateless developer tool: no saved progress, no events. Levels
without built-in content are generated when an LLM is configured. Type ? at
a challenge for a hint.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)
	log, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	catalog, err := curriculum.Default()
	if err != nil {
		return fmt.Errorf("load curriculum: %w", err)
	}
	level, ok := catalog.Level(args[0])
	if !ok {
		return fmt.Errorf("unknown level %q (see codulingo levels)", args[0])
	}

	// No EventRepo: logging to the database is skipped.
	provider, err := llm.NewProviderFromEnv(ctx, nil, log)
	if err != nil {
		provider = nil
	}
	var hints *tutor.Service
	if provider != nil {
		hints = tutor.New(provider, tutor.WithLogger(log))
	}

	fmt.Printf("Preparing %q...\n\n", level.Title)
	level.Segments = lessongen.New(provider, catalog, lessongen.WithLogger(log)).LoadSegments(ctx, level.ID)

	tracker := progress.New(catalog)
	sess, err := session.Start(&level, tracker)
	if err != nil {
		return err
	}

	p := &linePlayer{
		sess: sess,
		in:   bufio.NewScanner(os.Stdin),
		out:  os.Stdout,
	}
	if hints != nil {
		p.hint = func(prompt, tried string) string {
			return hints.Hint(tutor.WithSessionID(ctx, sess.ID()), prompt, tried)
		}
	}
	if err := p.run(); err != nil {
		return err
	}

	out, _ := sess.Outcome()
	p.printOutcome(out)
	return nil
}

// errInputClosed ends a preview when stdin runs out.
var errInputClosed = errors.New("input closed")

// linePlayer drives a session from line-oriented input.
type linePlayer struct {
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
	hint func(prompt, tried string) string
}

func (p *linePlayer) run() error {
	for p.sess.Status() != session.StatusFinished {
		seg, _ := p.sess.Current()
		if !seg.IsChallenge() {
			p.showExplanation(seg)
			if _, err := p.readLine("[enter] "); err != nil {
				return err
			}
			if _, err := p.sess.Advance(); err != nil {
				return err
			}
			continue
		}
		if err := p.playChallenge(seg); err != nil {
			return err
		}
	}
	return nil
}

func (p *linePlayer) showExplanation(seg curriculum.Segment) {
	if seg.Title != "" {
		fmt.Fprintf(p.out, "── %s ──\n", seg.Title)
	}
	fmt.Fprintln(p.out, richtext.Plain(seg.Content))
	if seg.CodeSnippet != "" {
		fmt.Fprintln(p.out, indent(seg.CodeSnippet))
	}
}

func (p *linePlayer) playChallenge(seg curriculum.Segment) error {
	q := seg.Question
	fmt.Fprintf(p.out, "── Challenge %d/%d ──\n", p.sess.Queue().Position()+1, p.sess.Queue().Len())
	fmt.Fprintln(p.out, richtext.Plain(q.Prompt))
	snippet := q.CodeSnippet
	if snippet == "" {
		snippet = seg.CodeSnippet
	}
	if snippet != "" {
		fmt.Fprintln(p.out, indent(snippet))
	}

	for p.sess.Status().AcceptsInput() {
		p.showInput(q)
		line, err := p.readLine("> ")
		if err != nil {
			return err
		}
		if line == "?" {
			p.showHint(q)
			continue
		}
		if err := p.apply(q, line); err != nil {
			fmt.Fprintln(p.out, "  ", err)
			continue
		}
		if !p.sess.Ready() {
			continue
		}
		status, err := p.sess.Check()
		if err != nil {
			return err
		}
		switch status {
		case session.StatusTryAgain:
			fmt.Fprintln(p.out, "✗ Not quite. Give it one more try!")
		case session.StatusCorrect:
			fmt.Fprintln(p.out, "✓ Correct!")
		case session.StatusIncorrect:
			fmt.Fprintln(p.out, "✗ Incorrect. This one will come back at the end.")
		}
	}

	if q.Explanation != "" {
		fmt.Fprintln(p.out, richtext.Plain(q.Explanation))
	}
	fmt.Fprintln(p.out)
	_, err := p.sess.Advance()
	return err
}

func (p *linePlayer) showInput(q *curriculum.Question) {
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		for i, o := range p.sess.Options() {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
		}
	case curriculum.Rearrange:
		for i, tok := range p.sess.Arrangement().Tokens() {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, tok)
		}
		fmt.Fprintln(p.out, "  (enter the numbers in order, e.g. 2 1 3)")
	case curriculum.Matching:
		m := p.sess.Matching()
		left, right := m.Left(), m.Right()
		for i := range max(len(left), len(right)) {
			l, r := "", ""
			if i < len(left) {
				l = fmt.Sprintf("%d) %s", i+1, left[i].Text)
			}
			if i < len(right) {
				r = fmt.Sprintf("%c) %s", 'a'+i, right[i].Text)
			}
			fmt.Fprintf(p.out, "  %-30s %s\n", l, r)
		}
		fmt.Fprintf(p.out, "  (%d/%d matched; pair with e.g. 1a)\n", m.MatchedCount(), m.Total())
	}
}

// apply turns one line of input into session input.
func (p *linePlayer) apply(q *curriculum.Question, line string) error {
	switch q.Type {
	case curriculum.MultipleChoice, curriculum.FillBlank:
		opts := p.sess.Options()
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(opts) {
			return p.sess.Choose(opts[n-1])
		}
		return p.sess.Choose(line)

	case curriculum.Rearrange:
		fields := strings.Fields(line)
		idx := make([]int, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 1 || n > len(p.sess.Arrangement().Tokens()) {
				return fmt.Errorf("not a token number: %q", f)
			}
			idx = append(idx, n-1)
		}
		for p.sess.Arrangement().Len() > 0 {
			if err := p.sess.RemoveAt(p.sess.Arrangement().Len() - 1); err != nil {
				return err
			}
		}
		for _, i := range idx {
			if err := p.sess.Tap(i); err != nil {
				return err
			}
		}
		return nil

	case curriculum.Matching:
		return p.pair(line)
	}
	return fmt.Errorf("unsupported question type %q", q.Type)
}

func (p *linePlayer) pair(line string) error {
	line = strings.ToLower(strings.ReplaceAll(line, " ", ""))
	if len(line) < 2 {
		return fmt.Errorf("pair a number with a letter, e.g. 1a")
	}
	m := p.sess.Matching()
	left, right := m.Left(), m.Right()
	li, err := strconv.Atoi(line[:len(line)-1])
	ri := int(line[len(line)-1] - 'a')
	if err != nil || li < 1 || li > len(left) || ri < 0 || ri >= len(right) {
		return fmt.Errorf("no such pair %q", line)
	}

	if _, _, err := p.sess.SelectLeft(left[li-1].ID); err != nil {
		return err
	}
	res, tok, err := p.sess.SelectRight(right[ri].ID)
	if err != nil {
		return err
	}
	if res == session.MatchMismatch {
		p.sess.ClearMismatch(tok)
		fmt.Fprintln(p.out, "✗ Those don't match.")
	}
	return nil
}

func (p *linePlayer) showHint(q *curriculum.Question) {
	if p.hint == nil {
		fmt.Fprintln(p.out, "Byte_Bot: "+tutor.FallbackUnavailable)
		return
	}
	fmt.Fprintln(p.out, "Byte_Bot is thinking...")
	fmt.Fprintln(p.out, "Byte_Bot: "+p.hint(q.Prompt, p.sess.HintContext()))
}

func (p *linePlayer) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		fmt.Fprintln(p.out, "\n(input closed)")
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *linePlayer) printOutcome(out session.Outcome) {
	if !out.Completed {
		fmt.Fprintln(p.out, "── No lesson content available ──")
		return
	}
	fmt.Fprintf(p.out, "── Summary: %d%% (%d/%d first try) ──\n", out.Score, out.FirstTryCorrect, out.Challenges)
	fmt.Fprintf(p.out, "Stars: %s   Lives lost: %d\n",
		strings.Repeat("★", out.Stars())+strings.Repeat("☆", 3-out.Stars()), out.LivesLost)
	if out.Perfect {
		fmt.Fprintln(p.out, "Perfect lesson!")
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

