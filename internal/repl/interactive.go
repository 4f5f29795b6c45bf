package repl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"spirit/internal/parser"
)

const continuationPrompt = ".. "

// StartInteractive runs a line-edited loop on the terminal. History is read from
// and written back to historyPath when it is set. Input that stops part way
// through an expression is continued on the next line.
func StartInteractive(ctx context.Context, session *Session, prompt, historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(historyPath)
			if err != nil {
				slog.Warn("could not save history", slog.Any("error", err))
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	for ctx.Err() == nil {
		src, ok := readExpression(ln, prompt)
		if !ok {
			io.WriteString(session.Out(), "\n")
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		session.Render(ctx, src)
	}
	return ctx.Err()
}

// readExpression keeps prompting while the collected text only fails to parse
// because it ends too early. It returns false at end of input.
func readExpression(ln *liner.State, prompt string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = continuationPrompt
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := parser.Parse(src); parser.IsIncomplete(perr) && strings.TrimSpace(src) != "" {
			continue
		}
		return src, true
	}
}
