package repl

import (
	"bufio"
	"context"
	"io"
)

const PROMPT = ">> "

// Start reads lines from in until end of input, rendering each through session.
// The prompt is written to out before every read.
func Start(ctx context.Context, in io.Reader, out io.Writer, session *Session, prompt string) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if ctx.Err() != nil {
			return
		}
		io.WriteString(out, prompt)
		scanned := scanner.Scan()
		if !scanned {
			return
		}
		session.Render(ctx, scanner.Text())
	}
}
