package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/cory-johannsen/ironclad/internal/game/command"
)

// runConsole reads commands from in until quit, end of input, or ctx is cancelled,
// writing each result to out. prompt is written before every read. Cancellation is
// observed while waiting for input.
//
// Postcondition: Returns nil on quit or end of input, ctx.Err() on cancellation,
// or the first read/write error.
func runConsole(ctx context.Context, c *command.Console, in io.Reader, out io.Writer, prompt string) error {
	if _, err := fmt.Fprintln(out, "Type 'help' for a list of commands."); err != nil {
		return err
	}
	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(out, prompt); err != nil {
			return err
		}
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = l
		}
		text, quit := c.Execute(ctx, line)
		if text != "" {
			if _, err := fmt.Fprintln(out, text); err != nil {
				return err
			}
		}
		if quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine, one line per receive. The lines channel is
// closed at end of input, after which readErr yields the scanner's error (nil on EOF).
// The goroutine stops sending once ctx is cancelled; a Read already blocked on in
// returns only when in does.
func readLines(ctx context.Context, in io.Reader) (lines <-chan string, readErr <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()
	return out, errc
}

// runScript executes lines in order, stopping early on quit.
func runScript(ctx context.Context, c *command.Console, lines []string, out io.Writer) error {
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, quit := c.Execute(ctx, line)
		if text != "" {
			if _, err := fmt.Fprintln(out, text); err != nil {
				return err
			}
		}
		if quit {
			return nil
		}
	}
	return nil
}
