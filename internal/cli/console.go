package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"fxconvert/internal/config"
	"fxconvert/internal/service"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// Console writes the non-interactive parts of the user interface.
type Console struct {
	out io.Writer
	tty bool
	ui  config.UIConfig
}

// NewConsole creates a Console writing to out. Screen clearing and the progress
// animation are only rendered when out is a terminal.
func NewConsole(out io.Writer, ui config.UIConfig) *Console {
	return &Console{out: out, tty: isTerminal(out), ui: ui}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Out returns the underlying writer.
func (c *Console) Out() io.Writer { return c.out }

// Println writes a plain line.
func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

// ClearScreen clears the terminal once at startup.
func (c *Console) ClearScreen() {
	if !c.tty || !c.ui.ClearScreen {
		return
	}
	_, _ = fmt.Fprint(c.out, "\033[H\033[2J")
}

// Progress draws a short progress bar, stopping early if ctx ends.
func (c *Console) Progress(ctx context.Context, message string) {
	if !c.tty || c.ui.ProgressSteps <= 0 {
		return
	}
	_, _ = fmt.Fprintf(c.out, "%s [", message)
	delay := time.Duration(c.ui.ProgressDurationMs) * time.Millisecond / time.Duration(c.ui.ProgressSteps)
	for i := 0; i < c.ui.ProgressSteps; i++ {
		if !sleep(ctx, delay) {
			break
		}
		_, _ = fmt.Fprint(c.out, "█")
	}
	_, _ = fmt.Fprintln(c.out, "]")
}

// Pause waits for the configured status pause. It returns false if ctx ended.
func (c *Console) Pause(ctx context.Context) bool {
	return sleep(ctx, time.Duration(c.ui.StatusPauseMs)*time.Millisecond)
}

// Status prints the freshness decision message.
func (c *Console) Status(d service.Decision) {
	switch d.Outcome {
	case service.OutcomeUpdated, service.OutcomeCachedCurrent:
		c.OK(d.Status)
	case service.OutcomeCachedOutdated:
		c.Warn(d.Status)
	default:
		c.Error(d.Status)
	}
}

// OK prints a success line.
func (c *Console) OK(msg string) {
	_, _ = okColor.Fprintln(c.out, "✓ "+msg)
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	_, _ = warnColor.Fprintln(c.out, "⚠️ "+msg)
}

// Error prints an error line.
func (c *Console) Error(msg string) {
	_, _ = errColor.Fprintln(c.out, "❌ "+msg)
}

// MissingCurrencies warns that some commonly used currencies cannot be converted.
func (c *Console) MissingCurrencies(codes []string) {
	if len(codes) == 0 {
		return
	}
	c.Println()
	c.Warn("Warning: The following currencies are missing or have invalid values: " + strings.Join(codes, ", "))
	c.Println("Some conversions may not work correctly.")
}

// Welcome prints the greeting shown before the currency menu.
func (c *Console) Welcome() {
	c.Println()
	c.Println("Welcome to the currency converter!")
	c.Println("This application uses internet to update the database, but it's not required " +
		"as we'll use previously downloaded data if needed. To convert currency, select source currency:")
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
