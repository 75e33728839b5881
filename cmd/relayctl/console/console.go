// Package console provides the interactive relay board console.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urmzd/relayctl/pkg/panel"
	"github.com/urmzd/relayctl/pkg/routine"
)

// History lists finished routine runs.
type History interface {
	Recent(ctx context.Context, limit int) ([]routine.Run, error)
}

// Console handles interactive mode for relayctl.
type Console struct {
	panel   *panel.Panel
	mirror  *TerminalMirror
	history History
	rl      *readline.Instance
	out     io.Writer
}

// NewReadline creates the line editor shared by the console, its mirror
// and the logger.
func NewReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "relay> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("set"),
			readline.PcItem("on"),
			readline.PcItem("off"),
			readline.PcItem("ch"),
			readline.PcItem("toggle"),
			readline.PcItem("apply"),
			readline.PcItem("read"),
			readline.PcItem("routines"),
			readline.PcItem("run"),
			readline.PcItem("cancel"),
			readline.PcItem("status"),
			readline.PcItem("history"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}

// New creates a console over an open panel. history may be nil.
func New(rl *readline.Instance, p *panel.Panel, mirror *TerminalMirror, history History) *Console {
	return &Console{panel: p, mirror: mirror, history: history, rl: rl, out: rl.Stdout()}
}

// Run starts the interactive command loop. It returns when the user quits
// or ctx is cancelled.
func (c *Console) Run(ctx context.Context) {
	defer c.rl.Close()

	c.printHelp()
	c.panel.Refresh()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			return
		}

		if !c.Execute(ctx, line) {
			fmt.Fprintln(c.out, "Exiting...")
			return
		}
	}
}

// Execute runs one command line. It returns false when the user asked to quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "set", "s":
		c.cmdSet(ctx, args)

	case "on":
		c.report(c.panel.AllOn(ctx))

	case "off":
		c.report(c.panel.AllOff(ctx))

	case "ch", "channel":
		c.cmdChannel(ctx, args)

	case "toggle", "t":
		c.cmdToggle(args)

	case "apply":
		c.report(c.panel.SetState(ctx, c.mirror.CheckedState()))

	case "read", "r":
		c.report(c.panel.ReadBoard(ctx))

	case "routines":
		c.cmdRoutines()

	case "run":
		c.cmdRun(args)

	case "cancel":
		c.cmdCancel(args)

	case "status":
		c.cmdStatus()

	case "history":
		c.cmdHistory(ctx, args)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Relay Board Commands:
  State:
    set <binary>       - Apply 32 characters of 0/1, channel 0 first
    on | off           - Switch every relay on or off
    ch <n> on|off      - Switch one channel (0-31)
    toggle <n>         - Flip a control without writing; use apply to send
    apply              - Write the controls to the board
    read               - Read the board's state

  Routines:
    routines           - List routines
    run <name>         - Start a routine
    cancel [run-id]    - Cancel the running routine
    history [n]        - Show finished runs

  Other:
    status             - Show panel status
    help               - Show this help
    quit               - Exit`)
}

// report prints errors; successful writes already show through the mirror.
func (c *Console) report(_ any, err error) {
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) cmdSet(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: set <32-bit binary>")
		return
	}
	c.panel.SetInput(args[0])
	c.report(c.panel.ApplyInput(ctx))
}

func (c *Console) cmdChannel(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: ch <n> on|off")
		return
	}
	ch, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid channel: %s\n", args[0])
		return
	}

	var on bool
	switch strings.ToLower(args[1]) {
	case "on", "1", "true":
		on = true
	case "off", "0", "false":
	default:
		fmt.Fprintf(c.out, "Invalid state: %s (use on or off)\n", args[1])
		return
	}

	c.report(c.panel.SetChannel(ctx, ch, on))
}

func (c *Console) cmdToggle(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: toggle <n>")
		return
	}
	ch, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid channel: %s\n", args[0])
		return
	}
	if err := c.mirror.Toggle(ch); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.panel.Refresh()
}

func (c *Console) cmdRoutines() {
	sched := c.panel.Scheduler()
	for _, d := range sched.Definitions() {
		fmt.Fprintf(c.out, "  %-12s %3d units x %s  %s\n", d.Name, d.Units(), sched.Unit(), d.Description)
	}
}

func (c *Console) cmdRun(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: run <name>")
		return
	}
	run, err := c.panel.StartRoutine(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Started %s (run %s)\n", run.Routine, run.ID)
}

func (c *Console) cmdCancel(args []string) {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	run, err := c.panel.CancelRoutine(id)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Cancelling %s (run %s)\n", run.Routine, run.ID)
}

func (c *Console) cmdStatus() {
	v := c.panel.View()
	fmt.Fprintf(c.out, "State:   %s (%s)\n", v.Snapshot.Binary, v.Snapshot.Hex)
	fmt.Fprintf(c.out, "Status:  %s\n", v.Status)
	fmt.Fprintf(c.out, "Input:   %s\n", v.Input)
	if v.Command != "" {
		fmt.Fprintf(c.out, "Command: %s\n", v.Command)
	}
	if v.Routine != nil {
		fmt.Fprintf(c.out, "Routine: %s (run %s, %d steps)\n", v.Routine.Routine, v.Routine.ID, v.Routine.Steps)
	} else {
		fmt.Fprintln(c.out, "Routine: idle")
	}
	board := "disconnected"
	if c.panel.Board().IsConnected() {
		board = "connected"
	}
	fmt.Fprintf(c.out, "Board:   %s\n", board)
}

func (c *Console) cmdHistory(ctx context.Context, args []string) {
	if c.history == nil {
		fmt.Fprintln(c.out, "History is not available")
		return
	}
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(c.out, "Invalid count: %s\n", args[0])
			return
		}
		limit = n
	}

	runs, err := c.history.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "No runs yet")
		return
	}
	for _, r := range runs {
		line := fmt.Sprintf("  %s  %-10s %-9s %3d steps  %s", r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Routine, r.Status, r.Steps, r.ID)
		if r.Error != "" {
			line += "  " + r.Error
		}
		fmt.Fprintln(c.out, line)
	}
}

// FormatReadback renders a one-shot result the way the serial script prints it.
func FormatReadback(binary string, closed bool) string {
	return fmt.Sprintf("%s\nPort closed: %t\n", binary, closed)
}
