// Package shell is the interactive query prompt of touchctl.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/jmacd/touchctl/touchosc"
)

// Shell reads commands from the terminal.
type Shell struct {
	rl *readline.Instance
}

func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "touchctl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl}, nil
}

// Stderr returns a writer that coordinates with the prompt.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run reads commands until EOF or the context is canceled. Every
// client call is made while holding mu.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc, c *touchosc.Client, mu *sync.Mutex) {
	var once sync.Once
	closeRL := func() { once.Do(func() { _ = s.rl.Close() }) }
	defer closeRL()

	// Unblock Readline when the context ends.
	stop := context.AfterFunc(ctx, closeRL)
	defer stop()

	out := s.rl.Stdout()
	printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		mu.Lock()
		quit := execute(out, c, strings.ToLower(parts[0]), parts[1:])
		mu.Unlock()
		if quit {
			cancel()
			return
		}
	}
}

// execute runs one command and reports whether the shell should exit.
func execute(out io.Writer, c *touchosc.Client, cmd string, args []string) bool {
	switch cmd {
	case "help", "?":
		printHelp(out)

	case "list", "ls":
		for _, addr := range c.Addresses() {
			k, _ := c.Kind(addr)
			fmt.Fprintf(out, "  %-24s %-7s %v\n", addr, k, c.Value(addr))
		}

	case "get", "g":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: get <address>")
			return false
		}
		v, err := value(c, args[0])
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		fmt.Fprintf(out, "%s = %v\n", args[0], v)

	case "reset":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: reset <address>|all")
			return false
		}
		if args[0] == "all" {
			c.ResetAll()
			return false
		}
		if err := c.Reset(args[0]); err != nil {
			fmt.Fprintln(out, err)
		}

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(out, "unknown command %q, type help\n", cmd)
	}
	return false
}

// value looks up addr without letting an unknown address panic the
// shell.
func value(c *touchosc.Client, addr string) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*touchosc.AddressError); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return c.Value(addr), nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  list                  show every control and its value
  get <address>         show one control, or an array element as base/N
  reset <address>|all   restore registered defaults
  quit                  exit`)
}
