// Command nibbler runs the badge microcontroller emulator: it loads a
// binary program image, then drives the fetch-decode-execute cycle behind a
// terminal UI showing the pixel matrix and accepting keypad input.
// Generalizes the teacher's cpu.Debug entry point to a standalone command.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"nibbler/cpu"
	"nibbler/program"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("nibbler", flag.ContinueOnError)
	pausedP := fs.Bool("p", false, "start paused (single-step ready)")
	pausedS := fs.Bool("s", false, "alias for -p")
	red := fs.Bool("r", false, "use red color for the pixel display")
	strict := fs.Bool("strict", false, "treat a bad program checksum as a fatal error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: nibbler [-p] [-r] [-strict] <program.bin>")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "nibbler: %v\n", err)
		return 1
	}

	img, warn, err := program.Load(data, *strict)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nibbler: %v\n", err)
		return 1
	}
	if warn != "" {
		fmt.Fprintf(os.Stderr, "nibbler: warning: %s\n", warn)
	}

	vm, err := cpu.NewVM(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nibbler: %v\n", err)
		return 1
	}

	m := newModel(vm, *pausedP || *pausedS, *red)
	p := tea.NewProgram(m)

	// OS signals don't arrive as bubbletea key messages; route them to the
	// same teardown path a "q" keypress takes, so the terminal is always
	// restored before the process exits.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		p.Quit()
	}()

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "nibbler: %v\n", err)
		return 1
	}

	// The terminal is already restored by the time Run returns, whether the
	// VM halted on a fatal error or the user quit normally, so it is safe to
	// print a diagnostic here without corrupting it with control codes.
	fm := finalModel.(model)
	if fm.fatal != nil {
		fmt.Fprintf(os.Stderr, "nibbler: %v\n", fm.fatal)
		return 1
	}
	return 0
}
