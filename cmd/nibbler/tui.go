package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"nibbler/cpu"
	"nibbler/mem"
)

// keyMap is the reference keyboard mapping from spec.md §6.
var keyMap = map[string]byte{
	"tab": 0, "1": 1, "2": 2, "3": 3, "4": 4,
	"a": 5, "s": 6, "d": 7, "f": 8,
	"z": 9, "x": 10, "c": 11, "v": 12, "/": 13,
}

const (
	uiTickPeriod    = 33 * time.Millisecond
	keyReleaseDelay = 200 * time.Millisecond
)

var (
	litPixel    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	litPixelRed = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimPixel    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type tickMsg time.Time
type keyReleaseMsg struct{}

// model is the bubbletea model driving the pixel-matrix display, keypad
// input, and single-step/run controls, generalizing the teacher's
// cpu/debugger.go model/update/view.
type model struct {
	vm      *cpu.VM
	quit    chan struct{}
	running bool
	red     bool
	fatal   error
}

// newModel starts the cycle engine immediately (unless paused) rather than
// deferring it to Init: Init is called on a copy of the model bubbletea
// discards, so state it sets (like a fresh quit channel) would never reach
// the model the program actually runs.
func newModel(vm *cpu.VM, paused, red bool) model {
	m := model{vm: vm, red: red}
	if !paused {
		m.quit = make(chan struct{})
		m.running = true
		go m.vm.Run(m.quit)
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(uiTickPeriod, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func releaseKeyAfter() tea.Cmd {
	return tea.Tick(keyReleaseDelay, func(t time.Time) tea.Msg { return keyReleaseMsg{} })
}

func (m *model) pause() {
	if m.running {
		close(m.quit)
		m.running = false
	}
}

func (m *model) resume() {
	if !m.running {
		m.quit = make(chan struct{})
		m.running = true
		go m.vm.Run(m.quit)
	}
}

func (m *model) stepOnce() tea.Cmd {
	m.vm.Lock()
	m.vm.Step()
	halted, err := m.vm.Halted, m.vm.Err
	m.vm.Unlock()
	if halted {
		m.fatal = err
		return tea.Quit
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.pause()
			return m, tea.Quit

		case " ":
			if m.running {
				m.pause()
				return m, nil
			}
			return m, m.stepOnce()

		case "enter":
			m.resume()
			return m, nil

		case "left":
			m.scrollPage(-1)
			return m, nil

		case "right":
			m.scrollPage(1)
			return m, nil

		default:
			if code, ok := keyMap[msg.String()]; ok {
				m.vm.Lock()
				m.vm.Mem.SetSFR(mem.SFRKeyReg, code)
				m.vm.Mem.SetSFR(mem.SFRKeyStatus, mem.KeyJustPress|mem.KeyLastPress|mem.KeyAnyPress)
				m.vm.Unlock()
				return m, releaseKeyAfter()
			}
		}

	case keyReleaseMsg:
		m.vm.Lock()
		cur := m.vm.Mem.SFR(mem.SFRKeyStatus)
		m.vm.Mem.SetSFR(mem.SFRKeyStatus, cur&^byte(mem.KeyLastPress|mem.KeyAnyPress))
		m.vm.Unlock()
		return m, nil

	case tickMsg:
		if m.vm.Snapshot().Halted {
			m.pause()
			m.fatal = m.vm.Snapshot().Err
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) scrollPage(delta int) {
	m.vm.Lock()
	cur := int(m.vm.Mem.SFR(mem.SFRPage))
	cur = (cur + delta + 16) % 16
	m.vm.Mem.SetSFR(mem.SFRPage, byte(cur))
	m.vm.Unlock()
}

func (m model) renderDisplay(snap cpu.Snapshot) string {
	lit := litPixel
	if m.red {
		lit = litPixelRed
	}
	var rows []string
	for page := 0; page < 2; page++ {
		var row strings.Builder
		for _, nibble := range snap.Display[page] {
			for bit := 3; bit >= 0; bit-- {
				if nibble&(1<<bit) != 0 {
					row.WriteString(lit.Render("#"))
				} else {
					row.WriteString(dimPixel.Render("."))
				}
			}
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}

func (m model) status(snap cpu.Snapshot) string {
	mode := "running"
	if !m.running {
		mode = "paused"
	}
	return fmt.Sprintf(
		"PC: %#03x  SP: %d  cycles: %d  [%s]\nC:%v Z:%v V:%v\nregs: %x",
		snap.PC, snap.SP, snap.Cycles, mode,
		snap.Flags.Carry, snap.Flags.Zero, snap.Flags.Overflow,
		snap.Registers,
	)
}

func (m model) View() string {
	snap := m.vm.Snapshot()
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderDisplay(snap),
		"  ",
		m.status(snap),
	)
	if m.fatal != nil {
		return body + "\n\nfatal: " + m.fatal.Error()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		"",
		spew.Sdump(snap),
	)
}
