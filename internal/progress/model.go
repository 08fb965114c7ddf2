// Copyright 2025 The Signum-Miner Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package progress implements an optional Bubble Tea program showing
// round-by-round read progress. It is purely observational: it polls the
// orchestrator's byte counter and the metrics sink, and never touches the
// hot read path.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleHeader = lipgloss.NewStyle().Bold(true)
)

// Source is the read-only view the progress UI polls. Both reader.Orchestrator
// and metrics.Sink satisfy the parts of this interface they each own; Model
// is handed closures rather than the concrete types so it stays decoupled
// from them.
type Source struct {
	BytesReadThisRound func() int64
	TotalBytes         func() uint64
	Health             func() string
	EWMARoundDuration  func() time.Duration
}

type tickMsg time.Time

// Model is the Bubble Tea model for the progress program.
type Model struct {
	source Source
	bar    progress.Model
	width  int
}

// New builds a Model polling source every tick.
func New(source Source) Model {
	return Model{
		source: source,
		bar:    progress.New(progress.WithDefaultGradient()),
		width:  60,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 10
		if m.bar.Width < 20 {
			m.bar.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		return m, tick()

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	total := m.source.TotalBytes()
	read := m.source.BytesReadThisRound()

	var fraction float64
	if total > 0 {
		fraction = float64(read) / float64(total)
	}
	if fraction > 1 {
		fraction = 1
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render("signum-miner") + "\n\n")
	b.WriteString(m.bar.ViewAs(fraction) + "\n\n")
	b.WriteString(fmt.Sprintf("%s / %s read this round\n", humanBytes(uint64(read)), humanBytes(total)))
	b.WriteString(fmt.Sprintf("health: %s   avg round: %s\n", m.source.Health(), m.source.EWMARoundDuration()))
	b.WriteString(styleDim.Render("q to quit"))

	return b.String()
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Run starts the progress program and blocks until the user quits.
func Run(source Source) error {
	p := tea.NewProgram(New(source))
	_, err := p.Run()
	return err
}
