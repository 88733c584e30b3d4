// Package tui renders a dashboard board in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
	"github.com/Zachdehooge/painel-ambiental/internal/generator"
)

const (
	frameRate    = time.Second / 30
	defaultWidth = 100
	chartHeight  = 10
)

var periods = map[string]int{"1": 7, "2": 30, "3": 90, "4": 365}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06b6d4"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1).
			Width(22)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06b6d4"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model is the bubbletea model over one board.
type Model struct {
	board  *dashboard.Board
	width  int
	notice string
	err    error
}

func NewModel(board *dashboard.Board) Model {
	return Model{board: board, width: defaultWidth}
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1", "2", "3", "4":
			m.err = m.board.SetPeriod(periods[key])
		case "r":
			m.err = m.board.SetNDVIRegion(next(dataset.NDVIRegions, m.board.Snapshot().NDVIRegion))
		case "l":
			m.notice, m.err = m.board.SetMapLayer(next(dataset.Layers(), m.board.Snapshot().Map.Layer))
		}
	}
	return m, nil
}

// next returns the entry after cur, wrapping around.
func next(list []string, cur string) string {
	i := slices.Index(list, cur)
	return list[(i+1)%len(list)]
}

func (m Model) View() string {
	snap := m.board.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Painel Ambiental"))
	b.WriteString(labelStyle.Render("   Última atualização: " + snap.LastUpdated))
	b.WriteString("\n\n")

	b.WriteString(cards(snap, "load"))
	b.WriteString("\n")

	temp := snap.Charts[0]
	graph, err := generator.RenderASCII(temp, max(m.width-12, 20), chartHeight)
	if err != nil {
		graph = errorStyle.Render(err.Error())
	}
	b.WriteString(fmt.Sprintf("%s  (%d dias)\n", labelStyle.Render(temp.Title), snap.PeriodDays))
	b.WriteString(graph)
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("NDVI: %s   Camada: %s", snap.NDVIRegion, dataset.LayerName(snap.Map.Layer))))
	b.WriteString("\n")
	b.WriteString(cards(snap, "visible"))

	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	b.WriteString(helpStyle.Render("\n1-4: período (7/30/90/365)  r: região NDVI  l: camada  q: sair"))
	return b.String()
}

// cards lays out every element with the given trigger side by side.
func cards(snap dashboard.Snapshot, trigger string) string {
	var row []string
	for _, e := range snap.Elements {
		if e.Trigger != trigger {
			continue
		}
		row = append(row, cardStyle.Render(labelStyle.Render(e.Label)+"\n"+valueStyle.Render(e.Text)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

// Run starts board, treats every counter as on screen and shows the
// dashboard until the user quits or ctx ends.
func Run(ctx context.Context, board *dashboard.Board) error {
	if err := board.Start(ctx); err != nil {
		return fmt.Errorf("start board: %w", err)
	}
	defer board.Close()

	for _, e := range board.Snapshot().Elements {
		board.ReportVisibility(e.ID, 1)
	}
	for _, card := range dashboard.RevealCards {
		board.ReportVisibility(card, 1)
	}

	p := tea.NewProgram(NewModel(board), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
