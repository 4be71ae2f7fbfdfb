package demo

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/aabbworld/pkg/aabb2d"
)

var (
	sidebarTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	sidebarBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	normalLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))
)

// SidebarMsg reports the current arena state to the sidebar model. Sent by
// whatever owns the render loop after each Step.
type SidebarMsg struct {
	PlayerID  int
	Box       aabb2d.Rect
	ItemCount int
	CellCount int
	LastTrail []aabb2d.Collision
}

// Sidebar is a small bubbletea model shown beside the ANSI canvas in the
// ssh demo, summarizing one player's view of the shared arena.
type Sidebar struct {
	width, height int
	state         SidebarMsg
	quitting      bool
}

// NewSidebar returns a Sidebar with no state yet (waiting for its first
// SidebarMsg).
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

func (s *Sidebar) Init() tea.Cmd {
	return nil
}

func (s *Sidebar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			s.quitting = true
			return s, tea.Quit
		}
	case SidebarMsg:
		s.state = msg
	}
	return s, nil
}

func (s *Sidebar) View() string {
	if s.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintln(&b, sidebarTitleStyle.Render("aabbworld arena"))
	fmt.Fprintf(&b, "player  %d\n", s.state.PlayerID)
	fmt.Fprintf(&b, "box     x=%.1f y=%.1f w=%.1f h=%.1f\n",
		s.state.Box.X, s.state.Box.Y, s.state.Box.W, s.state.Box.H)
	fmt.Fprintf(&b, "items   %d\n", s.state.ItemCount)
	fmt.Fprintf(&b, "cells   %d\n", s.state.CellCount)

	if len(s.state.LastTrail) == 0 {
		fmt.Fprintln(&b, normalLabelStyle.Render("no collision last step"))
	} else {
		fmt.Fprintf(&b, "trail   %d collision(s)\n", len(s.state.LastTrail))
		for i, c := range s.state.LastTrail {
			fmt.Fprintf(&b, "  #%d other=%d normal=(%.0f,%.0f) overlap=%v\n",
				i, c.Other, c.Normal.X, c.Normal.Y, c.Overlaps)
		}
	}

	return sidebarBorderStyle.Render(b.String())
}
