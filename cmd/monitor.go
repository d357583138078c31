// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Emberworks

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/queue"
)

//////////////////////////////////////////////////////////////
// Command
//////////////////////////////////////////////////////////////

var monitorURL string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Terminal dashboard for a running relay",
	Long: `Poll a running relay's HTTP API and render module levels and the
cooking queue as a live terminal dashboard.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorURL, "relay", "http://localhost:8080", "Base URL of the relay to monitor")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(initialMonitorModel(strings.TrimRight(monitorURL, "/")))
	_, err := p.Run()
	return err
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type monitorTickMsg time.Time

type monitorDataMsg struct {
	modules []catalog.Module
	state   queue.State
	err     error
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

type monitorModel struct {
	baseURL string
	client  *http.Client

	modules []catalog.Module
	state   queue.State
	bars    map[string]progress.Model
	cookBar progress.Model

	fetchErr error
	width    int
	quitting bool
}

func initialMonitorModel(baseURL string) monitorModel {
	return monitorModel{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Second},
		bars:    make(map[string]progress.Model),
		cookBar: progress.New(progress.WithDefaultGradient()),
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), monitorTick())
}

func monitorTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

// fetch pulls both dashboard endpoints in one command.
func (m monitorModel) fetch() tea.Cmd {
	baseURL := m.baseURL
	client := m.client
	return func() tea.Msg {
		var msg monitorDataMsg

		var modulesResp struct {
			Modules []catalog.Module `json:"modules"`
		}
		if err := getJSON(client, baseURL+"/api/modules", &modulesResp); err != nil {
			msg.err = err
			return msg
		}
		msg.modules = modulesResp.Modules

		var stateResp struct {
			State queue.State `json:"state"`
		}
		if err := getJSON(client, baseURL+"/api/cooking/state", &stateResp); err != nil {
			msg.err = err
			return msg
		}
		msg.state = stateResp.State
		return msg
	}
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: HTTP %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

//////////////////////////////////////////////////////////////
// Update
//////////////////////////////////////////////////////////////

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case monitorTickMsg:
		return m, tea.Batch(m.fetch(), monitorTick())

	case monitorDataMsg:
		m.fetchErr = msg.err
		if msg.err == nil {
			m.modules = msg.modules
			m.state = msg.state
			for _, mod := range m.modules {
				if _, ok := m.bars[mod.ID]; !ok {
					m.bars[mod.ID] = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
				}
			}
		}
	}
	return m, nil
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m monitorModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Width(18)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("COCOTTE - COOKER DASHBOARD"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Relay: %s | Press 'q' to quit", m.baseURL)))
	s.WriteString("\n\n")

	if m.fetchErr != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("relay unreachable: %v", m.fetchErr)))
		s.WriteString("\n")
		return s.String()
	}

	var mods strings.Builder
	for _, mod := range m.modules {
		bar, ok := m.bars[mod.ID]
		if !ok {
			continue
		}
		ratio := 0.0
		if mod.MaxLevel > 0 {
			ratio = float64(mod.CurrentLevel) / float64(mod.MaxLevel)
		}
		line := fmt.Sprintf("%s %s %4d/%-4d %s",
			labelStyle.Render(mod.Name), bar.ViewAs(ratio), mod.CurrentLevel, mod.MaxLevel, mod.Unit)
		switch mod.Status {
		case catalog.StatusCritical:
			line += " " + errorStyle.Render("CRITICAL")
		case catalog.StatusWarning:
			line += " " + warningStyle.Render("warning")
		}
		mods.WriteString(line)
		mods.WriteString("\n")
	}
	s.WriteString(boxStyle.Render(strings.TrimRight(mods.String(), "\n")))
	s.WriteString("\n\n")

	var q strings.Builder
	q.WriteString(fmt.Sprintf("Queue: %s", m.state.Status))
	if m.state.Status == queue.StatusCooking && m.state.Index < len(m.state.Items) {
		item := m.state.Items[m.state.Index]
		q.WriteString(fmt.Sprintf(" — %s\n", item.Recipe.Name))
		q.WriteString(m.cookBar.ViewAs(float64(m.state.Progress) / 100))
		if steps := item.Recipe.Steps; len(steps) > 0 && m.state.CurrentStep < len(steps) {
			q.WriteString(fmt.Sprintf("\nStep %d/%d: %s", m.state.CurrentStep+1, len(steps), steps[m.state.CurrentStep]))
		}
	}
	for _, item := range m.state.Items {
		q.WriteString(fmt.Sprintf("\n  [%s] %s x%d", item.Status, item.Recipe.Name, item.Quantity))
		if item.Error != "" {
			q.WriteString(" " + errorStyle.Render(item.Error))
		}
	}
	s.WriteString(boxStyle.Render(q.String()))
	s.WriteString("\n")

	return s.String()
}
