package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/registry"
	"github.com/wippyai/graph-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	extStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewState int

const (
	stateExtensions viewState = iota
	stateTypes
)

type inspectModel struct {
	err      error
	cmd      *cobra.Command
	flags    *loadFlags
	rt       *runtime.Runtime
	exts     []registry.Extension
	types    map[graphruntime.TID][]registry.TypeRecord
	filter   textinput.Model
	selected int
	typeSel  int
	state    viewState
	loaded   bool
}

type inspectLoadedMsg struct {
	err   error
	rt    *runtime.Runtime
	exts  []registry.Extension
	types map[graphruntime.TID][]registry.TypeRecord
}

func newInspectModel(cmd *cobra.Command, flags *loadFlags) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "filter types"
	ti.Prompt = "/ "
	ti.Width = 40
	return &inspectModel{
		cmd:    cmd,
		flags:  flags,
		filter: ti,
		state:  stateExtensions,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadExtensions
}

func (m *inspectModel) loadExtensions() tea.Msg {
	rt, err := openRuntime(m.cmd, m.flags)
	if err != nil {
		return inspectLoadedMsg{err: err}
	}

	exts := sortedExtensions(rt)
	types := make(map[graphruntime.TID][]registry.TypeRecord)
	for _, rec := range rt.Types() {
		types[rec.Extension] = append(types[rec.Extension], rec)
	}
	for _, recs := range types {
		sort.Slice(recs, func(i, j int) bool { return recs[i].TypeName < recs[j].TypeName })
	}

	return inspectLoadedMsg{rt: rt, exts: exts, types: types}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "q":
			// In the types view "q" belongs to the filter input.
			if m.state == stateExtensions {
				return m, m.quit()
			}

		case "up":
			switch m.state {
			case stateExtensions:
				if m.selected > 0 {
					m.selected--
				}
			case stateTypes:
				if m.typeSel > 0 {
					m.typeSel--
				}
			}
			return m, nil

		case "down":
			switch m.state {
			case stateExtensions:
				if m.selected < len(m.exts)-1 {
					m.selected++
				}
			case stateTypes:
				if m.typeSel < len(m.filteredTypes())-1 {
					m.typeSel++
				}
			}
			return m, nil

		case "enter":
			if m.state == stateExtensions && len(m.exts) > 0 {
				m.state = stateTypes
				m.typeSel = 0
				m.filter.SetValue("")
				m.filter.Focus()
			}
			return m, nil

		case "esc":
			if m.state == stateTypes {
				m.state = stateExtensions
				m.filter.Blur()
			}
			return m, nil
		}

	case inspectLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.exts = msg.exts
		m.types = msg.types
		m.loaded = true
		return m, nil
	}

	if m.state == stateTypes {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if n := len(m.filteredTypes()); m.typeSel >= n && n > 0 {
			m.typeSel = n - 1
		} else if n == 0 {
			m.typeSel = 0
		}
		return m, cmd
	}

	return m, nil
}

func (m *inspectModel) quit() tea.Cmd {
	if m.rt != nil {
		m.rt.Close(m.cmd.Context())
	}
	return tea.Quit
}

func (m *inspectModel) filteredTypes() []registry.TypeRecord {
	if len(m.exts) == 0 {
		return nil
	}
	all := m.types[m.exts[m.selected].ID]
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		return all
	}
	var out []registry.TypeRecord
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.TypeName), needle) ||
			strings.Contains(strings.ToLower(rec.BaseTypeName), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func (m *inspectModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading extensions..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Graph Runtime Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateExtensions:
		if len(m.exts) == 0 {
			b.WriteString("No extensions loaded.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			return b.String()
		}
		b.WriteString("Extensions:\n\n")
		for i, ext := range m.exts {
			line := m.formatExtension(ext)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter types • q quit"))

	case stateTypes:
		ext := m.exts[m.selected]
		b.WriteString(fmt.Sprintf("Types of %s %s\n\n", extStyle.Render(ext.Name), ext.Version))
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		filtered := m.filteredTypes()
		if len(filtered) == 0 {
			b.WriteString(helpStyle.Render("no matching types"))
			b.WriteString("\n")
		}
		for i, rec := range filtered {
			line := m.formatType(rec)
			if i == m.typeSel {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • esc back • ctrl+c quit"))
	}

	return b.String()
}

func (m *inspectModel) formatExtension(ext registry.Extension) string {
	return fmt.Sprintf("%s %s %s (%d types)",
		extStyle.Render(ext.Name), ext.Version,
		stateStyle.Render(ext.State.String()), len(ext.Types))
}

func (m *inspectModel) formatType(rec registry.TypeRecord) string {
	line := typeStyle.Render(rec.TypeName)
	if rec.BaseTypeName != "" {
		line += " : " + rec.BaseTypeName
	}
	return line + "  " + helpStyle.Render(rec.TID.String())
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Interactively browse loaded extensions and their types",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Console logging would tear the alternate screen.
		if !cmd.Flags().Changed("quiet") {
			if err := cmd.Flags().Set("quiet", "true"); err != nil {
				return err
			}
		}
		p := tea.NewProgram(newInspectModel(cmd, &inspectOpts), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

var inspectOpts loadFlags

func init() {
	registerLoadFlags(inspectCmd, &inspectOpts)
}
