package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/store"
)

func newSnapshotsBrowseCmd() *cobra.Command {
	var opts storeOpts
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No snapshots stored")
				return nil
			}

			model, err := tea.NewProgram(newSnapshotList(infos), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			final := model.(snapshotList)
			if final.selected == "" {
				return nil
			}
			snap, err := st.Get(cmd.Context(), final.selected)
			if err != nil {
				return err
			}
			printSnapshot(snap)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// snapshotList is the bubbletea model for interactive snapshot selection.
type snapshotList struct {
	infos    []store.Info
	cursor   int
	selected string
}

func newSnapshotList(infos []store.Info) snapshotList {
	return snapshotList{infos: infos}
}

func (m snapshotList) Init() tea.Cmd {
	return nil
}

func (m snapshotList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.infos)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.infos[m.cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m snapshotList) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Snapshot"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.infos))
	for i, info := range m.infos {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, info.Name, info.ID, info.CreatedAt.Format("2006-01-02 15:04")}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}
