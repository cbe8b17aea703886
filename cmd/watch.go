package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mj1618/botlite/internal/output"
	"github.com/mj1618/botlite/internal/telegram"
	"github.com/spf13/cobra"
)

var watchKeep int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of incoming updates",
	Long: `Display a full-screen dashboard that long-polls the bot and shows the
most recent updates, the poll count and the next offset.

Press q or Ctrl+C to quit. A failed poll is shown on screen and polling
stops; restart the command to try again.`,
	Example: `  # Watch with defaults
  botlite watch

  # Keep the last 50 updates on screen
  botlite watch --keep 50`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		m := newWatchModel(ctx, client, appConfig.PollOptions(), watchKeep)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		_, err = p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	},
}

var (
	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// pollResultMsg carries the outcome of one getUpdates call.
type pollResultMsg struct {
	updates []telegram.Update
	err     error
}

type watchModel struct {
	ctx     context.Context
	client  *telegram.Client
	opts    telegram.GetUpdatesOptions
	keep    int
	updates []telegram.Update
	polls   int
	width   int
	height  int
	err     error
}

func newWatchModel(ctx context.Context, client *telegram.Client, opts telegram.GetUpdatesOptions, keep int) watchModel {
	if keep <= 0 {
		keep = 20
	}
	return watchModel{ctx: ctx, client: client, opts: opts, keep: keep}
}

func (m watchModel) Init() tea.Cmd {
	return m.pollCmd()
}

func (m watchModel) pollCmd() tea.Cmd {
	return func() tea.Msg {
		updates, err := m.client.GetUpdates(m.ctx, m.opts)
		return pollResultMsg{updates: updates, err: err}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c":
			m.updates = nil
		}

	case pollResultMsg:
		m.polls++
		if msg.err != nil {
			if m.ctx.Err() != nil {
				return m, tea.Quit
			}
			m.err = msg.err
			return m, nil
		}
		m.updates = append(m.updates, msg.updates...)
		if len(m.updates) > m.keep {
			m.updates = m.updates[len(m.updates)-m.keep:]
		}
		return m, m.pollCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("botlite watch   polls: %d   next offset: %s   timeout: %ds",
		m.polls,
		offsetStyle.Render(fmt.Sprintf("%d", m.client.NextOffset())),
		m.opts.Timeout,
	)
	b.WriteString(boxStyle.Render(headerStyle.Render(header)))
	b.WriteString("\n\n")

	if len(m.updates) == 0 {
		b.WriteString(dimStyle.Render("  Waiting for updates..."))
		b.WriteString("\n")
	}
	for _, u := range m.updates {
		line := "  " + output.UpdateLine(u)
		if m.width > 3 {
			line = ansi.Truncate(line, m.width, "...")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Polling stopped: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Keys: [c]lear  [q]uit"))
	return b.String()
}

func init() {
	watchCmd.Flags().IntVarP(&watchKeep, "keep", "k", 20, "Number of recent updates kept on screen")
}
