package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// TenantPickerModel - Interactive tenant selection
// =============================================================================

// TenantPickerModel is the bubbletea model for choosing a tenant after
// the slug did not match one exactly. Typing narrows the list.
type TenantPickerModel struct {
	Query    string
	Tenants  []onboarding.Tenant
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *onboarding.Tenant
}

// NewTenantPickerModel creates a picker over the partial matches of query.
func NewTenantPickerModel(query string, tenants []onboarding.Tenant) TenantPickerModel {
	return TenantPickerModel{
		Query:   query,
		Tenants: tenants,
		Height:  10,
	}
}

// visible returns the tenants matching the typed filter.
func (m TenantPickerModel) visible() []onboarding.Tenant {
	if m.Filter == "" {
		return m.Tenants
	}
	f := strings.ToLower(m.Filter)
	var out []onboarding.Tenant
	for _, t := range m.Tenants {
		if strings.Contains(strings.ToLower(t.ID), f) || strings.Contains(strings.ToLower(t.Domain), f) {
			out = append(out, t)
		}
	}
	return out
}

func (m TenantPickerModel) Init() tea.Cmd {
	return nil
}

func (m TenantPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		items := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(items) == 0 {
				return m, nil
			}
			t := items[m.Cursor]
			m.Selected = &t
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m TenantPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("No tenant %q, pick a match", m.Query)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleValue.Render("filter: " + m.Filter))
	}
	b.WriteString("\n")

	items := m.visible()
	if len(items) == 0 {
		b.WriteString(StyleWarning.Render("  no tenant matches the filter"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(items))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, items[i].ID, items[i].Domain})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Tenant", "Domain").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(items))))
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// pickTenant runs the picker on the terminal. Quitting without a choice
// is reported as TENANT_NOT_FOUND.
func pickTenant(ctx context.Context, query string, tenants []onboarding.Tenant, in io.Reader, out io.Writer) (onboarding.Tenant, error) {
	p := tea.NewProgram(
		NewTenantPickerModel(query, tenants),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return onboarding.Tenant{}, ctx.Err()
		}
		return onboarding.Tenant{}, errs.Wrap(errs.ErrCodeInternal, err, "tenant picker")
	}
	m, ok := final.(TenantPickerModel)
	if !ok || m.Selected == nil {
		return onboarding.Tenant{}, errs.New(errs.ErrCodeTenantNotFound, "no tenant selected for %q", query)
	}
	return *m.Selected, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
