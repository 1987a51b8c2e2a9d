package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - paths
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	stylePath   = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printer writes styled status lines. Commands print to cmd.OutOrStdout()
// so tests can capture the output.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(icon lipgloss.Style, symbol, msg string) {
	fmt.Fprintln(p.w, icon.Render(symbol)+" "+msg)
}

// success prints a success message.
func (p printer) success(format string, args ...any) {
	p.line(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

// errorf prints an error message.
func (p printer) errorf(format string, args ...any) {
	p.line(styleIconError, iconError, fmt.Sprintf(format, args...))
}

// warning prints a warning message.
func (p printer) warning(format string, args ...any) {
	p.line(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// info prints an info/status message.
func (p printer) info(format string, args ...any) {
	p.line(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written file.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(iconArrow)+" "+stylePath.Render(path))
}

// keyValue prints a labeled value.
func (p printer) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(p.w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Result Display
// =============================================================================

// summary prints what a generate or render run produced.
func (p printer) summary(r *pipeline.Result) {
	p.success("Wrote %d pages for %s", r.Stats.Pages, r.Tenant.ID)
	p.file(r.OutputPath)
	if r.ImportPath != "" {
		p.file(r.ImportPath)
	}
	p.stats(r)

	if r.Stats.FailedPages > 0 {
		p.warning("%d page(s) could not be drawn and show an error notice", r.Stats.FailedPages)
		for _, o := range r.Report.Failed() {
			p.detail("%s page %d: %v", o.Kind, o.Ordinal, o.Err)
		}
	}
	if r.Report != nil {
		if notices := r.Report.Notices(); len(notices) > 0 {
			p.warning("%d page(s) show a fallback for a missing asset", len(notices))
			p.detail("%v", notices[0].Notice)
		}
	}
	if r.Stats.Unmatched > 0 {
		p.warning("%d record(s) have no user; import them from %s", r.Stats.Unmatched, onboarding.ImportFileName)
	}
	if r.Stats.Ambiguous > 0 {
		p.warning("%d record(s) matched several users; the first was used", r.Stats.Ambiguous)
	}
}

// stats prints run statistics on a single line.
func (p printer) stats(r *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d records", r.Stats.Records),
		fmt.Sprintf("%d pages", r.Stats.Pages),
	}
	if r.Stats.FetchTime > 0 {
		status, style := iconFresh, styleComputed
		if r.CacheInfo.SnapshotHit {
			status, style = iconCached, styleCached
		}
		parts = append(parts, style.Render(status))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(p.w, line)
}

// =============================================================================
// Tables
// =============================================================================

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle()
		})
}

// tenantTable renders tenants as a table.
func tenantTable(tenants []onboarding.Tenant) string {
	t := newTable().Headers("#", "Tenant", "Domain")
	for i, tn := range tenants {
		t.Row(strconv.Itoa(i+1), tn.ID, tn.Domain)
	}
	return t.Render()
}

// planTable renders the page plan with the record behind every page.
func planTable(plan layout.Plan, records []onboarding.Record) string {
	t := newTable().Headers("Page", "Kind", "Record", "Roles")
	for _, pg := range plan.Pages {
		name, roles := "", ""
		if pg.Record >= 0 && pg.Record < len(records) {
			name = records[pg.Record].Name
			roles = records[pg.Record].Roles
		}
		t.Row(strconv.Itoa(pg.Ordinal), pg.Kind.String(), name, roles)
	}
	return t.Render()
}
