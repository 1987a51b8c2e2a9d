package render

import (
	"strconv"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// Color is an RGB color as fpdf expects it.
type Color struct {
	R, G, B int
}

// Hex parses "#RRGGBB". Malformed input yields black.
func Hex(s string) Color {
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
		}
	}
	return Color{}
}

var (
	colorApplication = Hex("#1B4F72")
	colorGuest       = Hex("#6A1B9A")
	colorSupport     = Hex("#25D366")
	colorVideo       = Hex("#FF0000")
	colorVideoEdge   = Hex("#CC0000")
	colorRefund      = Hex("#CC6600")
	colorStatusOK    = Hex("#008000")
	colorStatusMiss  = Hex("#FF6600")
	colorStatusTopUp = Hex("#0066CC")
	colorRule        = Hex("#CCCCCC")
	colorMuted       = Hex("#666666")
	colorFaint       = Hex("#999999")
	colorFrame       = Hex("#DDDDDD")
	colorImageBG     = Hex("#F8F9FA")
	colorImageEdge   = Hex("#E9ECEF")
	colorErrorText   = Hex("#CC0000")
	colorErrorEdge   = Hex("#FF6B6B")
	colorErrorFill   = Hex("#FFE6E6")
	colorBlack       = Color{}
	colorWhite       = Color{R: 255, G: 255, B: 255}
)

// Theme is the variant-specific part of the page styling.
type Theme struct {
	Primary Color

	// Table describes the overview listing.
	Table TableLayout
}

// TableLayout is a fixed column layout for the overview listing.
type TableLayout struct {
	Width   float64
	Columns []Column
}

// Column is one overview column: a header key, its x offset from the
// table's left edge and the maximum cell length before truncation.
type Column struct {
	Header string
	Offset float64
	MaxLen int
}

// Column identifiers shared by both table layouts.
const (
	colName     = "col_name"
	colUser     = "col_user"
	colRoles    = "col_roles"
	colPayment  = "col_payment"
	colLocation = "col_location"
	colStatus   = "col_status"
)

var (
	applicationTable = TableLayout{
		Width: 450,
		Columns: []Column{
			{Header: colName, Offset: 0, MaxLen: 22},
			{Header: colRoles, Offset: 120, MaxLen: 18},
			{Header: colPayment, Offset: 220, MaxLen: 18},
			{Header: colLocation, Offset: 320, MaxLen: 15},
			{Header: colStatus, Offset: 400, MaxLen: 8},
		},
	}
	guestTable = TableLayout{
		Width: 520,
		Columns: []Column{
			{Header: colName, Offset: 0, MaxLen: 18},
			{Header: colUser, Offset: 100, MaxLen: 22},
			{Header: colRoles, Offset: 220, MaxLen: 14},
			{Header: colPayment, Offset: 300, MaxLen: 14},
			{Header: colLocation, Offset: 380, MaxLen: 15},
			{Header: colStatus, Offset: 470, MaxLen: 8},
		},
	}
)

// ThemeFor returns the styling of a document variant.
func ThemeFor(v onboarding.Variant) Theme {
	if v == onboarding.VariantGuest {
		return Theme{Primary: colorGuest, Table: guestTable}
	}
	return Theme{Primary: colorApplication, Table: applicationTable}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
