package onboarding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role tags as they appear in Record.Roles.
const (
	TagTopUp    = "top_up"
	TagSales    = "sales"
	TagEntrance = "entrance"
)

// Rights is the decoded rights JSON of a role. Several roles can be
// attached to one onboarding; [Rights.Merge] combines them.
type Rights struct {
	TopUp        flag `json:"top_up"`
	SalesManager flag `json:"sales_manager"`
	Entrance     flag `json:"entrance"`
	Card         flag `json:"card_transactions"`
	Cash         flag `json:"cash_transactions"`
	QR           flag `json:"qr_transactions"`
	RFID         flag `json:"rfid_transactions"`
}

// ParseRights decodes a rights document. Empty input yields no rights.
func ParseRights(data []byte) (Rights, error) {
	var r Rights
	if len(bytes.TrimSpace(data)) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return Rights{}, fmt.Errorf("decode rights: %w", err)
	}
	return r, nil
}

// Merge returns the union of both rights.
func (r Rights) Merge(o Rights) Rights {
	return Rights{
		TopUp:        r.TopUp || o.TopUp,
		SalesManager: r.SalesManager || o.SalesManager,
		Entrance:     r.Entrance || o.Entrance,
		Card:         r.Card || o.Card,
		Cash:         r.Cash || o.Cash,
		QR:           r.QR || o.QR,
		RFID:         r.RFID || o.RFID,
	}
}

// Roles renders the comma-joined role tags.
func (r Rights) Roles() string {
	var tags []string
	if r.TopUp {
		tags = append(tags, TagTopUp)
	}
	if r.SalesManager {
		tags = append(tags, TagSales)
	}
	if r.Entrance {
		tags = append(tags, TagEntrance)
	}
	return strings.Join(tags, ", ")
}

// PaymentMethods renders the accepted payment methods. Only sales and
// top-up roles take payments; other roles get an empty string.
func (r Rights) PaymentMethods() string {
	if !r.SalesManager && !r.TopUp {
		return ""
	}
	var methods []string
	if r.Card {
		methods = append(methods, "CARD")
	}
	if r.Cash {
		methods = append(methods, "CASH")
	}
	if r.QR {
		methods = append(methods, "QR")
	}
	if r.RFID {
		methods = append(methods, "RFID")
	}
	return strings.Join(methods, ", ")
}

// flag accepts true, 1 and "true" since rights documents were written by
// several generations of the platform.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(strings.Trim(string(b), `"`)) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}
