package sqlstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayouts are tried in order for timestamps stored as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime parses s with the first matching layout. Values without a
// zone are read in loc; the result is always converted to loc.
func parseTime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			t = t.In(loc)
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised time %q", s)
}

// timeValue scans a nullable timestamp that drivers may hand over as
// time.Time or as text.
type timeValue struct {
	loc *time.Location
	t   *time.Time
}

func (v *timeValue) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		v.t = nil
	case time.Time:
		t := x.In(v.loc)
		v.t = &t
	case []byte:
		return v.parse(string(x))
	case string:
		return v.parse(x)
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
	return nil
}

func (v *timeValue) parse(s string) error {
	t, err := parseTime(s, v.loc)
	if err != nil {
		return err
	}
	v.t = t
	return nil
}

// rawJSON scans a JSON column regardless of whether the driver returns
// text or bytes.
type rawJSON []byte

func (j *rawJSON) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], x...)
	case string:
		*j = rawJSON(x)
	default:
		return fmt.Errorf("unsupported json value %T", src)
	}
	return nil
}

// tenantSettings is the subset of the tenants.data document used for the
// refund window.
type tenantSettings struct {
	EnableRefundScheduler json.RawMessage `json:"enable_refund_scheduler"`
	RefundStart           string          `json:"refund_start_datetime"`
	RefundEnd             string          `json:"refund_end_datetime"`
}

func (t tenantSettings) refundEnabled() bool {
	v := strings.ToLower(strings.Trim(string(t.EnableRefundScheduler), `" `))
	return v == "true" || v == "1"
}
