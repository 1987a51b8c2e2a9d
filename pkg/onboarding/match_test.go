package onboarding

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type fakeFinder struct {
	users map[string][]User
	err   error
	calls []string
}

func (f *fakeFinder) FindUsers(_ context.Context, _ string, local string) ([]User, error) {
	f.calls = append(f.calls, local)
	if f.err != nil {
		return nil, f.err
	}
	return f.users[local], nil
}

func TestMatchUsers(t *testing.T) {
	finder := &fakeFinder{users: map[string][]User{
		"janpeeters": {{FirstName: "Jan", LastName: "Peeters", Email: "janpeeters@fest.be", QRCode: "RF-1"}},
		"bar1": {
			{Email: "bar1@fest.be", QRCode: "RF-2"},
			{Email: "bar1b@fest.be", QRCode: "RF-3"},
		},
	}}
	records := []Record{
		{Name: "Jan | Peeters"},
		{Name: "Bar 1"},
		{Name: "Els | Claes"},
		{Name: "Jan | Peeters"},
	}

	matches, rows, err := MatchUsers(context.Background(), finder, Tenant{ID: "fest", Domain: "fest.be"}, records, log.New(io.Discard))
	if err != nil {
		t.Fatalf("MatchUsers: %v", err)
	}

	if m := matches["Jan | Peeters"]; !m.Found() || m.Ambiguous() || m.User.QRCode != "RF-1" {
		t.Errorf("Jan match = %+v", m)
	}
	if m := matches["Bar 1"]; !m.Ambiguous() || m.User.Email != "bar1@fest.be" {
		t.Errorf("Bar 1 should take the first of several candidates, got %+v", m)
	}
	if m := matches["Els | Claes"]; m.Found() || m.Expected != "elsclaes@fest.be" {
		t.Errorf("Els match = %+v", m)
	}
	if len(rows) != 1 || rows[0] != (ImportRow{FirstName: "Els", LastName: "Claes", Email: "elsclaes@fest.be"}) {
		t.Errorf("import rows = %+v", rows)
	}
	if len(finder.calls) != 3 {
		t.Errorf("duplicate record names should be looked up once, got %d lookups", len(finder.calls))
	}
}

func TestMatchUsersLookupFailure(t *testing.T) {
	finder := &fakeFinder{err: errors.New("tenant database unavailable")}
	var buf bytes.Buffer

	matches, rows, err := MatchUsers(context.Background(), finder, Tenant{ID: "fest", Domain: "fest.be"}, []Record{{Name: "A | B"}}, log.New(&buf))
	if err != nil {
		t.Fatalf("lookup failures must not abort, got %v", err)
	}
	if matches["A | B"].Found() {
		t.Error("failed lookup should be unmatched")
	}
	if len(rows) != 1 {
		t.Errorf("failed lookup should produce an import row, got %d", len(rows))
	}
	if !strings.Contains(buf.String(), "user lookup failed") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}
}

func TestMatchUsersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := MatchUsers(ctx, &fakeFinder{}, Tenant{}, []Record{{Name: "x"}}, log.New(io.Discard))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWriteImportCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []ImportRow{
		{FirstName: "Els", LastName: "Claes", Email: "elsclaes@fest.be"},
		{FirstName: "Bar, main", Email: "barmain@fest.be"},
	}
	if err := WriteImportCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	want := "firstname,lastname,email\nEls,Claes,elsclaes@fest.be\n\"Bar, main\",,barmain@fest.be\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}
