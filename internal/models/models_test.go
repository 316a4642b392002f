package models

import (
	"strings"
	"testing"
)

func TestStatusLabel(t *testing.T) {
	tests := map[string]string{"A": "Active", "E": "Expired", "Z": "Z", "": ""}

	for code, want := range tests {
		if got := StatusLabel(code); got != want {
			t.Errorf("StatusLabel(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestEntityRecordDerivedContacts(t *testing.T) {
	tests := []struct {
		name   string
		emails []string
		phones []string
	}{
		{"none", nil, nil},
		{"one each", []string{"a@x.com"}, []string{"212-555-0198"}},
		{"several", []string{"a@x.com", "b@y.com", "c@z.com"}, []string{"2125550198", "703 555 0100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &EntityRecord{}
			e.SetContacts(tt.emails, tt.phones)

			all := e.AllEmails()
			if (all == "") != (e.EmailCount() == 0) {
				t.Errorf("AllEmails() = %q with count %d", all, e.EmailCount())
			}

			if all != "" && len(strings.Split(all, ListSeparator)) != e.EmailCount() {
				t.Errorf("AllEmails() = %q does not split into %d entries", all, e.EmailCount())
			}

			if got := len(e.Phones()); got != e.PhoneCount() {
				t.Errorf("Phones() len = %d, PhoneCount() = %d", got, e.PhoneCount())
			}

			wantFlag := FlagNo
			if len(tt.emails) > 0 {
				wantFlag = FlagYes
			}

			if e.HasEmail() != wantFlag {
				t.Errorf("HasEmail() = %q, want %q", e.HasEmail(), wantFlag)
			}
		})
	}
}

func TestSetContactsCopies(t *testing.T) {
	emails := []string{"a@x.com"}

	e := &EntityRecord{}
	e.SetContacts(emails, nil)
	emails[0] = "changed@x.com"

	if got := e.Emails()[0]; got != "a@x.com" {
		t.Errorf("Emails()[0] = %q, want a@x.com", got)
	}
}

func TestHarvestStateTerminal(t *testing.T) {
	for _, s := range []HarvestState{StateDone, StateQuotaExhausted, StateSearchFailed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	for _, s := range []HarvestState{StateFetchingPage, StateFetchingRoster} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
