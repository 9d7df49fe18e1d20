package thread

import (
	"testing"
	"time"

	"github.com/ZB56/VLM-humor/internal/corpus"
)

func ts(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestNormalizeSubject(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Re: Trade Proposal", "Trade Proposal"},
		{"FWD: Trade Proposal", "Trade Proposal"},
		{"fw:lineup", "lineup"},
		{"Re: Fwd: Pizza", "Fwd: Pizza"},
		{"Ref: not a reply", "Ref: not a reply"},
		{"Trade Proposal", "Trade Proposal"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSubject(tc.in); got != tc.want {
			t.Errorf("NormalizeSubject(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGroup_SubjectNormalizationPreservesCase(t *testing.T) {
	groups := Group([]corpus.Mail{
		{Subject: "Trade Proposal"},
		{Subject: "Re: Trade Proposal"},
		{Subject: "Fwd: trade proposal"},
	})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %v", len(groups), keys(groups))
	}
	if len(groups["Trade Proposal"]) != 2 {
		t.Errorf(`group "Trade Proposal" has %d messages, want 2`, len(groups["Trade Proposal"]))
	}
	if len(groups["trade proposal"]) != 1 {
		t.Errorf(`group "trade proposal" has %d messages, want 1`, len(groups["trade proposal"]))
	}
}

func TestGroup_ThreadIDBeatsSubject(t *testing.T) {
	groups := Group([]corpus.Mail{
		{Subject: "Different entirely", ThreadID: "T1"},
		{Subject: "Re: Something else", ThreadID: "T1"},
		{Subject: "Standalone"},
	})

	if len(groups["T1"]) != 2 {
		t.Errorf("T1 group has %d messages, want 2", len(groups["T1"]))
	}
	if len(groups["Standalone"]) != 1 {
		t.Errorf("subject fallback group missing: %v", keys(groups))
	}
}

func TestGroup_EmptySubjectUsesPlaceholder(t *testing.T) {
	groups := Group([]corpus.Mail{{Subject: ""}, {Subject: ""}})

	if len(groups) != 1 || len(groups[UnknownKey]) != 2 {
		t.Errorf("expected both messages under %q, got %v", UnknownKey, keys(groups))
	}
}

func TestGroup_DateOrderMissingFirst(t *testing.T) {
	groups := Group([]corpus.Mail{
		{Subject: "Draft day", Body: "late", Date: ts(2024, 2, 1)},
		{Subject: "Re: Draft day", Body: "undated"},
		{Subject: "Re: Draft day", Body: "early", Date: ts(2023, 9, 1)},
	})

	msgs := groups["Draft day"]
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Body != "undated" || msgs[1].Body != "early" || msgs[2].Body != "late" {
		t.Errorf("order = [%s %s %s], want [undated early late]", msgs[0].Body, msgs[1].Body, msgs[2].Body)
	}
}

func TestGroup_StableForEqualDates(t *testing.T) {
	d := ts(2024, 1, 1)
	groups := Group([]corpus.Mail{
		{Subject: "Keeper rules", Body: "first", Date: d},
		{Subject: "Keeper rules", Body: "second", Date: d},
	})

	msgs := groups["Keeper rules"]
	if msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Errorf("equal dates should keep input order, got [%s %s]", msgs[0].Body, msgs[1].Body)
	}
}

func keys(groups corpus.Threads) []string {
	out := make([]string, 0, len(groups))
	for k := range groups {
		out = append(out, k)
	}
	return out
}
