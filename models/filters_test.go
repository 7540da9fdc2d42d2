package models

import (
	"testing"
	"time"
)

func TestMessageFilterMatch(t *testing.T) {
	msgs := []ContactMessage{
		{Status: MessageActive, IsRead: false},
		{Status: MessageActive, IsRead: true},
		{Status: MessageArchived, IsRead: false},
		{Status: MessageSpam, IsRead: true},
	}
	want := map[MessageFilter]int{
		MessagesAll: 4, MessagesActive: 2, MessagesUnread: 1, MessagesRead: 1, MessagesArchived: 1, MessagesSpam: 1,
	}
	for f, n := range want {
		got := 0
		for i := range msgs {
			if f.Match(&msgs[i]) {
				got++
			}
		}
		if got != n {
			t.Errorf("%s matched %d, want %d", f, got, n)
		}
	}
}

func TestParseFilters(t *testing.T) {
	if f, ok := ParseMessageFilter(""); !ok || f != MessagesAll {
		t.Errorf("empty message filter = %q, %v", f, ok)
	}
	if _, ok := ParseMessageFilter("deleted"); ok {
		t.Error("unknown message filter accepted")
	}
	if f, ok := ParseEventFilter("archived"); !ok || f != EventsArchived {
		t.Errorf("archived = %q, %v", f, ok)
	}
	if _, ok := ParseEventFilter("past"); ok {
		t.Error("unknown event filter accepted")
	}
}

func TestProjectPatchApply(t *testing.T) {
	p := Project{Slug: "old", Title: "Old", GoalAmount: 10, Status: ProjectActive}
	title, goal := "New", 250.0
	patch := ProjectPatch{Title: &title, GoalAmount: &goal}
	if patch.Empty() {
		t.Fatal("patch reported empty")
	}
	patch.Apply(&p)
	if p.Title != "New" || p.GoalAmount != 250 || p.Slug != "old" || p.Status != ProjectActive {
		t.Fatalf("after apply: %+v", p)
	}

	raw := "2026-01-01"
	if !(ProjectPatch{StartDateRaw: &raw}).Empty() {
		t.Fatal("unparsed date should not count as a change")
	}

	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	p.StartDate = &start
	unset := ProjectPatch{ClearStartDate: true}
	if unset.Empty() {
		t.Fatal("clearing a date reported empty")
	}
	unset.Apply(&p)
	if p.StartDate != nil {
		t.Fatalf("startDate = %v, want nil", p.StartDate)
	}
}

func TestStripeLinkComplete(t *testing.T) {
	if (StripeLink{ProductID: "p", PriceID: "pr"}).Complete() {
		t.Error("link without url reported complete")
	}
	if !(StripeLink{ProductID: "p", PriceID: "pr", PaymentLinkURL: "u"}).Complete() {
		t.Error("full link reported incomplete")
	}
}

func TestProjectFilterMatch(t *testing.T) {
	f := ProjectsWithStatus(ProjectActive, ProjectFunded)
	if !f.Match(&Project{Status: ProjectFunded}) || f.Match(&Project{Status: ProjectArchived}) {
		t.Error("status set filter mismatch")
	}
	if !(ProjectFilter{}).Match(&Project{Status: ProjectArchived}) {
		t.Error("empty filter should match everything")
	}
}
