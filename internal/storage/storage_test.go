package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestModerationFlags(t *testing.T) {
	s := testStorage(t)

	if s.ChannelUnmoderated("g", "c") {
		t.Fatal("fresh channel reported unmoderated")
	}
	if err := s.SetChannelUnmoderated("g", "c", true); err != nil {
		t.Fatal(err)
	}
	if !s.ChannelUnmoderated("g", "c") {
		t.Fatal("flag not persisted")
	}
	if err := s.SetChannelUnmoderated("g", "c", false); err != nil {
		t.Fatal(err)
	}
	if s.ChannelUnmoderated("g", "c") {
		t.Fatal("flag not cleared")
	}

	if err := s.SetUserExempt("g", "u", true); err != nil {
		t.Fatal(err)
	}
	if !s.UserExempt("g", "u") {
		t.Fatal("exemption not persisted")
	}
	if s.UserExempt("g", "other") {
		t.Fatal("wrong user exempt")
	}
}

func TestPermits(t *testing.T) {
	s := testStorage(t)

	if err := s.GrantPermit("g", "r1", "censor"); err != nil {
		t.Fatal(err)
	}
	if err := s.GrantPermit("g", "r1", "censor"); err != nil {
		t.Fatal(err) // idempotent
	}
	if err := s.GrantPermit("g", "r1", "purge"); err != nil {
		t.Fatal(err)
	}
	if err := s.GrantPermit("g", "r2", "*"); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"censor", "purge"}, s.RolePermits("g", "r1")); diff != "" {
		t.Fatalf("r1 permits mismatch (-want +got):\n%s", diff)
	}
	if s.RolePermits("other-guild", "r1") != nil {
		t.Fatal("permits leaked across guilds")
	}

	if err := s.RevokePermit("g", "r1", "censor"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"purge"}, s.RolePermits("g", "r1")); diff != "" {
		t.Fatalf("after revoke (-want +got):\n%s", diff)
	}

	all, err := s.AllPermits("g")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]string{"r1": {"purge"}, "r2": {"*"}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Fatalf("AllPermits mismatch (-want +got):\n%s", diff)
	}
}

func TestWarnings(t *testing.T) {
	s := testStorage(t)
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	total, err := s.AddWarning("g", "u", Warning{Reason: "spam", ModeratorID: "m", IssuedAt: issued})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	total, err = s.AddWarning("g", "u", Warning{Reason: "again", ModeratorID: "m", IssuedAt: issued})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}

	warnings, err := s.Warnings("g", "u")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 2 || warnings[0].Reason != "spam" {
		t.Fatalf("warnings = %+v", warnings)
	}

	if err := s.ClearWarnings("g", "u"); err != nil {
		t.Fatal(err)
	}
	warnings, err = s.Warnings("g", "u")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings after clear = %+v", warnings)
	}
}

func TestCensorPatterns(t *testing.T) {
	s := testStorage(t)

	if err := s.AddCensorPattern("g", "  BadWord "); err != nil {
		t.Fatal(err)
	}
	if err := s.AddCensorPattern("g", "badword"); err != nil {
		t.Fatal(err) // duplicate after normalization
	}
	if err := s.AddCensorPattern("g", ""); err != nil {
		t.Fatal(err) // blank ignored
	}

	if diff := cmp.Diff([]string{"badword"}, s.CensorPatterns("g")); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	if err := s.RemoveCensorPattern("g", "BADWORD"); err != nil {
		t.Fatal(err)
	}
	if got := s.CensorPatterns("g"); len(got) != 0 {
		t.Fatalf("patterns after remove = %v", got)
	}
}

func TestTopScores(t *testing.T) {
	s := testStorage(t)

	for i := 0; i < 3; i++ {
		if err := s.IncrementScore("g", "busy"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.IncrementScore("g", "quiet"); err != nil {
		t.Fatal(err)
	}

	scores, err := s.TopScores("g", 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []Score{{UserID: "busy", Count: 3}, {UserID: "quiet", Count: 1}}
	if diff := cmp.Diff(want, scores); diff != "" {
		t.Fatalf("scores mismatch (-want +got):\n%s", diff)
	}

	scores, err = s.TopScores("g", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].UserID != "busy" {
		t.Fatalf("limited scores = %+v", scores)
	}
}

func TestDropChannelConfig(t *testing.T) {
	s := testStorage(t)

	if err := s.SetWelcome("g", "c1", "hello {user}"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAuditChannel("g", "c1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChannelUnmoderated("g", "c1", true); err != nil {
		t.Fatal(err)
	}

	if err := s.DropChannelConfig("g", "c1"); err != nil {
		t.Fatal(err)
	}

	if channelID, _ := s.Welcome("g"); channelID != "" {
		t.Errorf("welcome channel = %q after drop", channelID)
	}
	if got := s.AuditChannel("g"); got != "" {
		t.Errorf("audit channel = %q after drop", got)
	}
	if s.ChannelUnmoderated("g", "c1") {
		t.Error("unmoderated flag survived drop")
	}
}

func TestRecordSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.GrantPermit("g", "r", "censor"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if diff := cmp.Diff([]string{"censor"}, reopened.RolePermits("g", "r")); diff != "" {
		t.Fatalf("permits after reopen (-want +got):\n%s", diff)
	}
}
