package dispatch

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"

	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

const (
	testGuild   = "100"
	testChannel = "200"
	testUser    = "300"
)

func testStore(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(t *testing.T) *discordgo.Session {
	t.Helper()
	state := discordgo.NewState()
	if err := state.GuildAdd(&discordgo.Guild{ID: testGuild}); err != nil {
		t.Fatalf("GuildAdd: %v", err)
	}
	if err := state.ChannelAdd(&discordgo.Channel{
		ID:      testChannel,
		GuildID: testGuild,
		Type:    discordgo.ChannelTypeGuildText,
	}); err != nil {
		t.Fatalf("ChannelAdd: %v", err)
	}
	state.User = &discordgo.User{ID: "bot-self"}
	return &discordgo.Session{State: state}
}

func testDispatcher(t *testing.T, features ...feature.Feature) (*Dispatcher, *storage.Storage) {
	t.Helper()
	reg, err := feature.NewRegistry(features...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	store := testStore(t)
	return NewDispatcher(reg, store), store
}

// memberFeature records member-add invocations and optionally misbehaves.
type memberFeature struct {
	name   string
	calls  int
	err    error
	panics bool
}

func (f *memberFeature) Name() string { return f.name }
func (f *memberFeature) MemberAdd(env *feature.Env, e *discordgo.GuildMemberAdd) error {
	f.calls++
	if f.panics {
		panic("boom")
	}
	return f.err
}

// msgFeature records pipeline invocations with a configurable verdict.
type msgFeature struct {
	name    string
	verdict feature.Verdict
	err     error
	panics  bool
	calls   int
	lastCtx *feature.MsgCtx
}

func (f *msgFeature) Name() string { return f.name }
func (f *msgFeature) HandleMessage(ctx *feature.MsgCtx) (feature.Verdict, error) {
	f.calls++
	f.lastCtx = ctx
	if f.panics {
		panic("boom")
	}
	return f.verdict, f.err
}

// botMsgFeature only handles bot-authored messages.
type botMsgFeature struct {
	name  string
	calls int
}

func (f *botMsgFeature) Name() string { return f.name }
func (f *botMsgFeature) HandleBotMessage(ctx *feature.MsgCtx) (feature.Verdict, error) {
	f.calls++
	return feature.Continue, nil
}

func memberAddEvent() *discordgo.GuildMemberAdd {
	return &discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: testGuild,
		User:    &discordgo.User{ID: testUser},
	}}
}

func messageEvent(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "400",
		GuildID:   testGuild,
		ChannelID: testChannel,
		Content:   content,
		Author:    &discordgo.User{ID: testUser},
	}}
}

func TestFanOutSurvivesFaultyFeatures(t *testing.T) {
	// One feature errors and one panics; the others still run.
	a := &memberFeature{name: "a", err: errors.New("a failed")}
	b := &memberFeature{name: "b", panics: true}
	c := &memberFeature{name: "c"}
	d, _ := testDispatcher(t, a, b, c)

	d.MemberAdd(testSession(t), memberAddEvent())

	got := []int{a.calls, b.calls, c.calls}
	if diff := cmp.Diff([]int{1, 1, 1}, got); diff != "" {
		t.Fatalf("call counts mismatch (-want +got):\n%s", diff)
	}
}

func TestFanOutNoDeduplication(t *testing.T) {
	// The core never dedups: the same event dispatched twice runs twice.
	f := &memberFeature{name: "f"}
	d, _ := testDispatcher(t, f)
	s := testSession(t)
	e := memberAddEvent()

	d.MemberAdd(s, e)
	d.MemberAdd(s, e)

	if f.calls != 2 {
		t.Fatalf("calls = %d, want 2", f.calls)
	}
}

func TestPipelineStopShortCircuits(t *testing.T) {
	first := &msgFeature{name: "first"}
	stopper := &msgFeature{name: "stopper", verdict: feature.Stop}
	skipped := &msgFeature{name: "skipped"}
	d, _ := testDispatcher(t, first, stopper, skipped)

	d.MessageCreate(testSession(t), messageEvent("bad word"))

	if first.calls != 1 || stopper.calls != 1 {
		t.Fatalf("features before stop: calls = %d/%d, want 1/1", first.calls, stopper.calls)
	}
	if skipped.calls != 0 {
		t.Fatalf("feature after stop: calls = %d, want 0", skipped.calls)
	}
}

func TestPipelineErrorDoesNotStop(t *testing.T) {
	failing := &msgFeature{name: "failing", err: errors.New("no"), verdict: feature.Stop}
	panicking := &msgFeature{name: "panicking", panics: true}
	last := &msgFeature{name: "last"}
	d, _ := testDispatcher(t, failing, panicking, last)

	d.MessageCreate(testSession(t), messageEvent("hello"))

	// An errored Stop counts as Continue; a panic too.
	if last.calls != 1 {
		t.Fatalf("last.calls = %d, want 1", last.calls)
	}
}

func TestPipelineContextFlags(t *testing.T) {
	f := &msgFeature{name: "f"}
	d, store := testDispatcher(t, f)
	if err := store.SetUserExempt(testGuild, testUser, true); err != nil {
		t.Fatalf("SetUserExempt: %v", err)
	}
	s := testSession(t)

	d.MessageCreate(s, messageEvent("hi"))
	ctx := f.lastCtx
	if ctx == nil {
		t.Fatal("handler not invoked")
	}
	if ctx.IsEdit || ctx.IsDelete {
		t.Errorf("create flagged as edit=%v delete=%v", ctx.IsEdit, ctx.IsDelete)
	}
	if !ctx.AuthorExempt {
		t.Error("AuthorExempt = false, want true")
	}
	if ctx.GuildID != testGuild || ctx.ChannelID != testChannel || ctx.UserID != testUser {
		t.Errorf("ids = %s/%s/%s", ctx.GuildID, ctx.ChannelID, ctx.UserID)
	}
	if ctx.Channel == nil || ctx.Channel.ID != testChannel {
		t.Error("channel handle missing")
	}

	d.MessageUpdate(s, &discordgo.MessageUpdate{Message: messageEvent("edited").Message})
	if !f.lastCtx.IsEdit {
		t.Error("edit not flagged")
	}

	d.MessageDelete(s, &discordgo.MessageDelete{
		Message:      &discordgo.Message{ID: "400", GuildID: testGuild, ChannelID: testChannel},
		BeforeDelete: messageEvent("original text").Message,
	})
	if !f.lastCtx.IsDelete {
		t.Error("delete not flagged")
	}
	if f.lastCtx.Content != "original text" {
		t.Errorf("delete content = %q, want original text", f.lastCtx.Content)
	}
}

func TestPipelineSkipsUnmoderatedChannel(t *testing.T) {
	f := &msgFeature{name: "f"}
	d, store := testDispatcher(t, f)
	if err := store.SetChannelUnmoderated(testGuild, testChannel, true); err != nil {
		t.Fatalf("SetChannelUnmoderated: %v", err)
	}

	d.MessageCreate(testSession(t), messageEvent("hi"))

	if f.calls != 0 {
		t.Fatalf("calls = %d, want 0 in unmoderated channel", f.calls)
	}
}

func TestPipelineBotAuthorsNeedOptIn(t *testing.T) {
	regular := &msgFeature{name: "regular"}
	botAware := &botMsgFeature{name: "bot-aware"}
	d, _ := testDispatcher(t, regular, botAware)

	m := messageEvent("from a bot")
	m.Author.Bot = true
	d.MessageCreate(testSession(t), m)

	if regular.calls != 0 {
		t.Fatalf("regular handler ran for bot message: calls = %d", regular.calls)
	}
	if botAware.calls != 1 {
		t.Fatalf("bot-aware handler calls = %d, want 1", botAware.calls)
	}
}

func TestPipelineIgnoresDirectMessages(t *testing.T) {
	f := &msgFeature{name: "f"}
	d, _ := testDispatcher(t, f)

	m := messageEvent("dm")
	m.GuildID = ""
	d.MessageCreate(testSession(t), m)

	if f.calls != 0 {
		t.Fatalf("calls = %d, want 0 for DMs", f.calls)
	}
}
