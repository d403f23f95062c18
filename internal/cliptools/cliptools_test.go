package cliptools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/HendryAvila/clipvault/internal/clipboard"
	"github.com/HendryAvila/clipvault/internal/detector"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.New(history.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestDetector(t *testing.T, store *history.Store, cb clipboard.Clipboard) *detector.Detector {
	t.Helper()
	det, err := detector.New(detector.Options{
		Clipboard: cb,
		Store:     store,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	return det
}

// seed stores values oldest first, one minute apart, all from source.
func seed(t *testing.T, store *history.Store, source string, values ...string) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i, v := range values {
		rec := clip.BuildAt(v, source, base.Add(time.Duration(i)*time.Minute))
		if err := store.Upsert(rec); err != nil {
			t.Fatalf("Upsert(%q): %v", v, err)
		}
	}
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle returned Go error: %v", err)
	}
	if res == nil {
		t.Fatal("Handle returned nil result")
	}
	return res
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func TestParseDetailLevel(t *testing.T) {
	cases := map[string]string{
		"":         DetailStandard,
		"summary":  DetailSummary,
		"full":     DetailFull,
		"standard": DetailStandard,
		"bogus":    DetailStandard,
	}
	for in, want := range cases {
		if got := ParseDetailLevel(in); got != want {
			t.Errorf("ParseDetailLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNavigationHint(t *testing.T) {
	if got := NavigationHint(5, 5, ""); got != "" {
		t.Errorf("all shown: got %q", got)
	}
	if got := NavigationHint(0, 0, ""); got != "" {
		t.Errorf("empty: got %q", got)
	}
	if got := NavigationHint(2, 9, "More."); !strings.Contains(got, "Showing 2 of 9. More.") {
		t.Errorf("capped: got %q", got)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 20}, {-3, 20}, {5, 5}, {1000, 200},
	}
	for _, c := range cases {
		if got := clampLimit(c.n, 20, 200); got != c.want {
			t.Errorf("clampLimit(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

// ─── ListTool ────────────────────────────────────────────────────────────────

func TestListTool_Definition(t *testing.T) {
	def := NewListTool(newTestStore(t)).Definition()
	if def.Name != "clip_list" {
		t.Errorf("tool name = %q, want clip_list", def.Name)
	}
	for _, p := range []string{"limit", "detail_level"} {
		if _, ok := def.InputSchema.Properties[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
}

func TestListTool_Empty(t *testing.T) {
	tool := NewListTool(newTestStore(t))
	res := call(t, tool.Handle, nil)
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "empty") {
		t.Errorf("got %q", resultText(res))
	}
}

func TestListTool_NewestFirstWithHint(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "Editor", "first", "second", "third")
	tool := NewListTool(store)

	text := resultText(call(t, tool.Handle, map[string]interface{}{"limit": float64(2)}))

	if strings.Contains(text, "first") {
		t.Error("limit 2 should drop the oldest clip")
	}
	if strings.Index(text, "third") > strings.Index(text, "second") {
		t.Errorf("want newest first, got:\n%s", text)
	}
	if !strings.Contains(text, "Showing 2 of 3") {
		t.Errorf("want navigation hint, got:\n%s", text)
	}
	if !strings.Contains(text, clip.Identity("third")) {
		t.Error("identity should be listed")
	}
}

func TestListTool_DetailLevels(t *testing.T) {
	store := newTestStore(t)
	long := strings.Repeat("x", 300) + "TAIL"
	seed(t, store, "", long)
	tool := NewListTool(store)

	summary := resultText(call(t, tool.Handle, map[string]interface{}{"detail_level": "summary"}))
	if strings.Contains(summary, "xxx") {
		t.Error("summary should not include clip text")
	}
	if !strings.Contains(summary, "unknown") {
		t.Error("empty source should render as unknown")
	}
	if !strings.Contains(summary, "detail_level") {
		t.Error("summary should carry the footer")
	}

	standard := resultText(call(t, tool.Handle, nil))
	if strings.Contains(standard, "TAIL") {
		t.Error("standard should truncate long clips")
	}

	full := resultText(call(t, tool.Handle, map[string]interface{}{"detail_level": "full"}))
	if !strings.Contains(full, "TAIL") {
		t.Error("full should include the complete clip")
	}
}

// ─── SearchTool ──────────────────────────────────────────────────────────────

func TestSearchTool_CaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "Browser", "Hello World", "goodbye")
	tool := NewSearchTool(store)

	text := resultText(call(t, tool.Handle, map[string]interface{}{"query": "WORLD"}))
	if !strings.Contains(text, "Found 1 clips") || !strings.Contains(text, "Hello World") {
		t.Errorf("got:\n%s", text)
	}
}

func TestSearchTool_SourceFilter(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "Browser", "token-a")
	seed(t, store, "Terminal", "token-b")
	tool := NewSearchTool(store)

	text := resultText(call(t, tool.Handle, map[string]interface{}{
		"query":  "token",
		"source": "Terminal",
	}))
	if strings.Contains(text, "token-a") || !strings.Contains(text, "token-b") {
		t.Errorf("got:\n%s", text)
	}
}

func TestSearchTool_NoArgsListsRecent(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "", "one", "two")
	tool := NewSearchTool(store)

	text := resultText(call(t, tool.Handle, nil))
	if !strings.Contains(text, "Found 2 clips") {
		t.Errorf("got:\n%s", text)
	}
}

func TestSearchTool_NoMatch(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "", "alpha")
	tool := NewSearchTool(store)

	res := call(t, tool.Handle, map[string]interface{}{"query": "%"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "No clips found") {
		t.Errorf("'%%' must be literal, got:\n%s", resultText(res))
	}
}

func TestSearchTool_StoreFailure(t *testing.T) {
	store := newTestStore(t)
	tool := NewSearchTool(store)
	_ = store.Close()

	res := call(t, tool.Handle, map[string]interface{}{"query": "x"})
	if !res.IsError {
		t.Fatal("expected tool error on closed store")
	}
	if !strings.Contains(resultText(res), "search failed") {
		t.Errorf("got %q", resultText(res))
	}
}

// ─── SourcesTool ─────────────────────────────────────────────────────────────

func TestSourcesTool(t *testing.T) {
	store := newTestStore(t)
	tool := NewSourcesTool(store)

	if text := resultText(call(t, tool.Handle, nil)); !strings.Contains(text, "No source") {
		t.Errorf("empty: got %q", text)
	}

	seed(t, store, "Terminal", "a")
	seed(t, store, "Browser", "b")
	seed(t, store, "", "c")

	text := resultText(call(t, tool.Handle, nil))
	if !strings.Contains(text, "2 sources") {
		t.Errorf("got:\n%s", text)
	}
	if strings.Index(text, "Browser") > strings.Index(text, "Terminal") {
		t.Errorf("sources should be sorted, got:\n%s", text)
	}
}

// ─── SelectTool ──────────────────────────────────────────────────────────────

func TestSelectTool_ByValue(t *testing.T) {
	store := newTestStore(t)
	cb := clipboard.NewMemory("")
	det := newTestDetector(t, store, cb)
	tool := NewSelectTool(store, det)

	res := call(t, tool.Handle, map[string]interface{}{"value": "abc"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if got, _ := cb.ReadText(); got != "abc" {
		t.Errorf("clipboard = %q, want abc", got)
	}
	if _, err := store.Get(clip.Identity("abc")); err != nil {
		t.Errorf("selected clip not stored: %v", err)
	}

	// The detector must not capture the write a second time.
	if out := det.Poll(context.Background()); out != detector.Unchanged {
		t.Errorf("poll after select = %v, want unchanged", out)
	}
}

func TestSelectTool_ByIdentityMovesToTop(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "Editor", "old", "new")
	cb := clipboard.NewMemory("")
	tool := NewSelectTool(store, newTestDetector(t, store, cb))

	res := call(t, tool.Handle, map[string]interface{}{"identity": clip.Identity("old")})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if got, _ := cb.ReadText(); got != "old" {
		t.Errorf("clipboard = %q, want old", got)
	}

	recs, err := store.ListRecent(1)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if recs[0].Value != "old" {
		t.Errorf("top clip = %q, want old", recs[0].Value)
	}
}

func TestSelectTool_Validation(t *testing.T) {
	store := newTestStore(t)
	tool := NewSelectTool(store, newTestDetector(t, store, clipboard.NewMemory("")))

	cases := map[string]map[string]interface{}{
		"neither":          nil,
		"both":             {"value": "a", "identity": clip.Identity("a")},
		"blank value":      {"value": "   "},
		"unknown identity": {"identity": clip.Identity("never stored")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if res := call(t, tool.Handle, args); !res.IsError {
				t.Errorf("expected tool error, got %q", resultText(res))
			}
		})
	}
}

func TestSelectTool_ClipboardFailure(t *testing.T) {
	store := newTestStore(t)
	cb := clipboard.NewMemory("")
	cb.FailWrites(errors.New("no display"))
	tool := NewSelectTool(store, newTestDetector(t, store, cb))

	res := call(t, tool.Handle, map[string]interface{}{"value": "abc"})
	if !res.IsError || !strings.Contains(resultText(res), "no display") {
		t.Errorf("want clipboard error, got %q", resultText(res))
	}
}

// ─── DeleteTool ──────────────────────────────────────────────────────────────

func TestDeleteTool(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "", "secret")
	tool := NewDeleteTool(store)

	if def := tool.Definition(); len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "identity" {
		t.Errorf("identity should be required, got %v", def.InputSchema.Required)
	}

	id := clip.Identity("secret")
	res := call(t, tool.Handle, map[string]interface{}{"identity": id})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if _, err := store.Get(id); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}

	if res := call(t, tool.Handle, map[string]interface{}{"identity": id}); !res.IsError {
		t.Error("second delete should report not found")
	}
	if res := call(t, tool.Handle, nil); !res.IsError {
		t.Error("missing identity should be a tool error")
	}
}

// ─── StatsTool ───────────────────────────────────────────────────────────────

func TestStatsTool(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "Terminal", "a", "b")
	seed(t, store, "Browser", "c")
	cb := clipboard.NewMemory("")
	det := newTestDetector(t, store, cb)
	cb.Copy("fresh")
	det.Poll(context.Background())

	text := resultText(call(t, NewStatsTool(store, det).Handle, nil))
	for _, want := range []string{"**Clips**: 4", "Terminal: 2", "Browser: 1", "unknown: 1", "**Captures**: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestStatsTool_WithoutDetector(t *testing.T) {
	text := resultText(call(t, NewStatsTool(newTestStore(t), nil).Handle, nil))
	if strings.Contains(text, "Detector") {
		t.Errorf("no detector section expected, got:\n%s", text)
	}
	if !strings.Contains(text, "**Clips**: 0") {
		t.Errorf("got:\n%s", text)
	}
}
