package store

import (
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chatlist.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPromptCRUD(t *testing.T) {
	s := testStore(t)

	id, err := s.CreatePrompt("what is a monad", "")
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	p, err := s.GetPrompt(id)
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if p == nil {
		t.Fatal("expected prompt, got nil")
	}
	if p.Text != "what is a monad" {
		t.Errorf("wrong text: %q", p.Text)
	}
	if p.Author != "user" {
		t.Errorf("expected default author user, got %q", p.Author)
	}

	deleted, err := s.DeletePrompt(id)
	if err != nil || !deleted {
		t.Fatalf("delete prompt: deleted=%v err=%v", deleted, err)
	}

	p, err = s.GetPrompt(id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if p != nil {
		t.Error("expected nil after delete")
	}
}

func TestListPromptsSearch(t *testing.T) {
	s := testStore(t)

	for _, text := range []string{"explain goroutines", "explain channels", "write a haiku"} {
		if _, err := s.CreatePrompt(text, "tester"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := s.ListPrompts(PromptFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 prompts, got %d", len(all))
	}

	matched, err := s.ListPrompts(PromptFilter{Search: "explain"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matched))
	}

	limited, err := s.ListPrompts(PromptFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 prompt with limit, got %d", len(limited))
	}
}

func TestEndpointCRUD(t *testing.T) {
	s := testStore(t)

	id, err := s.CreateEndpoint(Endpoint{
		Name:   "Mock GPT",
		APIURL: "http://localhost:9999/v1/chat/completions",
		APIID:  "mock-gpt",
		Active: true,
	})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}

	e, err := s.GetEndpoint(id)
	if err != nil || e == nil {
		t.Fatalf("get endpoint: e=%v err=%v", e, err)
	}
	if e.Name != "Mock GPT" || !e.Active {
		t.Errorf("unexpected endpoint: %+v", e)
	}

	d := e.Descriptor()
	if d.ID == "" || d.URL != e.APIURL || d.ModelID != e.APIID {
		t.Errorf("bad descriptor conversion: %+v", d)
	}

	e.Active = false
	e.Name = "Mock GPT v2"
	updated, err := s.UpdateEndpoint(*e)
	if err != nil || !updated {
		t.Fatalf("update: updated=%v err=%v", updated, err)
	}

	active, err := s.ListEndpoints(true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active endpoints, got %d", len(active))
	}

	all, err := s.ListEndpoints(false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Mock GPT v2" {
		t.Errorf("unexpected list: %+v", all)
	}

	deleted, err := s.DeleteEndpoint(id)
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
}

func TestResultsAndFavorites(t *testing.T) {
	s := testStore(t)

	promptID, err := s.CreatePrompt("compare yourselves", "user")
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	epA, err := s.CreateEndpoint(Endpoint{Name: "A", APIURL: "http://a", APIID: "a", Active: true})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}
	epB, err := s.CreateEndpoint(Endpoint{Name: "B", APIURL: "http://b", APIID: "b", Active: true})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}

	const runID = "run-123"
	idA, err := s.SaveResult(Result{PromptID: promptID, EndpointID: epA, RunID: runID, Response: "answer A", TokensUsed: 10})
	if err != nil {
		t.Fatalf("save result: %v", err)
	}
	idB, err := s.SaveResult(Result{PromptID: promptID, EndpointID: epB, RunID: runID, Response: "answer B", TokensUsed: 20})
	if err != nil {
		t.Fatalf("save result: %v", err)
	}

	byPrompt, err := s.ResultsForPrompt(promptID)
	if err != nil {
		t.Fatalf("results for prompt: %v", err)
	}
	if len(byPrompt) != 2 {
		t.Fatalf("expected 2 results, got %d", len(byPrompt))
	}
	if byPrompt[0].EndpointName == "" || byPrompt[0].PromptText == "" {
		t.Error("expected joined display fields to be populated")
	}

	byRun, err := s.ResultsForRun(runID)
	if err != nil {
		t.Fatalf("results for run: %v", err)
	}
	if len(byRun) != 2 {
		t.Errorf("expected 2 results for run, got %d", len(byRun))
	}

	if _, err := s.SetFavorite(idA, true); err != nil {
		t.Fatalf("set favorite: %v", err)
	}

	favs, err := s.Favorites()
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != idA {
		t.Errorf("expected result %d favorited, got %+v", idA, favs)
	}

	n, err := s.SetFavorites([]int64{idA, idB}, true)
	if err != nil {
		t.Fatalf("set favorites: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows updated, got %d", n)
	}

	n, err = s.SetFavorites(nil, true)
	if err != nil || n != 0 {
		t.Errorf("empty batch should be a no-op, got n=%d err=%v", n, err)
	}

	// Cascade: deleting the prompt removes its results
	if _, err := s.DeletePrompt(promptID); err != nil {
		t.Fatalf("delete prompt: %v", err)
	}
	favs, err = s.Favorites()
	if err != nil {
		t.Fatalf("favorites after cascade: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("expected cascade delete of results, got %d favorites", len(favs))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := testStore(t)

	settings, err := s.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("expected defaults, got %+v", settings)
	}

	settings.Theme = "light"
	settings.RequestTimeout = 60
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	loaded, err := s.Settings()
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if loaded != settings {
		t.Errorf("round trip mismatch: %+v != %+v", loaded, settings)
	}

	// Corrupt timeout falls back to the default
	if err := s.SetSetting("request_timeout", "not-a-number"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	loaded, err = s.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if loaded.RequestTimeout != DefaultSettings().RequestTimeout {
		t.Errorf("expected fallback timeout, got %d", loaded.RequestTimeout)
	}
}

func TestSeedIdempotent(t *testing.T) {
	s := testStore(t)

	if err := s.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := s.ListEndpoints(false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected seeded endpoints")
	}

	if err := s.Seed(); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, err := s.ListEndpoints(false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("seed not idempotent: %d then %d endpoints", len(first), len(second))
	}
}
