package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatlist/chatlist/internal/llm"
	"github.com/chatlist/chatlist/internal/runner"
	"github.com/chatlist/chatlist/internal/store"
)

func testModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "chatlist.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	client := llm.NewClient(time.Second, nil)
	return New(s, runner.New(s, client, nil), nil), s
}

func TestModelReadyAfterResize(t *testing.T) {
	m, _ := testModel(t)

	if m.ready {
		t.Fatal("model should not be ready before the first resize")
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	if !m.ready {
		t.Error("model should be ready after a window size message")
	}
	if !strings.Contains(m.View(), "ChatList") {
		t.Error("view should render the header")
	}
}

func TestSidebarListsEndpoints(t *testing.T) {
	m, s := testModel(t)

	if _, err := s.CreateEndpoint(store.Endpoint{Name: "Mock GPT", APIURL: "http://x", APIID: "m", Active: true}); err != nil {
		t.Fatalf("create endpoint: %v", err)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	// Deliver the endpoints the Init command would have loaded
	endpoints, err := s.ListEndpoints(false)
	if err != nil {
		t.Fatalf("list endpoints: %v", err)
	}
	updated, _ = m.Update(endpointsMsg{endpoints: endpoints})
	m = updated.(Model)

	if !strings.Contains(m.View(), "Mock GPT") {
		t.Error("sidebar should list the endpoint")
	}
}

func TestRunResultsRendered(t *testing.T) {
	m, s := testModel(t)

	epID, err := s.CreateEndpoint(store.Endpoint{Name: "Mock GPT", APIURL: "http://x", APIID: "m", Active: true})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	m.prompt = "hello"

	run := &runner.Run{
		ID:       "run-1",
		PromptID: 1,
		Items: []runner.Item{
			{
				Endpoint: store.Endpoint{ID: epID, Name: "Mock GPT"},
				Outcome:  llm.Outcome{Success: true, Content: "a fine answer", TokensUsed: 12},
				ResultID: 1,
			},
			{
				Endpoint: store.Endpoint{ID: epID + 1, Name: "Broken"},
				Outcome:  llm.Outcome{Err: "HTTP 500: overloaded"},
			},
		},
	}
	updated, _ = m.Update(runDoneMsg{run: run})
	m = updated.(Model)

	view := m.renderCards()
	if !strings.Contains(view, "Mock GPT") || !strings.Contains(view, "a fine answer") {
		t.Error("successful card should show endpoint name and content")
	}
	if !strings.Contains(view, "HTTP 500") {
		t.Error("failed card should show the error message")
	}
}

func TestTabSwitchesFocus(t *testing.T) {
	m, _ := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	if m.focusCards {
		t.Fatal("input should start focused")
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if !m.focusCards {
		t.Error("tab should move focus to the cards pane")
	}
}
