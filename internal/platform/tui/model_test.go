package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	_ "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var testConfig = core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60, Seed: 3}

func TestMenuListsModes(t *testing.T) {
	local := NewMenuModel(testConfig, false)
	online := NewMenuModel(testConfig, true)

	if len(online.items) != len(local.items)+1 {
		t.Fatalf("online menu has %d items, local %d", len(online.items), len(local.items))
	}
	last := online.items[len(online.items)-1]
	if last.Mode != multiplayer.MatchModeOnline {
		t.Errorf("last item mode = %s, expected online", last.Mode)
	}
	for _, it := range local.items {
		if it.GameID == "versus_cpu" && it.Mode != multiplayer.MatchModeVsCPU {
			t.Errorf("versus_cpu mode = %s", it.Mode)
		}
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(testConfig, false)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := next.(MenuModel)
	if mm.Selected() == nil || cmd == nil {
		t.Fatal("Enter should select an item and end the menu")
	}
	if mm.Selected().GameID != m.items[1].GameID {
		t.Errorf("Selected() = %s, expected %s", mm.Selected().GameID, m.items[1].GameID)
	}
}

func TestGameModelSavesScoreOnGameOver(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game, err := registry.Create("marathon")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	m := NewGameModel(game, store, testConfig, true)
	m.Init()

	// Hard drops stack pieces in the middle until the game tops out.
	var model tea.Model = m
	for i := 0; i < 200 && !model.(GameModel).State().GameOver; i++ {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		model, _ = model.Update(TickMsg{})
	}
	gm := model.(GameModel)
	if !gm.State().GameOver {
		t.Fatal("stacking hard drops should top out")
	}

	// Further ticks must not save again.
	model, _ = model.Update(TickMsg{})
	model.Update(TickMsg{})

	scores, err := store.AllScores("marathon")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != gm.State().Score {
		t.Errorf("stored scores = %+v, expected one entry of %d", scores, gm.State().Score)
	}

	if !strings.Contains(gm.View(), "GAME OVER") {
		t.Error("view should show the game over overlay")
	}

	next, cmd := gm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(GameModel).BackToMenu() || cmd == nil {
		t.Error("Esc after game over should leave a standalone game")
	}
}

func TestSessionModelOpensScoreboard(t *testing.T) {
	s := NewSessionModel(nil, testConfig, multiplayer.NewChannelSession("s1", "alice", 4), nil)
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	sm := next.(SessionModel)
	if sm.screen != screenScores {
		t.Fatalf("screen = %d, expected the scoreboard", sm.screen)
	}
	if !strings.Contains(sm.View(), "HIGH SCORES") {
		t.Error("scoreboard view should have a title")
	}

	next, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(SessionModel).screen != screenMenu {
		t.Error("Esc should return to the menu")
	}
}
