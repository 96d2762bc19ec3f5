package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// GameModel runs one registered mode: solo, local versus or versus CPU.
type GameModel struct {
	game       registry.Game
	versus     registry.VersusGame
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	input      core.MultiInputFrame
	keys       *KeyMapper
	help       help.Model
	gameState  core.GameState
	standalone bool
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model for game. A standalone model exits the
// program on Esc instead of returning to a menu.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, standalone bool) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:      store,
		config:     cfg,
		input:      core.NewMultiInputFrame(),
		keys:       NewKeyMapper(),
		help:       help.New(),
		standalone: standalone,
	}
	if v, ok := game.(registry.VersusGame); ok {
		m.versus = v
		m.keys = NewVersusKeyMapper(game.ID() == "versus_cpu")
	}
	m.help.Width = cfg.ScreenW
	return m
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Global.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Global.Back):
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			if m.standalone {
				return m, tea.Quit
			}
		}
		return m, nil
	}

	if m.keys.MapKey(msg, &m.input) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	var result core.StepResult
	if m.versus != nil {
		result = m.versus.StepMulti(m.input)
	} else {
		result = m.game.Step(m.input.Player(core.Player1))
	}
	m.gameState = result.State

	if !m.gameState.GameOver {
		m.scoreSaved = false
	} else if !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScore records player one's result. Local two-player rounds are not
// ranked.
func (m GameModel) saveScore() {
	if m.store == nil || m.gameState.Score == 0 || m.game.ID() == "versus" {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveScore(m.game.ID(), m.gameState.Score, m.gameState.Lines, m.gameState.Level)
}

// saveScreenshot writes the current screen as plain text.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tetris", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the game with a help line underneath.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)

	var keys help.KeyMap = m.keys.Global
	if k, ok := m.keys.Player(core.Player1); ok && m.versus == nil {
		keys = k
	}
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(keys))
}

// IsQuitting reports whether the user asked to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last reported game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Run plays game in the local terminal until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewGameModel(game, store, cfg, true),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
