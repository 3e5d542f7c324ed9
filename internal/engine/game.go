package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultStartingCoins is the coin balance of a fresh game.
const DefaultStartingCoins = 50

type CompleteResult struct {
	TaskID       string
	CoinsAwarded int
	Balance      int
	XPAwarded    int
	LevelBefore  int
	LevelAfter   int
	LevelUp      bool
	Revived      bool
}

type FailResult struct {
	TaskID        string
	CoinsLost     int
	Balance       int
	CharacterDied bool
}

// GameState is the coin ledger, the character roster and the archive of
// finished tasks. Like TaskStore it relies on the Service's lock.
type GameState struct {
	coins          int
	roster         []*Character
	owned          []*Character
	active         *Character
	completedToday bool
	history        HistoryLog
	log            *zap.Logger
}

// NewGameState starts a game with the given balance. The first owned
// character of the roster becomes active.
func NewGameState(startingCoins int, roster []*Character, history HistoryLog, log *zap.Logger) *GameState {
	if log == nil {
		log = zap.NewNop()
	}
	g := &GameState{
		coins:   startingCoins,
		roster:  roster,
		history: history,
		log:     log,
	}
	for _, c := range roster {
		if c.IsFree {
			c.IsOwned = true
		}
		if c.IsOwned {
			g.owned = append(g.owned, c)
			if g.active == nil {
				g.active = c
			}
		}
	}
	return g
}

// CompleteTask marks a pending task COMPLETED and pays out its reward. The
// archive write happens first; if it fails nothing else changes.
func (g *GameState) CompleteTask(ctx context.Context, t *Task, now time.Time) (*CompleteResult, error) {
	if t.Status != TaskStatusPending {
		return nil, fmt.Errorf("task %s: %w", t.ID, ErrTaskNotPending)
	}

	snapshot := t.Clone()
	snapshot.Status = TaskStatusCompleted
	snapshot.CompletedAt = &now
	if err := g.history.Append(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("archive task %s: %w", t.ID, err)
	}

	completedAt := now
	t.Status = TaskStatusCompleted
	t.CompletedAt = &completedAt
	g.coins += t.CoinReward
	g.completedToday = true

	res := &CompleteResult{
		TaskID:       t.ID,
		CoinsAwarded: t.CoinReward,
	}
	if c := g.active; c != nil {
		res.LevelBefore = c.Level
		if c.IsAlive() {
			c.GainExperience(t.CoinReward)
			res.XPAwarded = t.CoinReward
		} else {
			c.Revive()
			res.Revived = true
			g.log.Info("character revived", zap.String("character", c.Slug), zap.String("task_id", t.ID))
		}
		res.LevelAfter = c.Level
		res.LevelUp = res.LevelAfter > res.LevelBefore
	}
	res.Balance = g.coins

	g.log.Info("task completed",
		zap.String("task_id", t.ID),
		zap.Int("reward", t.CoinReward),
		zap.Int("balance", g.coins),
	)
	return res, nil
}

// FailTask marks a pending task FAILED and charges its penalty. A negative
// balance kills the active character unless something was completed today.
func (g *GameState) FailTask(ctx context.Context, t *Task) (*FailResult, error) {
	if t.Status != TaskStatusPending {
		return nil, fmt.Errorf("task %s: %w", t.ID, ErrTaskNotPending)
	}

	snapshot := t.Clone()
	snapshot.Status = TaskStatusFailed
	if err := g.history.Append(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("archive task %s: %w", t.ID, err)
	}

	t.Status = TaskStatusFailed
	g.coins -= t.CoinPenalty

	res := &FailResult{TaskID: t.ID, CoinsLost: t.CoinPenalty}
	if g.coins < 0 && !g.completedToday && g.active != nil {
		if g.active.IsAlive() {
			res.CharacterDied = true
			g.log.Warn("character died", zap.String("character", g.active.Slug), zap.Int("balance", g.coins))
		}
		g.active.Kill()
	}
	res.Balance = g.coins

	g.log.Info("task failed",
		zap.String("task_id", t.ID),
		zap.Int("penalty", t.CoinPenalty),
		zap.Int("balance", g.coins),
	)
	return res, nil
}

func (g *GameState) BuyCharacter(c *Character) error {
	if c.IsOwned {
		return fmt.Errorf("%s: %w", c.Slug, ErrCharacterOwned)
	}
	if g.coins < c.Price {
		return InsufficientCoinsError{Price: c.Price, Balance: g.coins}
	}
	g.coins -= c.Price
	c.IsOwned = true
	g.owned = append(g.owned, c)
	g.log.Info("character bought", zap.String("character", c.Slug), zap.Int("balance", g.coins))
	return nil
}

func (g *GameState) SetActiveCharacter(c *Character) error {
	if !c.IsOwned {
		return fmt.Errorf("%s: %w", c.Slug, ErrCharacterNotOwned)
	}
	g.active = c
	return nil
}

// ResetDailyProgress clears the completed-today flag. The caller decides when a day ends.
func (g *GameState) ResetDailyProgress() {
	g.completedToday = false
}

func (g *GameState) Coins() int { return g.coins }

func (g *GameState) CompletedToday() bool { return g.completedToday }

func (g *GameState) History() HistoryLog { return g.history }

// Character finds a roster entry by id or, case-insensitively, by slug.
func (g *GameState) Character(ref string) (*Character, bool) {
	ref = strings.TrimSpace(ref)
	for _, c := range g.roster {
		if c.ID == ref || strings.EqualFold(c.Slug, ref) {
			return c, true
		}
	}
	return nil, false
}

func (g *GameState) Characters() []Character {
	return copyCharacters(g.roster)
}

// Owned returns owned characters in purchase order.
func (g *GameState) Owned() []Character {
	return copyCharacters(g.owned)
}

func (g *GameState) Active() (Character, bool) {
	if g.active == nil {
		return Character{}, false
	}
	return *g.active, true
}

func copyCharacters(in []*Character) []Character {
	out := make([]Character, 0, len(in))
	for _, c := range in {
		out = append(out, *c)
	}
	return out
}
