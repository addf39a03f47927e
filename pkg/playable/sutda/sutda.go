package sutda

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sutda-server/pkg/playable"
	"sutda-server/pkg/playable/sutda/action"
)

// Phase represents the current phase of the game
type Phase int

const (
	// PhaseWaiting is between hands, while players ready up
	PhaseWaiting Phase = iota
	// PhasePlaying is the betting phase of a live hand
	PhasePlaying
	// PhaseResult is the post-showdown reveal before the next hand
	PhaseResult
	// PhaseEnded is when the game is over
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseResult:
		return "result"
	case PhaseEnded:
		return "ended"
	}

	panic(fmt.Sprintf("unknown phase: %d", int(p)))
}

// MarshalJSON encodes the phase into JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// end reasons
const (
	endReasonBankruptcy   = "bankruptcy"
	endReasonSoloSurvivor = "solo_survivor"
)

// Game is a game of two-card sutda
type Game struct {
	options Options

	participants map[int64]*Participant
	// seatOrder is the fixed join order; turnOrder is the eligible subset
	// for the live hand, rotated so the first player leads
	seatOrder []int64
	turnOrder []int64
	turnIndex int

	// roundCount increments each time the action wraps around the table
	roundCount int

	phase          Phase
	pot            int
	accumulatedPot int

	// isRematch is true while the live hand replays a gusa or tie
	isRematch        bool
	rematchPlayerIDs map[int64]bool

	// revealed is true once the live hand's cards are public
	revealed bool

	// zero means no such player yet
	lastBettorID int64
	lastWinnerID int64
	hostID       int64

	handsPlayed    int
	endReason      string
	lastSettlement *Settlement

	pendingBotAction *pendingBotAction
	pendingBotReady  map[int64]time.Time

	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

// NewGame returns a new sutda game
func NewGame(logger logrus.FieldLogger, playerIDs []int64, opts Options) (*Game, error) {
	if len(playerIDs) < 2 || len(playerIDs) > 10 {
		return nil, ErrInvalidPlayerCount
	}

	if opts.BaseBet <= 0 {
		opts.BaseBet = DefaultOptions().BaseBet
	}

	if opts.StartingBalance <= 0 {
		opts.StartingBalance = DefaultOptions().StartingBalance
	}

	bots := make(map[int64]bool)
	for _, id := range opts.BotIDs {
		bots[id] = true
	}

	participants := make(map[int64]*Participant)
	seatOrder := make([]int64, 0, len(playerIDs))
	for _, id := range playerIDs {
		if _, ok := participants[id]; ok {
			return nil, fmt.Errorf("duplicate player id: %d", id)
		}

		participants[id] = newParticipant(id, opts.StartingBalance, bots[id])
		seatOrder = append(seatOrder, id)
	}

	g := &Game{
		options:         opts,
		participants:    participants,
		seatOrder:       seatOrder,
		phase:           PhaseWaiting,
		hostID:          playerIDs[0],
		pendingBotReady: make(map[int64]time.Time),
		logger:          logger,
		logChan:         make(chan []*playable.LogMessage, 256),
	}

	g.sendLogMessages(newLogMessage(0, "New game of sutda started with a ${%d} base bet", opts.BaseBet))

	return g, nil
}

// Name returns "sutda"
func (g *Game) Name() string {
	return "sutda"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Action performs an action
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	if g.phase == PhaseEnded {
		return nil, false, ErrGameIsOver
	}

	if _, ok := g.participants[playerID]; !ok {
		return nil, false, ErrPlayerNotFound
	}

	switch message.Action {
	case "ready":
		if err := g.setReady(playerID); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	case "leave":
		if err := g.leave(playerID); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	default:
		act, err := action.FromString(message.Action)
		if err != nil {
			return nil, false, err
		}

		if err := g.placeBet(playerID, act); err != nil {
			return nil, false, err
		}

		return playable.OK(), true, nil
	}
}

// GetEndOfGameDetails returns details at the end of the game
func (g *Game) GetEndOfGameDetails() (gameOverDetails *playable.GameOverDetails, isGameOver bool) {
	if g.phase != PhaseEnded {
		return nil, false
	}

	adjustments := make(map[int64]int)
	for id, p := range g.participants {
		adjustments[id] = p.balance - g.options.StartingBalance
	}

	return &playable.GameOverDetails{
		BalanceAdjustments: adjustments,
		Log: map[string]interface{}{
			"endReason":      g.endReason,
			"handsPlayed":    g.handsPlayed,
			"lastSettlement": g.lastSettlement,
		},
	}, true
}

// Interval determines how often Tick() should be called
func (g *Game) Interval() time.Duration {
	return 250 * time.Millisecond
}

// Tick runs any bot work that has come due
func (g *Game) Tick() (bool, error) {
	if g.phase == PhaseEnded {
		return false, nil
	}

	updated := false
	now := time.Now()

	for id, at := range g.pendingBotReady {
		if !now.After(at) {
			continue
		}

		delete(g.pendingBotReady, id)

		// the phase may have moved on; a stale ready is a no-op
		if err := g.setReady(id); err != nil {
			continue
		}

		updated = true
	}

	if g.pendingBotAction != nil && now.After(g.pendingBotAction.ExecuteAfter) {
		pba := g.pendingBotAction
		// clear before executing so the next turn can schedule its own
		g.pendingBotAction = nil

		if g.executeBotAction(pba.PlayerID) {
			updated = true
		}
	}

	return updated, nil
}

// currentTurn returns the participant whose turn it is, or nil outside
// the betting phase
func (g *Game) currentTurn() *Participant {
	if g.phase != PhasePlaying || g.turnIndex >= len(g.turnOrder) {
		return nil
	}

	return g.participants[g.turnOrder[g.turnIndex]]
}

// maxBet returns the largest total bet among non-folded participants
func (g *Game) maxBet() int {
	max := 0
	for _, id := range g.turnOrder {
		if p := g.participants[id]; !p.folded && p.totalBet > max {
			max = p.totalBet
		}
	}

	return max
}

// activeParticipants returns the non-folded participants in turn order
func (g *Game) activeParticipants() []*Participant {
	active := make([]*Participant, 0, len(g.turnOrder))
	for _, id := range g.turnOrder {
		if p := g.participants[id]; !p.folded {
			active = append(active, p)
		}
	}

	return active
}

func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan != nil {
		g.logChan <- msg
	}
}

func newLogMessage(playerID int64, format string, a ...interface{}) *playable.LogMessage {
	var playerIDs []int64
	if playerID > 0 {
		playerIDs = []int64{playerID}
	}

	return &playable.LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}
