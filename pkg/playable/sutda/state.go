package sutda

import (
	"sutda-server/pkg/playable"
	"sutda-server/pkg/playable/sutda/action"
)

// GameState is the overall game state shaped for a single viewer.
// Other players' cards stay hidden until the hand is revealed.
type GameState struct {
	Participants   []*participantJSON `json:"participants"`
	Phase          Phase              `json:"phase"`
	Pot            int                `json:"pot"`
	AccumulatedPot int                `json:"accumulatedPot"`
	BaseBet        int                `json:"baseBet"`
	Round          int                `json:"round"`
	HandsPlayed    int                `json:"handsPlayed"`
	IsRematch      bool               `json:"isRematch"`
	CurrentTurn    int64              `json:"currentTurn"`
	LastWinnerID   int64              `json:"lastWinnerId"`
	EndReason      string             `json:"endReason,omitempty"`
	// Settlement is only populated after a hand concludes
	Settlement *Settlement `json:"settlement,omitempty"`
}

// Response is the response format for this game
type Response struct {
	GameState *GameState `json:"gameState"`
	// Actions are the viewer's currently legal betting actions
	Actions []action.Action `json:"actions"`
	// CanReady is true if the viewer may ready up for the next hand
	CanReady bool `json:"canReady"`
}

func (g *Game) getGameState(playerID int64) *GameState {
	participants := make([]*participantJSON, len(g.seatOrder))
	for i, id := range g.seatOrder {
		participants[i] = g.participants[id].participantJSON(playerID, g.revealed)
	}

	var currentTurn int64
	if turn := g.currentTurn(); turn != nil {
		currentTurn = turn.PlayerID
	}

	return &GameState{
		Participants:   participants,
		Phase:          g.phase,
		Pot:            g.pot,
		AccumulatedPot: g.accumulatedPot,
		BaseBet:        g.options.BaseBet,
		Round:          g.roundCount,
		HandsPlayed:    g.handsPlayed,
		IsRematch:      g.isRematch,
		CurrentTurn:    currentTurn,
		LastWinnerID:   g.lastWinnerID,
		EndReason:      g.endReason,
		Settlement:     g.lastSettlement,
	}
}

// GetPlayerState returns the state for the given player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	res := &Response{
		GameState: g.getGameState(playerID),
		Actions:   g.legalActions(playerID),
		CanReady:  g.canReady(playerID),
	}

	return &playable.Response{
		Key:   "game",
		Value: "sutda",
		Data:  res,
	}, nil
}

// legalActions returns the actions the player could take right now
func (g *Game) legalActions(playerID int64) []action.Action {
	turn := g.currentTurn()
	if turn == nil || turn.PlayerID != playerID {
		return nil
	}

	p := g.participants[playerID]
	callCost := g.maxBet() - p.totalBet
	if callCost < 0 {
		callCost = 0
	}

	actions := make([]action.Action, 0, 5)
	if callCost == 0 {
		actions = append(actions, action.Check)
		if playerID == g.turnOrder[0] && g.maxBet() <= p.totalBet {
			actions = append(actions, action.Pping)
		}
	} else {
		actions = append(actions, action.Call, action.Ddadang)
	}

	actions = append(actions, action.Half, action.Quarter, action.Die)
	return actions
}

// canReady is true when the player can ready up for the next hand
func (g *Game) canReady(playerID int64) bool {
	if g.phase != PhaseWaiting && g.phase != PhaseResult {
		return false
	}

	p, ok := g.participants[playerID]
	if !ok || p.ready {
		return false
	}

	return contains(g.eligibleForNextHand(), playerID)
}
