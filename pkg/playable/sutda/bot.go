package sutda

import (
	"time"

	"sutda-server/pkg/playable/sutda/action"
	"sutda-server/pkg/playable/sutda/strategy"
)

type pendingBotAction struct {
	PlayerID     int64
	ExecuteAfter time.Time
}

// scheduleBotAction queues a delayed action when the turn lands on a bot
func (g *Game) scheduleBotAction() {
	turn := g.currentTurn()
	if turn == nil || !turn.isBot {
		return
	}

	g.pendingBotAction = &pendingBotAction{
		PlayerID:     turn.PlayerID,
		ExecuteAfter: time.Now().Add(g.options.BotDelay),
	}
}

// scheduleBotReadies queues a delayed ready-up for every bot that can
// play the next hand
func (g *Game) scheduleBotReadies() {
	for _, id := range g.eligibleForNextHand() {
		if g.participants[id].isBot {
			g.pendingBotReady[id] = time.Now().Add(g.options.BotDelay)
		}
	}
}

// executeBotAction re-validates that the bot still holds the turn before
// acting; the game may have moved on since the action was scheduled
func (g *Game) executeBotAction(playerID int64) bool {
	turn := g.currentTurn()
	if turn == nil || turn.PlayerID != playerID || !turn.isBot {
		return false
	}

	act := g.computeBotAction(turn)
	if err := g.placeBet(playerID, act); err != nil {
		g.logger.WithError(err).WithField("playerId", playerID).Error("bot action failed")
		return false
	}

	return true
}

// computeBotAction runs the strategy engine against the bot's view of
// the table
func (g *Game) computeBotAction(p *Participant) action.Action {
	callCost := g.maxBet() - p.totalBet
	if callCost < 0 {
		callCost = 0
	}

	ctx := strategy.Context{
		IsFirstPlayer:      p.PlayerID == g.turnOrder[0] && g.maxBet() <= p.totalBet,
		CallCost:           callCost,
		Pot:                g.pot,
		BaseBet:            g.options.BaseBet,
		Balance:            p.balance,
		LastOpponentAction: g.lastOpponentAction(p.PlayerID),
		RaiseCount:         p.raiseCount,
	}

	winRate := strategy.WinRate(p.hand)
	ev := strategy.ExpectedValue(winRate, ctx.Pot, ctx.CallCost)

	return strategy.Decide(strategy.PersonalityFor(p.PlayerID), winRate, ev, ctx)
}

// lastOpponentAction returns the most recent action by an active
// opponent, scanning backwards from the bot's seat
func (g *Game) lastOpponentAction(playerID int64) action.Action {
	n := len(g.turnOrder)
	selfIdx := 0
	for i, id := range g.turnOrder {
		if id == playerID {
			selfIdx = i
			break
		}
	}

	for offset := 1; offset < n; offset++ {
		idx := ((selfIdx-offset)%n + n) % n
		p := g.participants[g.turnOrder[idx]]
		if !p.folded && p.lastAction != "" {
			return p.lastAction
		}
	}

	return ""
}
