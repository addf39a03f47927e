package sutda

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"sutda-server/pkg/deck"
	"sutda-server/pkg/playable"
	"sutda-server/pkg/playable/sutda/action"
	"sutda-server/pkg/playable/sutda/strategy"
)

func testOptions() Options {
	return Options{
		BaseBet:         100,
		StartingBalance: 1000,
	}
}

func setupGame(t *testing.T, playerIDs []int64, opts Options) *Game {
	t.Helper()

	g, err := NewGame(logrus.StandardLogger(), playerIDs, opts)
	assert.NoError(t, err)
	assert.NotNil(t, g)

	return g
}

// startTestHand readies every eligible player and then pins the dealt
// hands to known cards
func startTestHand(t *testing.T, g *Game, hands map[int64]string) {
	t.Helper()

	for _, id := range g.eligibleForNextHand() {
		if !g.participants[id].ready {
			assert.NoError(t, g.setReady(id))
		}
	}

	assert.Equal(t, PhasePlaying, g.phase)

	for id, cards := range hands {
		g.participants[id].hand = deck.CardsFromString(cards)
	}
}

func bet(t *testing.T, g *Game, playerID int64, act action.Action) {
	t.Helper()
	assert.NoError(t, g.placeBet(playerID, act))
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	g, err := NewGame(logrus.StandardLogger(), []int64{1, 2, 3}, Options{})
	a.NoError(err)
	a.Equal("sutda", g.Name())
	a.Equal(PhaseWaiting, g.phase)

	// defaults kick in for zero-valued options
	a.Equal(1000, g.options.BaseBet)
	a.Equal(100000, g.options.StartingBalance)

	_, err = NewGame(logrus.StandardLogger(), []int64{1}, Options{})
	a.Equal(ErrInvalidPlayerCount, err)

	_, err = NewGame(logrus.StandardLogger(), []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, Options{})
	a.Equal(ErrInvalidPlayerCount, err)

	_, err = NewGame(logrus.StandardLogger(), []int64{1, 2, 2}, Options{})
	a.Error(err)
}

func TestGame_Interval(t *testing.T) {
	g := setupGame(t, []int64{1, 2}, testOptions())
	assert.Equal(t, 250*time.Millisecond, g.Interval())
}

func TestGame_ReadyAndDeal(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())

	a.NoError(g.setReady(1))
	a.Equal(PhaseWaiting, g.phase)

	a.NoError(g.setReady(2))
	a.Equal(PhaseWaiting, g.phase)

	a.NoError(g.setReady(3))
	a.Equal(PhasePlaying, g.phase)

	// everyone antes the base bet
	a.Equal(300, g.pot)
	for _, id := range []int64{1, 2, 3} {
		p := g.participants[id]
		a.Equal(900, p.balance)
		a.Equal(100, p.totalBet)
		a.Len(p.hand, 2)
	}

	// the host leads the first hand
	a.Equal(int64(1), g.turnOrder[0])
	a.False(g.isRematch)

	a.Equal(ErrNotReadyPhase, g.setReady(1))
}

func TestGame_LegalActions(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())
	startTestHand(t, g, nil)

	// first player, no outstanding bet
	a.Equal([]action.Action{action.Check, action.Pping, action.Half, action.Quarter, action.Die}, g.legalActions(1))

	// not their turn
	a.Nil(g.legalActions(2))

	bet(t, g, 1, action.Pping)

	// facing a bet
	a.Equal([]action.Action{action.Call, action.Ddadang, action.Half, action.Quarter, action.Die}, g.legalActions(2))
}

func TestGame_BettingValidation(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())

	a.Equal(ErrNotBettingPhase, g.placeBet(1, action.Check))

	startTestHand(t, g, nil)

	a.Equal(ErrNotPlayersTurn, g.placeBet(2, action.Check))
	a.Equal(ErrPlayerNotFound, g.placeBet(99, action.Check))
	a.Equal(ErrDdadangWithoutBet, g.placeBet(1, action.Ddadang))

	bet(t, g, 1, action.Check)
	bet(t, g, 2, action.Half)

	a.Equal(ErrCheckWithOutstandingBet, g.placeBet(3, action.Check))
	a.Equal(ErrPpingNotFirst, g.placeBet(3, action.Pping))

	bet(t, g, 3, action.Call)

	// the first player faces a bet now, so pping is spent
	a.Equal(ErrPpingWithOutstandingBet, g.placeBet(1, action.Pping))
}

func TestGame_BettingAmounts(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())
	startTestHand(t, g, map[int64]string{
		1: "3k,8k", // 38-kwangddaeng
		2: "1p,2p", // 3-kkeut
		3: "2k,7p", // 9-kkeut
	})

	// pping opens for the base bet
	bet(t, g, 1, action.Pping)
	a.Equal(400, g.pot)
	a.Equal(200, g.participants[1].totalBet)
	a.Equal(int64(1), g.lastBettorID)

	// call matches the outstanding bet
	bet(t, g, 2, action.Call)
	a.Equal(500, g.pot)
	a.Equal(200, g.participants[2].totalBet)

	// ddadang stakes triple the call cost
	bet(t, g, 3, action.Ddadang)
	a.Equal(800, g.pot)
	a.Equal(400, g.participants[3].totalBet)
	a.Equal(int64(3), g.lastBettorID)

	bet(t, g, 1, action.Call)
	a.Equal(1000, g.pot)

	// the final call settles the round and triggers the showdown
	bet(t, g, 2, action.Call)
	a.Equal(PhaseResult, g.phase)
	a.Equal(0, g.pot)

	// 38-kwangddaeng takes the pot: 1000 - 400 staked + 1200 won
	a.Equal(1800, g.participants[1].balance)
	a.Equal(600, g.participants[2].balance)
	a.Equal(600, g.participants[3].balance)

	s := g.lastSettlement
	a.NotNil(s)
	a.Equal(int64(1), s.WinnerID)
	a.Equal(1200, s.Amount)
	a.False(s.WonByFold)
	a.Equal("38-kwangddaeng", g.participants[1].handName)

	a.Equal(int64(1), g.lastWinnerID)
	a.True(g.revealed)
}

func TestGame_HalfAndQuarter(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, Options{BaseBet: 100, StartingBalance: 10000})
	startTestHand(t, g, map[int64]string{
		1: "3k,8k",
		2: "1p,2p",
		3: "2k,7p",
	})

	// half bets half the current pot
	bet(t, g, 1, action.Half)
	a.Equal(450, g.pot)
	a.Equal(250, g.participants[1].totalBet)

	// quarter bets a quarter of the current pot
	bet(t, g, 2, action.Quarter)
	a.Equal(562, g.pot)
	a.Equal(212, g.participants[2].totalBet)

	// the quarter is short of the half; player 2 still owes action later
	a.Equal(int64(3), g.currentTurn().PlayerID)
}

func TestGame_CheckAroundEndsHand(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())
	startTestHand(t, g, map[int64]string{
		1: "1p,2p",    // 3-kkeut
		2: "10k,9p",   // 9-kkeut
		3: "10p,10kb", // jangddaeng
	})

	bet(t, g, 1, action.Check)
	bet(t, g, 2, action.Check)
	a.Equal(PhasePlaying, g.phase)

	// the last check wraps the table with all bets level
	bet(t, g, 3, action.Check)
	a.Equal(PhaseResult, g.phase)
	a.Equal(1200, g.participants[3].balance)
	a.Equal(int64(3), g.lastWinnerID)
}

func TestGame_FoldToOne(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())
	startTestHand(t, g, nil)

	bet(t, g, 1, action.Pping)
	bet(t, g, 2, action.Die)
	a.Equal(PhasePlaying, g.phase)

	// a dead player cannot act again
	a.Equal(ErrPlayerFolded, g.placeBet(2, action.Check))

	bet(t, g, 3, action.Die)
	a.Equal(PhaseResult, g.phase)

	// winner by fold; nothing is revealed
	a.False(g.revealed)
	a.True(g.lastSettlement.WonByFold)
	a.Equal(int64(1), g.lastSettlement.WinnerID)
	a.Equal(1200, g.participants[1].balance)
}

func TestGame_RematchCarriesPot(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, testOptions())
	startTestHand(t, g, map[int64]string{
		1: "1p,9p",   // mangtong
		2: "1pb,9pb", // mangtong
	})

	bet(t, g, 1, action.Check)
	bet(t, g, 2, action.Check)

	// tied hands force a rematch; the pot carries over
	a.Equal(PhaseWaiting, g.phase)
	a.Equal(0, g.pot)
	a.Equal(200, g.accumulatedPot)
	a.True(g.lastSettlement.IsRematch)
	a.Equal([]int64{1, 2}, g.lastSettlement.RematchPlayerIDs)
	a.Equal(1, g.handsPlayed)

	startTestHand(t, g, map[int64]string{
		1: "1p,9p",
		2: "1pb,9pb",
	})

	// carried pot plus fresh antes
	a.True(g.isRematch)
	a.Equal(400, g.pot)

	// raise so the next rematch has a last bettor
	bet(t, g, 1, action.Half)
	bet(t, g, 2, action.Call)

	a.Equal(PhaseWaiting, g.phase)
	a.Equal(int64(2), g.lastBettorID)

	startTestHand(t, g, map[int64]string{
		1: "1p,9p",
		2: "1pb,9pb",
	})

	// the last bettor leads a rematch hand
	a.Equal(int64(2), g.turnOrder[0])
}

func TestGame_GusaRematchFinalResults(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, testOptions())
	startTestHand(t, g, map[int64]string{
		1: "4p,9p", // mung-gusa
		2: "8k,9k", // 7-kkeut, under the mung-gusa threshold
	})

	bet(t, g, 1, action.Check)
	bet(t, g, 2, action.Check)

	a.Equal(PhaseWaiting, g.phase)
	a.True(g.lastSettlement.IsRematch)

	// the special keeps its display name on the rematch
	a.Equal("mung-gusa", g.participants[1].handName)
}

func TestGame_SolvencyGate(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, Options{BaseBet: 100, StartingBalance: 100})
	startTestHand(t, g, map[int64]string{
		1: "10k,10p", // jangddaeng
		2: "1p,9p",   // mangtong
	})

	// both are all-in on the ante
	bet(t, g, 1, action.Check)
	a.Equal(PhaseEnded, g.phase)
	a.Equal(endReasonSoloSurvivor, g.endReason)

	details, over := g.GetEndOfGameDetails()
	a.True(over)
	a.Equal(100, details.BalanceAdjustments[1])
	a.Equal(-100, details.BalanceAdjustments[2])

	_, _, err := g.Action(1, &playable.PayloadIn{Action: "ready"})
	a.Equal(ErrGameIsOver, err)
}

func TestGame_RematchBankruptcy(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, Options{BaseBet: 100, StartingBalance: 100})
	startTestHand(t, g, map[int64]string{
		1: "1p,9p",
		2: "1pb,9pb",
	})

	// both all-in and tied; nobody can ante the rematch
	bet(t, g, 1, action.Check)
	a.Equal(PhaseEnded, g.phase)
	a.Equal(endReasonBankruptcy, g.endReason)
}

func TestGame_Action(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, testOptions())

	resp, update, err := g.Action(1, &playable.PayloadIn{Action: "ready"})
	a.NoError(err)
	a.True(update)
	a.Equal(playable.OK(), resp)

	_, _, err = g.Action(1, &playable.PayloadIn{Action: "bogus"})
	a.Error(err)

	_, _, err = g.Action(99, &playable.PayloadIn{Action: "ready"})
	a.Equal(ErrPlayerNotFound, err)

	a.NoError(g.setReady(2))
	a.Equal(PhasePlaying, g.phase)

	resp, update, err = g.Action(1, &playable.PayloadIn{Action: "check"})
	a.NoError(err)
	a.True(update)
	a.Equal(playable.OK(), resp)
}

func TestGame_Leave(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, testOptions())
	startTestHand(t, g, nil)

	// leaving mid-hand folds
	_, _, err := g.Action(2, &playable.PayloadIn{Action: "leave"})
	a.NoError(err)
	a.True(g.participants[2].folded)
	a.Equal(int64(1), g.currentTurn().PlayerID)
}

func TestGame_PlayerStateHidesHands(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, testOptions())
	startTestHand(t, g, map[int64]string{
		1: "3k,8k",
		2: "1p,2p",
	})

	resp, err := g.GetPlayerState(1)
	a.NoError(err)

	state := resp.Data.(*Response)
	a.Equal(PhasePlaying, state.GameState.Phase)
	a.False(state.CanReady)

	var me, them *participantJSON
	for _, p := range state.GameState.Participants {
		if p.PlayerID == 1 {
			me = p
		} else {
			them = p
		}
	}

	// own cards visible with an interim hand name; theirs hidden
	a.Len(me.Cards, 2)
	a.Equal("38-kwangddaeng", me.HandName)
	a.Nil(them.Cards)
	a.Empty(them.HandName)

	bet(t, g, 1, action.Check)
	bet(t, g, 2, action.Check)

	// everything is revealed after the showdown
	resp, err = g.GetPlayerState(2)
	a.NoError(err)
	state = resp.Data.(*Response)

	for _, p := range state.GameState.Participants {
		a.Len(p.Cards, 2)
		a.NotEmpty(p.HandName)
	}
	a.True(state.CanReady)
}

func TestGame_BotPlays(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, Options{
		BaseBet:         100,
		StartingBalance: 10000,
		BotIDs:          []int64{2},
	})

	// bots start ready; the human's ready deals the hand
	a.NoError(g.setReady(1))
	a.Equal(PhasePlaying, g.phase)

	g.participants[2].hand = deck.CardsFromString("10k,10p")

	bet(t, g, 1, action.Check)
	a.NotNil(g.pendingBotAction)
	a.Equal(int64(2), g.pendingBotAction.PlayerID)

	// make the pending action due
	g.pendingBotAction.ExecuteAfter = time.Now().Add(-time.Second)
	updated, err := g.Tick()
	a.NoError(err)
	a.True(updated)

	// a jangddaeng bets half regardless of personality
	a.Equal(action.Half, g.participants[2].lastAction)
	a.Equal(300, g.pot)
}

func TestGame_BotCallsOnRawExpectedValue(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 3}, Options{
		BaseBet:         1000,
		StartingBalance: 10000,
		BotIDs:          []int64{3},
	})

	a.NoError(g.setReady(1))
	a.Equal(PhasePlaying, g.phase)
	a.Equal(strategy.PersonalityAggressive, strategy.PersonalityFor(3))

	// a 5-kkeut wins about 46% of showdowns: clearly positive expected
	// value against this pot, but well below the call threshold once the
	// half-bet and short-stack penalties shave the win rate
	g.participants[3].hand = deck.CardsFromString("1p,5p")

	bet(t, g, 1, action.Half)
	a.Equal(3000, g.pot)
	a.NotNil(g.pendingBotAction)
	a.Equal(int64(3), g.pendingBotAction.PlayerID)

	// shorten the stack so the pot sits in the top risk tier
	g.participants[3].balance = 2600

	g.pendingBotAction.ExecuteAfter = time.Now().Add(-time.Second)
	updated, err := g.Tick()
	a.NoError(err)
	a.True(updated)

	// penalties gate the raise thresholds only; the call itself rides on
	// the raw expected value
	a.Equal(action.Call, g.participants[3].lastAction)
	a.False(g.participants[3].folded)
}

func TestGame_BotStaleActionIsNoOp(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2, 3}, Options{
		BaseBet:         100,
		StartingBalance: 10000,
		BotIDs:          []int64{3},
	})

	a.NoError(g.setReady(1))
	a.NoError(g.setReady(2))
	a.Equal(PhasePlaying, g.phase)

	// a scheduled action for a bot that no longer holds the turn
	g.pendingBotAction = &pendingBotAction{
		PlayerID:     3,
		ExecuteAfter: time.Now().Add(-time.Second),
	}

	updated, err := g.Tick()
	a.NoError(err)
	a.False(updated)
	a.Equal(int64(1), g.currentTurn().PlayerID)
	a.Nil(g.pendingBotAction)
}

func TestGame_BotAutoReady(t *testing.T) {
	a := assert.New(t)
	g := setupGame(t, []int64{1, 2}, Options{
		BaseBet:         100,
		StartingBalance: 10000,
		BotIDs:          []int64{2},
	})

	a.NoError(g.setReady(1))
	a.Equal(PhasePlaying, g.phase)

	bet(t, g, 1, action.Die)
	a.Equal(PhaseResult, g.phase)

	// the bot's ready-up is queued, not immediate
	a.False(g.participants[2].ready)
	at, ok := g.pendingBotReady[2]
	a.True(ok)

	g.pendingBotReady[2] = at.Add(-time.Hour)
	updated, err := g.Tick()
	a.NoError(err)
	a.True(updated)
	a.True(g.participants[2].ready)

	// the next hand deals once the human readies
	a.NoError(g.setReady(1))
	a.Equal(PhasePlaying, g.phase)
}
