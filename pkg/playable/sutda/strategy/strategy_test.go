package strategy

import (
	"testing"

	"sutda-server/pkg/deck"
	"sutda-server/pkg/playable/sutda/action"

	"github.com/stretchr/testify/assert"
)

func TestWinRate_38Kwang(t *testing.T) {
	wr := WinRate(deck.CardsFromString("3k,8k"))

	// the only residual hand that doesn't lose outright is the other
	// set's 38-kwangddaeng, which ties for half a win
	assert.Equal(t, 702.5/703.0, wr)
}

func TestWinRate_Bounds(t *testing.T) {
	for _, cards := range []string{"2p,8p", "4p,9p", "3k,7p", "10k,10p", "1p,5p"} {
		wr := WinRate(deck.CardsFromString(cards))
		assert.GreaterOrEqual(t, wr, 0.0, cards)
		assert.LessOrEqual(t, wr, 1.0, cards)
	}

	// a mangtong should lose most showdowns
	assert.Less(t, WinRate(deck.CardsFromString("2p,8p")), 0.25)

	// a jangddaeng should win most of them
	assert.Greater(t, WinRate(deck.CardsFromString("10k,10p")), 0.9)
}

func TestExpectedValue(t *testing.T) {
	assert.Equal(t, 0.0, ExpectedValue(0.5, 1000, 1000))
	assert.InDelta(t, 700.0, ExpectedValue(0.8, 1000, 500), 1e-9)
	assert.Less(t, ExpectedValue(0.1, 1000, 2000), 0.0)
}

func TestAdjustedWinRate(t *testing.T) {
	a := assert.New(t)

	// no penalties
	ctx := Context{Pot: 100, Balance: 10000}
	a.Equal(0.6, AdjustedWinRate(0.6, ctx))

	// opponent action penalty
	ctx.LastOpponentAction = action.Half
	a.InDelta(0.5, AdjustedWinRate(0.6, ctx), 1e-9)

	ctx.LastOpponentAction = action.Call
	a.InDelta(0.55, AdjustedWinRate(0.6, ctx), 1e-9)

	// risk tiers on pot/balance
	ctx = Context{Pot: 4000, Balance: 10000}
	a.InDelta(0.5, AdjustedWinRate(0.6, ctx), 1e-9)

	ctx.Pot = 7000
	a.InDelta(0.4, AdjustedWinRate(0.6, ctx), 1e-9)

	ctx = Context{Pot: 100, Balance: 0}
	a.InDelta(0.4, AdjustedWinRate(0.6, ctx), 1e-9)

	// clamped at zero
	a.Equal(0.0, AdjustedWinRate(0.1, ctx))
}

func TestPersonalityFor(t *testing.T) {
	seen := make(map[Personality]bool)
	for id := int64(1); id <= 50; id++ {
		p := PersonalityFor(id)
		assert.Equal(t, p, PersonalityFor(id), "personality must be stable")
		seen[p] = true
	}

	// both tables show up over a spread of ids
	assert.True(t, seen[PersonalityAggressive])
	assert.True(t, seen[PersonalityTight])
}

func TestDecide_NoOutstandingBet(t *testing.T) {
	a := assert.New(t)
	ctx := Context{IsFirstPlayer: true, Pot: 100, Balance: 100000, BaseBet: 1000}

	a.Equal(action.Half, Decide(PersonalityAggressive, 0.9, 0, ctx))
	a.Equal(action.Pping, Decide(PersonalityAggressive, 0.5, 0, ctx))
	a.Equal(action.Check, Decide(PersonalityAggressive, 0.2, 0, ctx))

	// tight wants more equity for the same moves
	a.Equal(action.Pping, Decide(PersonalityTight, 0.75, 0, ctx))
	a.Equal(action.Check, Decide(PersonalityTight, 0.5, 0, ctx))

	// not first: pping unavailable
	ctx.IsFirstPlayer = false
	a.Equal(action.Check, Decide(PersonalityAggressive, 0.5, 0, ctx))

	// raise capped: no opening bets at all
	ctx.RaiseCount = MaxRaisesPerHand
	a.Equal(action.Check, Decide(PersonalityAggressive, 0.9, 0, ctx))
}

func TestDecide_FacingBet(t *testing.T) {
	a := assert.New(t)
	ctx := Context{CallCost: 1000, Pot: 3000, Balance: 100000}

	a.Equal(action.Ddadang, Decide(PersonalityAggressive, 0.8, 100, ctx))
	a.Equal(action.Call, Decide(PersonalityAggressive, 0.5, 100, ctx))
	a.Equal(action.Call, Decide(PersonalityAggressive, 0.35, -50, ctx))
	a.Equal(action.Die, Decide(PersonalityAggressive, 0.2, -50, ctx))

	// tight calls only on positive EV and a real hand
	a.Equal(action.Ddadang, Decide(PersonalityTight, 0.85, 100, ctx))
	a.Equal(action.Call, Decide(PersonalityTight, 0.6, 100, ctx))
	a.Equal(action.Die, Decide(PersonalityTight, 0.6, -1, ctx))
	a.Equal(action.Die, Decide(PersonalityTight, 0.4, 100, ctx))

	// raise cap forces call-or-die
	ctx.RaiseCount = MaxRaisesPerHand
	a.Equal(action.Call, Decide(PersonalityAggressive, 0.8, 100, ctx))
	a.Equal(action.Call, Decide(PersonalityTight, 0.85, 100, ctx))
}
