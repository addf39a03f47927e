// Package strategy implements the bot's betting policy: an exhaustive
// win-rate computation over every possible opposing hand, a risk-adjusted
// expected value, and two personality-keyed decision tables.
package strategy

import (
	"hash/fnv"
	"strconv"

	"sutda-server/pkg/playable/sutda/action"
)

// Personality selects which decision table a bot plays from
type Personality string

// personality constants
const (
	PersonalityAggressive Personality = "aggressive"
	PersonalityTight      Personality = "tight"
)

// MaxRaisesPerHand caps how often a bot may raise within a single hand
const MaxRaisesPerHand = 3

// Context is the read-only betting state a bot decides from
type Context struct {
	// IsFirstPlayer is true when the bot is first in the turn order
	IsFirstPlayer bool
	// CallCost is the amount needed to match the outstanding bet
	CallCost int
	Pot      int
	BaseBet  int
	Balance  int
	// LastOpponentAction is the most recent action taken by an active opponent
	LastOpponentAction action.Action
	// RaiseCount is how often the bot has already raised this hand
	RaiseCount int
}

// opponentActionPenalty shaves the win rate based on how strong the
// opponent's last action was. A lookup, not a computation.
var opponentActionPenalty = map[action.Action]float64{
	action.Pping:   0.05,
	action.Quarter: 0.05,
	action.Half:    0.10,
	action.Ddadang: 0.10,
	action.Call:    0.05,
}

// riskPenalty grows as the pot becomes large relative to the bot's stack
func riskPenalty(pot, balance int) float64 {
	if balance <= 0 {
		return 0.20
	}

	potRatio := float64(pot) / float64(balance)
	switch {
	case potRatio >= 0.70:
		return 0.20
	case potRatio >= 0.40:
		return 0.10
	}

	return 0
}

// AdjustedWinRate applies the opponent-action and risk penalties to the
// raw win rate, clamped to zero
func AdjustedWinRate(raw float64, ctx Context) float64 {
	penalty := opponentActionPenalty[ctx.LastOpponentAction]
	penalty += riskPenalty(ctx.Pot, ctx.Balance)

	if adjusted := raw - penalty; adjusted > 0 {
		return adjusted
	}

	return 0
}

// PersonalityFor deterministically assigns a personality from a stable
// hash of the bot's player id
func PersonalityFor(playerID int64) Personality {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(playerID, 10)))

	if h.Sum32()%2 == 0 {
		return PersonalityAggressive
	}

	return PersonalityTight
}

// Decide picks an action from the personality's table. With no
// outstanding bet the options are half/pping/check; facing a bet they
// are ddadang/call/die. The raise cap downgrades to call-or-die.
func Decide(p Personality, winRate, ev float64, ctx Context) action.Action {
	awr := AdjustedWinRate(winRate, ctx)
	raiseCapped := ctx.RaiseCount >= MaxRaisesPerHand

	if p == PersonalityAggressive {
		if ctx.CallCost == 0 {
			if !raiseCapped && awr > 0.75 {
				return action.Half
			}
			if !raiseCapped && ctx.IsFirstPlayer && awr > 0.45 {
				return action.Pping
			}
			return action.Check
		}

		if !raiseCapped && awr > 0.7 {
			return action.Ddadang
		}
		if ev > 0 || awr > 0.3 {
			return action.Call
		}
		return action.Die
	}

	if ctx.CallCost == 0 {
		if !raiseCapped && awr > 0.8 {
			return action.Half
		}
		if !raiseCapped && ctx.IsFirstPlayer && awr > 0.6 {
			return action.Pping
		}
		return action.Check
	}

	if !raiseCapped && awr > 0.8 {
		return action.Ddadang
	}
	if ev > 0 && awr > 0.5 {
		return action.Call
	}
	return action.Die
}
