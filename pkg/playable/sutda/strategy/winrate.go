package strategy

import (
	"sutda-server/pkg/deck"
	"sutda-server/pkg/playable/sutda/handrank"
)

// WinRate computes the bot's exact win probability by enumerating every
// unordered pair of the 38 residual cards (C(38,2) = 703 opposing hands)
// and resolving each head-to-head. A rematch counts as half a win.
func WinRate(hand deck.Hand) float64 {
	botResult := handrank.EvaluateHand(hand)

	residual := make([]*deck.Card, 0, 38)
	for _, c := range deck.New().Cards {
		if hand.HasCard(c) {
			continue
		}

		residual = append(residual, c)
	}

	var wins float64
	total := 0

	for i := 0; i < len(residual); i++ {
		for j := i + 1; j < len(residual); j++ {
			oppResult := handrank.Evaluate(residual[i], residual[j])
			res := handrank.Resolve([]handrank.PlayerHand{
				{PlayerID: 1, Result: botResult},
				{PlayerID: 2, Result: oppResult},
			})

			if res.WinnerID == 1 {
				wins++
			} else if res.IsRematch {
				wins += 0.5
			}
			total++
		}
	}

	if total == 0 {
		return 0.5
	}

	return wins / float64(total)
}

// ExpectedValue is the risk-neutral value of continuing the hand
func ExpectedValue(winRate float64, pot, callCost int) float64 {
	return winRate*float64(pot) - (1-winRate)*float64(callCost)
}
