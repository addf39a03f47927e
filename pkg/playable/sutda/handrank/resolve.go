package handrank

// PlayerHand pairs a player with their evaluated hand
type PlayerHand struct {
	PlayerID int64      `json:"playerId"`
	Result   HandResult `json:"result"`
}

// Resolution is the outcome of comparing all active hands at showdown.
// WinnerID is 0 when the showdown ends in a rematch.
type Resolution struct {
	WinnerID         int64        `json:"winnerId"`
	IsRematch        bool         `json:"isRematch"`
	RematchPlayerIDs []int64      `json:"rematchPlayerIds"`
	FinalResults     []PlayerHand `json:"finalResults"`
}

func isGusaKind(r HandResult) bool {
	return r.Special != nil &&
		(r.Special.Kind == SpecialGusa || r.Special.Kind == SpecialMungGusa)
}

// bestOf returns the highest-ranked hand and the ids tied with it
func bestOf(hands []PlayerHand) (best PlayerHand, tied []int64) {
	best = hands[0]
	for _, ph := range hands[1:] {
		if ph.Result.Rank > best.Result.Rank {
			best = ph
		}
	}

	for _, ph := range hands {
		if ph.Result.Rank == best.Result.Rank {
			tied = append(tied, ph.PlayerID)
		}
	}

	return best, tied
}

func decide(hands []PlayerHand) Resolution {
	best, tied := bestOf(hands)
	if len(tied) > 1 {
		return Resolution{
			IsRematch:        true,
			RematchPlayerIDs: tied,
			FinalResults:     hands,
		}
	}

	return Resolution{WinnerID: best.PlayerID, FinalResults: hands}
}

// Resolve compares the evaluated hands of all active players, resolving
// opponent-dependent specials, ties, and rematches.
//
// A gusa rematch overrides any tie and always includes every active
// player, even ones who are all-in. On a gusa rematch the final results
// keep each special hand's pre-fallback display name and rank.
func Resolve(hands []PlayerHand) Resolution {
	hasSpecial := false
	for _, ph := range hands {
		if ph.Result.Special != nil {
			hasSpecial = true
			break
		}
	}

	if !hasSpecial {
		return decide(hands)
	}

	// best ordinary hand among the non-special holders
	bestNonSpecialRank := 0
	bestNonSpecialName := ""
	for _, ph := range hands {
		if ph.Result.Special == nil && ph.Result.Rank > bestNonSpecialRank {
			bestNonSpecialRank = ph.Result.Rank
			bestNonSpecialName = ph.Result.Name
		}
	}

	// settle the conditional-win specials; gusa kinds stay unresolved
	resolved := make([]PlayerHand, len(hands))
	copy(resolved, hands)
	for i, ph := range resolved {
		sp := ph.Result.Special
		if sp == nil || isGusaKind(ph.Result) {
			continue
		}

		winsOutright := false
		for _, name := range sp.WinsAgainst {
			if name == bestNonSpecialName {
				winsOutright = true
				break
			}
		}

		if winsOutright {
			promoted := rankDdangjabiWin
			if sp.Kind == SpecialAmhaengeosa {
				promoted = rankAmhaengeosaWin
			}

			resolved[i].Result = HandResult{Rank: promoted, Name: ph.Result.Name}
		} else {
			resolved[i].Result = HandResult{Rank: sp.FallbackRank, Name: sp.FallbackName}
		}
	}

	hasGusa := false
	for _, ph := range resolved {
		if isGusaKind(ph.Result) {
			hasGusa = true
			break
		}
	}

	if hasGusa {
		for _, ph := range resolved {
			if !isGusaKind(ph.Result) {
				continue
			}

			if bestNonSpecialRank <= ph.Result.Special.RematchThreshold {
				// rematch pulls in every active player, not just the
				// special holders or a tied subset
				all := make([]int64, len(hands))
				display := make([]PlayerHand, len(resolved))
				for i, r := range resolved {
					all[i] = hands[i].PlayerID
					display[i] = r
					if r.Result.Special != nil {
						display[i].Result = HandResult{Rank: r.Result.Rank, Name: r.Result.Name}
					}
				}

				return Resolution{
					IsRematch:        true,
					RematchPlayerIDs: all,
					FinalResults:     display,
				}
			}
		}

		// rematch condition unmet; demote the gusa hands
		for i, ph := range resolved {
			if isGusaKind(ph.Result) {
				sp := ph.Result.Special
				resolved[i].Result = HandResult{Rank: sp.FallbackRank, Name: sp.FallbackName}
			}
		}
	}

	return decide(resolved)
}
