package sutda

import (
	"sort"
	"time"

	"sutda-server/pkg/deck"
	"sutda-server/pkg/playable/sutda/action"
	"sutda-server/pkg/playable/sutda/handrank"
)

// Settlement records how the last hand concluded
type Settlement struct {
	WinnerID         int64              `json:"winnerId"`
	Amount           int                `json:"amount"`
	WonByFold        bool               `json:"wonByFold"`
	IsRematch        bool               `json:"isRematch"`
	RematchPlayerIDs []int64            `json:"rematchPlayerIds,omitempty"`
	Results          []SettlementResult `json:"results"`
}

// SettlementResult is a single player's line in the settlement
type SettlementResult struct {
	PlayerID int64  `json:"playerId"`
	HandName string `json:"handName,omitempty"`
	HandRank int    `json:"handRank,omitempty"`
	Folded   bool   `json:"folded"`
}

// eligibleForNextHand returns the seat-ordered players who can be dealt
// in. A pending rematch restricts the hand to its participants.
func (g *Game) eligibleForNextHand() []int64 {
	eligible := make([]int64, 0, len(g.seatOrder))
	for _, id := range g.seatOrder {
		p := g.participants[id]
		if p.left || p.balance < g.options.BaseBet {
			continue
		}

		if len(g.rematchPlayerIDs) > 0 && !g.rematchPlayerIDs[id] {
			continue
		}

		eligible = append(eligible, id)
	}

	return eligible
}

// setReady marks the player ready for the next hand and deals once every
// eligible player is ready
func (g *Game) setReady(playerID int64) error {
	if g.phase != PhaseWaiting && g.phase != PhaseResult {
		return ErrNotReadyPhase
	}

	p, ok := g.participants[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	p.ready = true
	g.sendLogMessages(newLogMessage(playerID, "{} is ready"))

	eligible := g.eligibleForNextHand()
	for _, id := range eligible {
		if !g.participants[id].ready {
			return nil
		}
	}

	return g.startHand(eligible)
}

// leave folds the player out of a live hand and excludes them from
// future ones. Their chips stay on the books for the final accounting.
func (g *Game) leave(playerID int64) error {
	p, ok := g.participants[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	p.left = true

	if g.phase == PhasePlaying && !p.folded && contains(g.turnOrder, playerID) {
		wasTurn := g.currentTurn() == p
		p.folded = true
		p.lastAction = action.Die
		g.sendLogMessages(newLogMessage(playerID, "{} left the table and died"))

		if active := g.activeParticipants(); len(active) == 1 {
			g.settleSoloWin(active[0])
			return nil
		}

		if wasTurn {
			g.advanceTurn()
		}

		return nil
	}

	p.sitOut()
	return nil
}

// firstPlayerID picks who leads the hand: the last bettor on a rematch,
// otherwise the last winner, otherwise the host
func (g *Game) firstPlayerID(eligible []int64, isRematch bool) int64 {
	contains := func(id int64) bool {
		for _, e := range eligible {
			if e == id {
				return true
			}
		}
		return false
	}

	if isRematch && g.lastBettorID != 0 && contains(g.lastBettorID) {
		return g.lastBettorID
	}

	if g.lastWinnerID != 0 && contains(g.lastWinnerID) {
		return g.lastWinnerID
	}

	if contains(g.hostID) {
		return g.hostID
	}

	return eligible[0]
}

func (g *Game) startHand(eligible []int64) error {
	if len(eligible) < 2 {
		return ErrInvalidPlayerCount
	}

	isRematch := g.accumulatedPot > 0
	first := g.firstPlayerID(eligible, isRematch)

	// rotate the seat-ordered eligible list so the first player leads
	firstIndex := 0
	for i, id := range eligible {
		if id == first {
			firstIndex = i
			break
		}
	}

	turnOrder := make([]int64, 0, len(eligible))
	for i := range eligible {
		turnOrder = append(turnOrder, eligible[(firstIndex+i)%len(eligible)])
	}

	d := deck.New()
	d.Shuffle()

	hands, err := d.Deal(len(turnOrder))
	if err != nil {
		return err
	}

	pot := g.accumulatedPot
	for i, id := range turnOrder {
		p := g.participants[id]
		p.newHand(hands[i], g.options.BaseBet)
		pot += p.totalBet
	}

	for _, id := range g.seatOrder {
		if p := g.participants[id]; !contains(turnOrder, id) {
			p.sitOut()
		}
	}

	g.turnOrder = turnOrder
	g.turnIndex = 0
	g.roundCount = 0
	g.pot = pot
	g.accumulatedPot = 0
	g.isRematch = isRematch
	g.rematchPlayerIDs = nil
	g.revealed = false
	g.lastSettlement = nil
	g.phase = PhasePlaying
	g.pendingBotReady = make(map[int64]time.Time)

	if isRematch {
		g.sendLogMessages(newLogMessage(0, "Rematch hand dealt; the pot carries over at ${%d}", pot))
	} else {
		g.sendLogMessages(newLogMessage(0, "New hand dealt with a pot of ${%d}", pot))
	}

	g.scheduleBotAction()

	return nil
}

// betAmount computes the stake for the action. The caller has already
// validated legality; amounts are capped at the balance by stake().
func (g *Game) betAmount(p *Participant, act action.Action, callCost int) int {
	switch act {
	case action.Pping:
		amount := g.options.BaseBet
		if p.balance < amount {
			amount = p.balance
		}
		return amount
	case action.Half:
		if amount := g.pot / 2; amount > g.options.BaseBet {
			return amount
		}
		return g.options.BaseBet
	case action.Quarter:
		if amount := g.pot / 4; amount > g.options.BaseBet {
			return amount
		}
		return g.options.BaseBet
	case action.Call:
		return callCost
	case action.Ddadang:
		amount := 3 * callCost
		if p.balance < amount {
			amount = p.balance
		}
		return amount
	}

	return 0
}

// placeBet validates and applies a betting action for the player.
// Nothing is mutated until every precondition has passed.
func (g *Game) placeBet(playerID int64, act action.Action) error {
	if g.phase != PhasePlaying {
		return ErrNotBettingPhase
	}

	p, ok := g.participants[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	if p.folded {
		return ErrPlayerFolded
	}

	turn := g.currentTurn()
	if turn == nil || turn.PlayerID != playerID {
		return ErrNotPlayersTurn
	}

	callCost := g.maxBet() - p.totalBet
	if callCost < 0 {
		callCost = 0
	}

	switch act {
	case action.Check:
		if callCost > 0 {
			return ErrCheckWithOutstandingBet
		}
	case action.Pping:
		if playerID != g.turnOrder[0] {
			return ErrPpingNotFirst
		}
		if g.maxBet() > p.totalBet {
			return ErrPpingWithOutstandingBet
		}
	case action.Ddadang:
		if callCost == 0 {
			return ErrDdadangWithoutBet
		}
	}

	if act == action.Die {
		p.folded = true
		p.lastAction = act
		g.sendLogMessages(newLogMessage(playerID, "{} %s", act.LogMessage(0)))

		if active := g.activeParticipants(); len(active) == 1 {
			g.settleSoloWin(active[0])
			return nil
		}

		g.advanceTurn()
		return nil
	}

	staked := p.stake(g.betAmount(p, act, callCost))
	g.pot += staked
	p.lastAction = act

	if act != action.Check {
		g.lastBettorID = playerID
	}

	if p.isBot && act.IsRaise() {
		p.raiseCount++
	}

	g.sendLogMessages(newLogMessage(playerID, "{} %s", act.LogMessage(staked)))

	g.advanceTurn()
	return nil
}

// advanceTurn moves the action to the next eligible player, or to the
// showdown once the betting round has settled
func (g *Game) advanceTurn() {
	maxBet := g.maxBet()

	// players still owing action: active, not all-in, short of the max bet
	needToAct := 0
	for _, p := range g.activeParticipants() {
		if !p.IsAllIn() && p.totalBet < maxBet {
			needToAct++
		}
	}

	if needToAct == 0 && maxBet > g.options.BaseBet {
		g.showdown()
		return
	}

	n := len(g.turnOrder)
	for offset := 1; offset <= n; offset++ {
		idx := (g.turnIndex + offset) % n
		p := g.participants[g.turnOrder[idx]]
		if p.folded || p.IsAllIn() {
			continue
		}

		if idx <= g.turnIndex {
			// the action wrapped around the table
			g.roundCount++

			if needToAct == 0 {
				g.showdown()
				return
			}
		}

		g.turnIndex = idx
		g.scheduleBotAction()
		return
	}

	// nobody can act
	g.showdown()
}

// showdown reveals the active hands and resolves the winner or a rematch
func (g *Game) showdown() {
	active := g.activeParticipants()
	g.revealed = true

	hands := make([]handrank.PlayerHand, len(active))
	for i, p := range active {
		hands[i] = handrank.PlayerHand{
			PlayerID: p.PlayerID,
			Result:   handrank.EvaluateHand(p.hand),
		}
	}

	res := handrank.Resolve(hands)

	for _, ph := range res.FinalResults {
		p := g.participants[ph.PlayerID]
		p.handName = ph.Result.Name
		p.handRank = ph.Result.Rank
	}

	if res.IsRematch {
		g.startRematch(res.RematchPlayerIDs)
		return
	}

	g.settle(g.participants[res.WinnerID], false)
}

// startRematch carries the pot into the next hand and sends the table
// back to the ready-up phase
func (g *Game) startRematch(playerIDs []int64) {
	g.accumulatedPot += g.pot
	g.pot = 0

	g.rematchPlayerIDs = make(map[int64]bool, len(playerIDs))
	for _, id := range playerIDs {
		g.rematchPlayerIDs[id] = true
	}

	g.lastSettlement = g.buildSettlement(0, 0, false)
	g.handsPlayed++

	g.sendLogMessages(newLogMessage(0, "Rematch! The pot of ${%d} carries over", g.accumulatedPot))

	if g.checkSolvency() {
		return
	}

	g.phase = PhaseWaiting
	g.scheduleBotReadies()
}

// checkSolvency ends the game when fewer than two players can ante the
// next hand. Returns true if the game ended.
func (g *Game) checkSolvency() bool {
	eligible := g.eligibleForNextHand()
	if len(eligible) >= 2 {
		return false
	}

	g.endReason = endReasonSoloSurvivor
	if len(eligible) == 0 {
		g.endReason = endReasonBankruptcy
	}

	g.phase = PhaseEnded
	g.sendLogMessages(newLogMessage(0, "The game is over (%s)", g.endReason))

	return true
}

// settleSoloWin pays out the pot when everyone else has died
func (g *Game) settleSoloWin(winner *Participant) {
	g.settle(winner, true)
}

func (g *Game) settle(winner *Participant, wonByFold bool) {
	amount := g.pot
	winner.balance += amount
	g.pot = 0

	g.lastWinnerID = winner.PlayerID
	g.lastSettlement = g.buildSettlement(winner.PlayerID, amount, wonByFold)
	g.handsPlayed++
	g.isRematch = false
	g.rematchPlayerIDs = nil

	if wonByFold {
		g.sendLogMessages(newLogMessage(winner.PlayerID, "{} wins ${%d} after everyone else died", amount))
	} else {
		g.sendLogMessages(newLogMessage(winner.PlayerID, "{} wins ${%d} with %s", amount, winner.handName))
	}

	if g.checkSolvency() {
		return
	}

	g.phase = PhaseResult
	g.scheduleBotReadies()
}

func (g *Game) buildSettlement(winnerID int64, amount int, wonByFold bool) *Settlement {
	s := &Settlement{
		WinnerID:  winnerID,
		Amount:    amount,
		WonByFold: wonByFold,
		IsRematch: winnerID == 0,
	}

	if s.IsRematch {
		for id := range g.rematchPlayerIDs {
			s.RematchPlayerIDs = append(s.RematchPlayerIDs, id)
		}
		sort.Slice(s.RematchPlayerIDs, func(i, j int) bool {
			return s.RematchPlayerIDs[i] < s.RematchPlayerIDs[j]
		})
	}

	for _, id := range g.turnOrder {
		p := g.participants[id]
		s.Results = append(s.Results, SettlementResult{
			PlayerID: id,
			HandName: p.handName,
			HandRank: p.handRank,
			Folded:   p.folded,
		})
	}

	return s
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
