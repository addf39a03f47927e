package sutda

import (
	"sutda-server/pkg/deck"
	"sutda-server/pkg/playable/sutda/action"
	"sutda-server/pkg/playable/sutda/handrank"
)

// Participant represents an individual player at a sutda table
type Participant struct {
	PlayerID int64

	balance  int
	hand     deck.Hand
	totalBet int
	folded   bool
	ready    bool
	isBot    bool
	left     bool

	// raiseCount counts raise-type actions this hand; only consulted for bots
	raiseCount int
	lastAction action.Action

	// recorded at showdown for display
	handName string
	handRank int
}

type participantJSON struct {
	PlayerID int64         `json:"playerId"`
	Balance  int           `json:"balance"`
	TotalBet int           `json:"totalBet"`
	Folded   bool          `json:"folded"`
	Ready    bool          `json:"ready"`
	IsBot    bool          `json:"isBot"`
	Cards    deck.Hand     `json:"cards"`
	HandName string        `json:"handName,omitempty"`
	HandRank int           `json:"handRank,omitempty"`
	LastAct  action.Action `json:"lastAction,omitempty"`
}

func newParticipant(id int64, balance int, isBot bool) *Participant {
	return &Participant{
		PlayerID: id,
		balance:  balance,
		isBot:    isBot,
		// bots are always ready for the next hand
		ready: isBot,
	}
}

// Balance returns the participant's remaining table stake
func (p *Participant) Balance() int {
	return p.balance
}

// IsAllIn returns true once the participant has no balance left to bet.
// An all-in player is skipped for betting but stays in the showdown.
func (p *Participant) IsAllIn() bool {
	return p.balance == 0
}

// stake moves up to amount from the balance into the pot and returns
// what was actually staked
func (p *Participant) stake(amount int) int {
	if amount > p.balance {
		amount = p.balance
	}

	p.totalBet += amount
	p.balance -= amount

	return amount
}

// newHand resets the participant for a freshly dealt hand
func (p *Participant) newHand(hand deck.Hand, ante int) {
	p.hand = hand
	p.totalBet = 0
	p.folded = false
	p.ready = false
	p.raiseCount = 0
	p.lastAction = ""
	p.handName = ""
	p.handRank = 0
	p.stake(ante)
}

// sitOut folds the participant for the duration of the hand
func (p *Participant) sitOut() {
	p.hand = nil
	p.totalBet = 0
	p.folded = true
	p.ready = false
	p.lastAction = ""
	p.handName = ""
	p.handRank = 0
}

// participantJSON shapes the participant for a viewer. Hands stay hidden
// from other players until the hand concludes; a player always sees their
// own cards and, mid-hand, their own interim hand name.
func (p *Participant) participantJSON(viewerID int64, revealed bool) *participantJSON {
	pj := &participantJSON{
		PlayerID: p.PlayerID,
		Balance:  p.balance,
		TotalBet: p.totalBet,
		Folded:   p.folded,
		Ready:    p.ready,
		IsBot:    p.isBot,
		HandName: p.handName,
		HandRank: p.handRank,
		LastAct:  p.lastAction,
	}

	if revealed || p.PlayerID == viewerID {
		pj.Cards = p.hand

		if pj.HandName == "" && len(p.hand) == 2 {
			result := handrank.EvaluateHand(p.hand)
			pj.HandName = result.Name
			pj.HandRank = result.Rank
		}
	}

	return pj
}
