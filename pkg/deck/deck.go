package deck

import (
	"errors"
	"math/rand"
	"sutda-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// ErrInvalidPlayerCount is an error when Deal() is attempted with a bad player count
var ErrInvalidPlayerCount = errors.New("player count must be between 2 and 10")

// numCards is two full 20-card sets
const numCards = 40

// Deck represents the 40-card sutda deck
type Deck struct {
	Cards []*Card `json:"cards"`
	rng   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		rng: rng.Crypto{},
	}

	d.buildDeck()
	return d
}

// SetSeed swaps the random source for a deterministic one
// This should only be used by tests
func (d *Deck) SetSeed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed)) // nolint:gosec
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, numCards)
	for _, set := range []string{"a", "b"} {
		for month := 1; month <= 10; month++ {
			cards = append(cards, newCard(month, SlotKwang, set))
			cards = append(cards, newCard(month, SlotPlain, set))
		}
	}

	d.Cards = cards
}

// Shuffle will shuffle the deck of cards using a Fisher-Yates permutation
func (d *Deck) Shuffle() {
	// always shuffle from a freshly built deck
	if len(d.Cards) != numCards {
		d.buildDeck()
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// Deal consumes two cards per player off the front of the deck in turn order
// and returns the hands. The undealt cards stay in the deck; sutda has no draw
// phase, so callers simply discard them.
func (d *Deck) Deal(players int) ([]Hand, error) {
	if players < 2 || players > 10 {
		return nil, ErrInvalidPlayerCount
	}

	hands := make([]Hand, players)
	for p := 0; p < players; p++ {
		for i := 0; i < 2; i++ {
			card, err := d.Draw()
			if err != nil {
				return nil, err
			}

			hands[p] = append(hands[p], card)
		}
	}

	return hands, nil
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
