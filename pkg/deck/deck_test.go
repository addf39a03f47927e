package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	d := New()
	assert.Equal(t, 40, len(d.Cards))

	// two cards per (month, slot) combination, disambiguated by id
	byID := make(map[string]bool)
	byMonthSlot := make(map[string]int)
	kwangs := 0
	for _, c := range d.Cards {
		assert.False(t, byID[c.ID], "duplicate id %s", c.ID)
		byID[c.ID] = true
		byMonthSlot[CardToString(c)]++

		if c.IsKwang {
			kwangs++
		}
	}

	assert.Equal(t, 20, len(byMonthSlot))
	for key, count := range byMonthSlot {
		assert.Equal(t, 2, count, "expected two copies of %s", key)
	}

	// one kwang per set for months 1, 3, 8
	assert.Equal(t, 6, kwangs)
}

func TestDeck_Shuffle(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()
	assert.Equal(t, 40, len(d.Cards))

	d2 := New()
	d2.SetSeed(1)
	d2.Shuffle()

	for i, c := range d.Cards {
		assert.True(t, c.SameCard(d2.Cards[i]))
	}
}

func TestDeck_Draw(t *testing.T) {
	d := New()
	for i := 0; i < 40; i++ {
		card, err := d.Draw()
		assert.NoError(t, err)
		assert.NotNil(t, card)
	}

	card, err := d.Draw()
	assert.Equal(t, ErrEndOfDeck, err)
	assert.Nil(t, card)
}

func TestDeck_Deal(t *testing.T) {
	d := New()
	d.SetSeed(42)
	d.Shuffle()

	hands, err := d.Deal(4)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(hands))

	seen := make(map[string]bool)
	for _, hand := range hands {
		assert.Equal(t, 2, len(hand))
		for _, c := range hand {
			assert.False(t, seen[c.ID])
			seen[c.ID] = true
		}
	}

	// undealt cards remain for the caller to discard
	assert.Equal(t, 32, d.CardsLeft())
}

func TestDeck_Deal_InvalidPlayerCount(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 11} {
		d := New()
		d.Shuffle()

		hands, err := d.Deal(n)
		assert.Equal(t, ErrInvalidPlayerCount, err)
		assert.Nil(t, hands)
	}

	// 10 players consumes half the deck
	d := New()
	d.Shuffle()
	hands, err := d.Deal(10)
	assert.NoError(t, err)
	assert.Equal(t, 10, len(hands))
	assert.Equal(t, 20, d.CardsLeft())
}
