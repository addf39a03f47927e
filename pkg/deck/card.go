package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Slot identifies which of a month's two cards this is.
// Each month has exactly one kwang-slot and one plain-slot card per set.
type Slot string

// slot constants
const (
	SlotKwang Slot = "kwang"
	SlotPlain Slot = "plain"
)

// kwangMonths are the months whose kwang-slot card is an actual kwang
var kwangMonths = map[int]bool{
	1: true,
	3: true,
	8: true,
}

// Card is an individual hwatu card
type Card struct {
	Month   int    `json:"month"`
	Slot    Slot   `json:"slot"`
	IsKwang bool   `json:"isKwang"`
	ID      string `json:"id"`
}

func newCard(month int, slot Slot, set string) *Card {
	short := "p"
	if slot == SlotKwang {
		short = "k"
	}

	return &Card{
		Month:   month,
		Slot:    slot,
		IsKwang: slot == SlotKwang && kwangMonths[month],
		ID:      fmt.Sprintf("%d%s-%s", month, short, set),
	}
}

func (c *Card) String() string {
	if c.IsKwang {
		return fmt.Sprintf("%d-kwang", c.Month)
	}

	return fmt.Sprintf("%d-%s", c.Month, c.Slot)
}

// Equal returns true if the cards are the same month and slot.
// Cards from different sets are equal; use SameCard to compare identity.
func (c *Card) Equal(card *Card) bool {
	return c.Month == card.Month && c.Slot == card.Slot
}

// SameCard returns true if the two cards are the same physical card
func (c *Card) SameCard(card *Card) bool {
	return c.ID == card.ID
}

var cardRx = regexp.MustCompile(`(?i)^([1-9]|10)([kp])([ab])?\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <month><slot>[<set>] where month is 1-10,
// slot is "k" (kwang-slot) or "p" (plain-slot), and set is an optional "a" or "b"
// (defaults to "a"). For example, "3k" is the March kwang from the first set.
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	month, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	slot := SlotPlain
	if strings.ToLower(match[2]) == "k" {
		slot = SlotKwang
	}

	set := strings.ToLower(match[3])
	if set == "" {
		set = "a"
	}

	return newCard(month, slot, set)
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card to its compact form without the set suffix (3k-a becomes 3k)
func CardToString(card *Card) string {
	if card == nil {
		return ""
	}

	short := "p"
	if card.Slot == SlotKwang {
		short = "k"
	}

	return fmt.Sprintf("%d%s", card.Month, short)
}

// CardsToString will convert a slice of cards to a string in the format of 3k,7p,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
