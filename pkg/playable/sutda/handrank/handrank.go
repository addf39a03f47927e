// Package handrank maps two-card sutda hands to their rank and resolves
// opponent-dependent special hands at showdown.
package handrank

import (
	"fmt"
	"sutda-server/pkg/deck"
)

// SpecialKind identifies an opponent-dependent special hand
type SpecialKind string

// special hand kinds
const (
	// SpecialMungGusa forces a full-table rematch against a jangddaeng or below
	SpecialMungGusa SpecialKind = "mung-gusa"
	// SpecialGusa forces a full-table rematch against an alli or below
	SpecialGusa SpecialKind = "gusa"
	// SpecialAmhaengeosa beats the two highest kwang pairs, else demotes to 1-kkeut
	SpecialAmhaengeosa SpecialKind = "amhaengeosa"
	// SpecialDdangjabi beats any ordinary ddaeng, else demotes to mangtong
	SpecialDdangjabi SpecialKind = "ddangjabi"
)

// load-bearing ranks; the full table lives in Evaluate
const (
	RankMangtong   = 1
	RankSeryuk     = 12
	RankAlli       = 17
	RankJangDdaeng = 27
	Rank13Kwang    = 28
	Rank18Kwang    = 29
	Rank38Kwang    = 30

	// rankGusaProvisional is the display rank a gusa hand carries until resolved
	rankGusaProvisional = 31

	// promotion sentinels sit above every kwang pair
	rankAmhaengeosaWin = 99
	rankDdangjabiWin   = 98
)

// hand names referenced outside the literal tables
const (
	Name38Kwang    = "38-kwangddaeng"
	Name18Kwang    = "18-kwangddaeng"
	Name13Kwang    = "13-kwangddaeng"
	NameJangDdaeng = "jangddaeng"
	NameMangtong   = "mangtong"
)

// SpecialInfo marks a hand whose true rank is not fixed until the
// opponents' hands are known
type SpecialInfo struct {
	Kind SpecialKind `json:"kind"`
	// RematchThreshold triggers a rematch when the best ordinary opposing
	// rank is at or below it (gusa kinds only)
	RematchThreshold int `json:"rematchThreshold,omitempty"`
	// WinsAgainst are opposing hand names this hand beats outright
	WinsAgainst []string `json:"winsAgainst,omitempty"`
	// FallbackRank and FallbackName apply when the condition is not met
	FallbackRank int    `json:"fallbackRank"`
	FallbackName string `json:"fallbackName"`
}

// HandResult is the evaluation of a two-card hand
type HandResult struct {
	Rank    int          `json:"rank"`
	Name    string       `json:"name"`
	Special *SpecialInfo `json:"special,omitempty"`
}

// fixedPair is a rank determined solely by the unordered month pair
type fixedPair struct {
	rank      int
	name      string
	bothKwang bool
}

// fixedPairs must stay literal; the rank values are load-bearing for
// ties and for the bot's exhaustive comparisons
var fixedPairs = map[[2]int]fixedPair{
	{3, 8}:  {rank: Rank38Kwang, name: Name38Kwang, bothKwang: true},
	{1, 8}:  {rank: Rank18Kwang, name: Name18Kwang, bothKwang: true},
	{1, 3}:  {rank: Rank13Kwang, name: Name13Kwang, bothKwang: true},
	{1, 2}:  {rank: RankAlli, name: "alli"},
	{1, 4}:  {rank: 16, name: "doksa"},
	{1, 9}:  {rank: 15, name: "guppi"},
	{1, 10}: {rank: 14, name: "jangppi"},
	{4, 10}: {rank: 13, name: "jangsa"},
	{4, 6}:  {rank: RankSeryuk, name: "seryuk"},
}

var ddangjabiWinsAgainst = []string{
	"1-ddaeng", "2-ddaeng", "3-ddaeng", "4-ddaeng", "5-ddaeng",
	"6-ddaeng", "7-ddaeng", "8-ddaeng", "9-ddaeng",
}

func isPlain(c *deck.Card) bool {
	return c.Slot == deck.SlotPlain
}

// monthCard returns whichever of a, b is the given month, preferring a
func monthCard(a, b *deck.Card, month int) *deck.Card {
	if a.Month == month {
		return a
	}
	if b.Month == month {
		return b
	}
	return nil
}

// Evaluate maps two cards to a ranked hand. The result is independent of
// card order, and every pair of well-formed cards evaluates to either a
// rank in 1..30 or a provisional special hand.
func Evaluate(a, b *deck.Card) HandResult {
	lo, hi := a.Month, b.Month
	if lo > hi {
		lo, hi = hi, lo
	}

	// opponent-dependent specials trump everything else
	if lo == 4 && hi == 9 {
		kind, name := SpecialGusa, "gusa"
		threshold := RankAlli
		if isPlain(a) && isPlain(b) {
			kind, name = SpecialMungGusa, "mung-gusa"
			threshold = RankJangDdaeng
		}

		return HandResult{
			Rank: rankGusaProvisional,
			Name: name,
			Special: &SpecialInfo{
				Kind:             kind,
				RematchThreshold: threshold,
				FallbackRank:     4,
				FallbackName:     "3-kkeut",
			},
		}
	}

	if lo == 4 && hi == 7 && isPlain(a) && isPlain(b) {
		return HandResult{
			Rank: 2,
			Name: "amhaengeosa",
			Special: &SpecialInfo{
				Kind:         SpecialAmhaengeosa,
				WinsAgainst:  []string{Name18Kwang, Name13Kwang},
				FallbackRank: 2,
				FallbackName: "1-kkeut",
			},
		}
	}

	if lo == 3 && hi == 7 {
		c3, c7 := monthCard(a, b, 3), monthCard(a, b, 7)
		if c3.IsKwang && isPlain(c7) {
			return HandResult{
				Rank: RankMangtong,
				Name: "ddangjabi",
				Special: &SpecialInfo{
					Kind:         SpecialDdangjabi,
					WinsAgainst:  ddangjabiWinsAgainst,
					FallbackRank: RankMangtong,
					FallbackName: NameMangtong,
				},
			}
		}
	}

	if fixed, ok := fixedPairs[[2]int{lo, hi}]; ok && fixed.bothKwang {
		if a.IsKwang && b.IsKwang {
			return HandResult{Rank: fixed.rank, Name: fixed.name}
		}
	}

	// ddaeng
	if lo == hi {
		if lo == 10 {
			return HandResult{Rank: RankJangDdaeng, Name: NameJangDdaeng}
		}

		return HandResult{Rank: 17 + lo, Name: fmt.Sprintf("%d-ddaeng", lo)}
	}

	if fixed, ok := fixedPairs[[2]int{lo, hi}]; ok && !fixed.bothKwang {
		return HandResult{Rank: fixed.rank, Name: fixed.name}
	}

	// kkeut / mangtong
	sum := (lo + hi) % 10
	if sum == 0 {
		return HandResult{Rank: RankMangtong, Name: NameMangtong}
	}

	return HandResult{Rank: sum + 1, Name: fmt.Sprintf("%d-kkeut", sum)}
}

// EvaluateHand is a convenience wrapper over Evaluate for a two-card hand
func EvaluateHand(hand deck.Hand) HandResult {
	if len(hand) != 2 {
		panic(fmt.Sprintf("expected a two-card hand, got %d cards", len(hand)))
	}

	return Evaluate(hand[0], hand[1])
}
