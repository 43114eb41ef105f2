package evaluator

import (
	"fmt"
	"sort"

	"github.com/cardroomlabs/holdem-advisor/internal/deck"
)

// Category enumerates hand categories from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is a comparable hand strength: category first, then tiebreak
// ranks in descending significance.
type HandRank struct {
	Category  Category
	Tiebreaks []deck.Rank
}

// String returns e.g. "Full House (A over K)".
func (hr HandRank) String() string {
	return fmt.Sprintf("%s %v", hr.Category, hr.Tiebreaks)
}

// Compare returns >0 if a beats b, <0 if b beats a, and 0 on an exact tie.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Tiebreaks)
	if len(b.Tiebreaks) < n {
		n = len(b.Tiebreaks)
	}
	for i := 0; i < n; i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			return int(a.Tiebreaks[i]) - int(b.Tiebreaks[i])
		}
	}
	return 0
}

// Evaluate7 returns the best five-card rank among all 21 five-card subsets
// of the given seven cards.
func Evaluate7(cards []deck.Card) HandRank {
	if len(cards) != 7 {
		panic(fmt.Sprintf("evaluator: Evaluate7 needs 7 cards, got %d", len(cards)))
	}

	var best HandRank
	first := true
	var five [5]deck.Card
	// Drop two indices i<j; the remaining five form one subset.
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			k := 0
			for m := 0; m < 7; m++ {
				if m == i || m == j {
					continue
				}
				five[k] = cards[m]
				k++
			}
			rank := Evaluate5(five[:])
			if first || Compare(rank, best) > 0 {
				best = rank
				first = false
			}
		}
	}
	return best
}

// Evaluate5 scores exactly five cards.
func Evaluate5(cards []deck.Card) HandRank {
	if len(cards) != 5 {
		panic(fmt.Sprintf("evaluator: Evaluate5 needs 5 cards, got %d", len(cards)))
	}

	ranks := make([]deck.Rank, 5)
	flush := true
	for i, c := range cards {
		ranks[i] = c.Rank
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	straightHigh, isStraight := straightHighCard(ranks)

	switch {
	case flush && isStraight:
		return HandRank{Category: StraightFlush, Tiebreaks: []deck.Rank{straightHigh}}
	case flush:
		return HandRank{Category: Flush, Tiebreaks: ranks}
	case isStraight:
		return HandRank{Category: Straight, Tiebreaks: []deck.Rank{straightHigh}}
	}

	return groupRank(ranks)
}

// straightHighCard reports whether the descending ranks form a straight and
// returns its high card. The wheel (A-5-4-3-2) is the lowest straight with
// high card five.
func straightHighCard(desc []deck.Rank) (deck.Rank, bool) {
	run := true
	for i := 1; i < 5; i++ {
		if desc[i-1]-desc[i] != 1 {
			run = false
			break
		}
	}
	if run {
		return desc[0], true
	}
	if desc[0] == deck.Ace && desc[1] == deck.Five && desc[2] == deck.Four &&
		desc[3] == deck.Three && desc[4] == deck.Two {
		return deck.Five, true
	}
	return 0, false
}

// groupRank classifies pair-based hands from descending ranks.
func groupRank(desc []deck.Rank) HandRank {
	counts := make(map[deck.Rank]int)
	for _, r := range desc {
		counts[r]++
	}

	// Group ranks ordered by count desc, then rank desc, so tiebreaks fall
	// out in significance order (e.g. trips rank before kickers).
	grouped := make([]deck.Rank, 0, len(counts))
	for r := range counts {
		grouped = append(grouped, r)
	}
	sort.Slice(grouped, func(i, j int) bool {
		if counts[grouped[i]] != counts[grouped[j]] {
			return counts[grouped[i]] > counts[grouped[j]]
		}
		return grouped[i] > grouped[j]
	})

	tiebreaks := make([]deck.Rank, 0, 5)
	for _, r := range grouped {
		tiebreaks = append(tiebreaks, r)
	}

	switch {
	case counts[grouped[0]] == 4:
		return HandRank{Category: FourOfAKind, Tiebreaks: tiebreaks}
	case counts[grouped[0]] == 3 && counts[grouped[1]] == 2:
		return HandRank{Category: FullHouse, Tiebreaks: tiebreaks}
	case counts[grouped[0]] == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreaks: tiebreaks}
	case counts[grouped[0]] == 2 && counts[grouped[1]] == 2:
		return HandRank{Category: TwoPair, Tiebreaks: tiebreaks}
	case counts[grouped[0]] == 2:
		return HandRank{Category: Pair, Tiebreaks: tiebreaks}
	default:
		return HandRank{Category: HighCard, Tiebreaks: tiebreaks}
	}
}
