package phh

import "github.com/lox/pn2ps/internal/card"

const unknownHole = "????"

// holeCards renders dealt cards, or ???? when they were not seen.
func holeCards(cards []card.Card) string {
	if len(cards) < 2 {
		return unknownHole
	}
	for _, c := range cards {
		if !c.Valid() {
			return unknownHole
		}
	}
	return card.Concat(cards)
}

// boardCards renders a street's cards, skipping undecodable ones.
func boardCards(cards []card.Card) string {
	valid := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if c.Valid() {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	return card.Concat(valid)
}
