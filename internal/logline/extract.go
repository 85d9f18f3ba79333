package logline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lox/pn2ps/internal/card"
)

// Identity separators. Logs written before mid 2020 used " # " between a
// dealer's name and id.
const (
	IDSeparator       = " @ "
	LegacyIDSeparator = " # "
)

// Start is a parsed "-- starting hand" line.
type Start struct {
	Number     int
	DeadButton bool
	DealerName string
	DealerID   string
}

// ParseHandStart extracts the hand number and dealer from a hand-start line.
//
//	-- starting hand #12 (id: x1y2) No Limit Texas Hold'em (dealer: "Alice @ p1") --
func ParseHandStart(line string) Start {
	var s Start
	s.Number = leadingInt(strings.TrimPrefix(strings.TrimPrefix(line, handStartPrefix), "#"))

	if strings.Contains(line, "dead button") {
		s.DeadButton = true
		return s
	}

	const dealerOpen = ` (dealer: "`
	idx := strings.LastIndex(line, dealerOpen)
	if idx < 0 {
		return s
	}
	dealer := line[idx+len(dealerOpen):]
	dealer = strings.TrimSuffix(strings.TrimSpace(dealer), "--")
	dealer = strings.TrimSuffix(strings.TrimSpace(dealer), ")")
	dealer = strings.TrimSuffix(dealer, `"`)

	sep := IDSeparator
	if !strings.Contains(dealer, IDSeparator) && strings.Contains(dealer, LegacyIDSeparator) {
		sep = LegacyIDSeparator
	}
	s.DealerName, s.DealerID = splitIdentity(dealer, sep)
	return s
}

// ParseHandEnd returns the hand number from "-- ending hand #12 --".
func ParseHandEnd(line string) int {
	return leadingInt(strings.TrimPrefix(strings.TrimPrefix(line, handEndPrefix), "#"))
}

// StackEntry is one "#<seat> "<name> @ <id>" (<stack>)" tuple.
type StackEntry struct {
	Seat  int
	Name  string
	ID    string
	Stack decimal.Decimal
}

// ParseStacks extracts every seat tuple from a "Player stacks:" line. A tuple
// without a parseable seat number is an error.
func ParseStacks(line string) ([]StackEntry, error) {
	body := strings.TrimPrefix(line, stacksPrefix)
	body = strings.TrimSpace(strings.TrimPrefix(body, ":"))
	if body == "" {
		return nil, nil
	}

	parts := strings.Split(body, " | ")
	entries := make([]StackEntry, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		seatToken, rest, _ := strings.Cut(part, " ")
		if !strings.HasPrefix(seatToken, "#") {
			return nil, fmt.Errorf("missing seat number in %q", part)
		}
		seat, err := strconv.Atoi(strings.TrimPrefix(seatToken, "#"))
		if err != nil {
			return nil, fmt.Errorf("invalid seat number in %q: %w", part, err)
		}

		var entry StackEntry
		entry.Seat = seat
		identity := rest
		if i := strings.LastIndex(rest, `" (`); i >= 0 {
			identity = rest[:i]
			entry.Stack = ParseAmount(strings.TrimSuffix(rest[i+3:], ")"))
		}
		identity = strings.Trim(identity, `"`)
		entry.Name, entry.ID = splitIdentity(identity, IDSeparator)
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseHoleCards decodes "Your hand is 10♥, A♠".
func ParseHoleCards(line string) []card.Card {
	return card.DecodeAll(splitCards(strings.TrimPrefix(line, holeCardsPrefix)))
}

// ParseBoard decodes the cards in the last bracketed group of a street line,
// so "Turn: A♠, K♥, 2♣ [5♦]" yields only the turn card.
func ParseBoard(line string) []card.Card {
	open := strings.LastIndex(line, "[")
	if open < 0 {
		return nil
	}
	rest := line[open+1:]
	if end := strings.Index(rest, "]"); end >= 0 {
		rest = rest[:end]
	}
	return card.DecodeAll(splitCards(rest))
}

// Uncalled is a parsed "Uncalled bet of <n> returned to "<name> @ <id>"" line.
type Uncalled struct {
	Amount     decimal.Decimal
	PlayerName string
	PlayerID   string
}

// ParseUncalledBet extracts the returned amount and its owner.
func ParseUncalledBet(line string) Uncalled {
	var u Uncalled
	amount, owner, _ := strings.Cut(line, " returned to")
	amount = strings.TrimPrefix(amount, uncalledBetPrefix)
	amount = strings.TrimPrefix(strings.TrimSpace(amount), "of ")
	u.Amount = ParseAmount(amount)
	owner = strings.Trim(strings.TrimSpace(owner), `".`)
	u.PlayerName, u.PlayerID = splitIdentity(owner, IDSeparator)
	return u
}

// ParseAmount parses a decimal amount as printed in the log. Anything that
// does not parse is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// splitActor splits `"name @ id" rest` into its parts.
func splitActor(line string) (name, id, rest string, ok bool) {
	if !strings.HasPrefix(line, `"`) {
		return "", "", "", false
	}
	end := strings.Index(line[1:], `" `)
	if end < 0 {
		return "", "", "", false
	}
	identity := line[1 : end+1]
	name, id = splitIdentity(identity, IDSeparator)
	return name, id, line[end+3:], true
}

func splitIdentity(s, sep string) (name, id string) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+len(sep):]
}

func splitCards(s string) []string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
