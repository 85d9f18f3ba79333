package phh

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	// Use tabs for arrays to match human expectations
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// WriteHand writes one numbered section of a .phhs session.
func WriteHand(w io.Writer, section int, hand *HandHistory) error {
	if _, err := fmt.Fprintf(w, "[%d]\n", section); err != nil {
		return err
	}
	if err := Encode(w, hand); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteSession writes hands as consecutive sections numbered from 1.
func WriteSession(w io.Writer, hands []*HandHistory) error {
	for i, hand := range hands {
		if err := WriteHand(w, i+1, hand); err != nil {
			return fmt.Errorf("phh: section %d: %w", i+1, err)
		}
	}
	return nil
}
