// Package handid derives stable numeric hand identifiers.
//
// Identifiers are a pure function of the dealer id and the hand's start time,
// so converting the same log twice yields the same hand numbers.
package handid

import (
	"crypto/md5"
	"encoding/binary"
	"strconv"
	"strings"
	"time"
)

// DeadButton stands in for the dealer id on hands played without a dealer.
const DeadButton = "deadbutton"

// Derive returns the identifier for a hand dealt by dealerID at the given time.
// An empty dealerID is treated as a dead button.
func Derive(dealerID string, at time.Time) uint64 {
	if dealerID == "" {
		dealerID = DeadButton
	}
	return Hash(dealerID + "-" + timestamp(at))
}

// Hash folds the four little-endian words of the MD5 digest of key into a
// single integer, shifting four bits per word.
func Hash(key string) uint64 {
	sum := md5.Sum([]byte(key))
	var id uint64
	for i := 0; i < len(sum); i += 4 {
		id = id<<4 + uint64(binary.LittleEndian.Uint32(sum[i:i+4]))
	}
	return id
}

// timestamp renders fractional Unix seconds, always with a decimal point
// ("1594731595.0", "1594731595.123").
func timestamp(at time.Time) string {
	secs := float64(at.UnixMilli()) / 1000
	s := strconv.FormatFloat(secs, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
