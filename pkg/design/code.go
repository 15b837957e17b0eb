package design

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// StripID computes the canonical geometry identity of a strip from its
// trimmed length and notch pattern. A physical strip can be fed into the
// saw from either end and can be turned over, so the identity is the
// lexicographically smallest of the four equivalent encodings: forward,
// reversed, and both again with top and bottom faces swapped. Re-drawing
// the same physical line in the opposite direction, or with the opposite
// over/under choices, yields an identical id.
func StripID(lengthMM float64, notches []Notch) string {
	candidates := []string{
		encodeStrip(lengthMM, notches, false, false),
		encodeStrip(lengthMM, notches, true, false),
		encodeStrip(lengthMM, notches, false, true),
		encodeStrip(lengthMM, notches, true, true),
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c < best {
			best = c
		}
	}
	return "strip:" + best
}

// ConfigKey groups strips that are manufacturing-identical when face
// orientation is ignored (same length, same notch spacing from either end).
// The strip bank uses this to stack interchangeable pieces together.
func ConfigKey(s Strip) string {
	fwd := encodePositions(s.LengthMM, s.Notches, false)
	rev := encodePositions(s.LengthMM, s.Notches, true)
	if rev < fwd {
		fwd = rev
	}
	return "cfg:" + fwd
}

// encodeStrip renders one orientation of the notch pattern. Distances are
// rounded to 0.01 mm so float noise cannot split identities.
func encodeStrip(lengthMM float64, notches []Notch, reversed, flipped bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "L%.2f", lengthMM)
	for i := range notches {
		n := notches[i]
		if reversed {
			n = notches[len(notches)-1-i]
			n.DistMM = lengthMM - n.DistMM
		}
		face := "B"
		if n.FromTop != flipped {
			face = "T"
		}
		fmt.Fprintf(&b, "|%.2f%s", n.DistMM, face)
	}
	return b.String()
}

func encodePositions(lengthMM float64, notches []Notch, reversed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "L%.2f", lengthMM)
	for i := range notches {
		n := notches[i]
		if reversed {
			n = notches[len(notches)-1-i]
			n.DistMM = lengthMM - n.DistMM
		}
		fmt.Fprintf(&b, "|%.2f", n.DistMM)
	}
	return b.String()
}

// displayAlphabet is the fixed base-36 alphabet display codes are drawn
// from.
const displayAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// displayCodeLen is the number of alphabet characters in a display code.
const displayCodeLen = 4

// DisplayCode reduces a strip identity to a short, stable label. The same
// geometry always maps to the same code, so users see consistent labels
// across sessions and exports.
func DisplayCode(stripID string) string {
	h := fnv.New32a()
	h.Write([]byte(stripID))
	v := h.Sum32()

	code := make([]byte, displayCodeLen)
	for i := displayCodeLen - 1; i >= 0; i-- {
		code[i] = displayAlphabet[v%uint32(len(displayAlphabet))]
		v /= uint32(len(displayAlphabet))
	}
	return string(code)
}
