package view

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatProbability renders p (0..1) as a percentage with one decimal.
func FormatProbability(p float64) string {
	return toFixed(p*100, 1) + "%"
}

// FormatScore renders an internal score with two decimals.
func FormatScore(score float64) string {
	return toFixed(score, 2)
}

// FormatWeight renders an evidence weight with two decimals.
func FormatWeight(weight float64) string {
	return toFixed(weight, 2)
}

// toFixed rounds the exact binary value of x to digits decimals, resolving
// ties away from zero. strconv rounds ties to even, which would print 0.125 as
// "0.12" where the product has always shown "0.13".
func toFixed(x float64, digits int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', digits, 64)
	}

	scaled := new(big.Rat).SetFloat64(math.Abs(x))
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	scaled.Mul(scaled, new(big.Rat).SetInt(pow))
	scaled.Add(scaled, big.NewRat(1, 2))
	rounded := new(big.Int).Quo(scaled.Num(), scaled.Denom())

	text := rounded.String()
	if digits > 0 {
		if len(text) <= digits {
			text = strings.Repeat("0", digits-len(text)+1) + text
		}
		text = text[:len(text)-digits] + "." + text[len(text)-digits:]
	}
	if x < 0 {
		text = "-" + text
	}
	return text
}
