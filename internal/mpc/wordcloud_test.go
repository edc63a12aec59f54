package mpc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleWordsLinear(t *testing.T) {
	cloud := ScaleWords([]WordFrequency{
		{Word: "inflation", Frequency: 100},
		{Word: "growth", Frequency: 55},
		{Word: "liquidity", Frequency: 10},
	})
	require.Len(t, cloud, 3)
	assert.Equal(t, MaxFontSize, cloud[0].FontSize)
	assert.Equal(t, 30.0, cloud[1].FontSize)
	assert.Equal(t, MinFontSize, cloud[2].FontSize)
	assert.Equal(t, CloudPalette[1], cloud[1].Color)
}

func TestScaleWordsEqualFrequenciesUseFallback(t *testing.T) {
	cloud := ScaleWords([]WordFrequency{
		{Word: "rate", Frequency: 7},
		{Word: "policy", Frequency: 7},
		{Word: "repo", Frequency: 7},
	})
	for _, w := range cloud {
		assert.Equal(t, FallbackFontSize, w.FontSize, w.Word)
	}
}

func TestScaleWordsUnsortedInput(t *testing.T) {
	cloud := ScaleWords([]WordFrequency{
		{Word: "b", Frequency: 5},
		{Word: "a", Frequency: 20},
		{Word: "c", Frequency: 0},
	})
	assert.Equal(t, MaxFontSize, cloud[1].FontSize)
	assert.Equal(t, MinFontSize, cloud[2].FontSize)
}

func TestScaleWordsLimit(t *testing.T) {
	words := make([]WordFrequency, 0, 80)
	for i := 80; i > 0; i-- {
		words = append(words, WordFrequency{Word: fmt.Sprintf("w%d", i), Frequency: i})
	}
	cloud := ScaleWords(words)
	assert.Len(t, cloud, CloudWordLimit)
	assert.Nil(t, ScaleWords(nil))
}

func TestTopWords(t *testing.T) {
	words := []WordFrequency{{Word: "a", Frequency: 9}, {Word: "b", Frequency: 8}}
	assert.Equal(t, []string{"a", "b"}, TopWords(words, TrendWordLimit))
	assert.Equal(t, []string{"a"}, TopWords(words, 1))
}

func TestJoinMonthlyMissingWordStaysAbsent(t *testing.T) {
	months := []MonthlyWords{
		{Month: 1, MonthName: "January", Words: map[string]int{"inflation": 4, "growth": 2}},
		{Month: 2, MonthName: "February", Words: map[string]int{"inflation": 6}},
	}
	joined := JoinMonthly(months, []string{"inflation", "growth"})
	require.Len(t, joined, 2)

	feb := joined[1]
	assert.Equal(t, "Feb", feb.Label)
	assert.Equal(t, "February", feb.FullLabel)
	assert.Equal(t, TrendCell{Value: 6, Present: true}, feb.Cells["inflation"])
	assert.Equal(t, TrendCell{Value: 0, Present: false}, feb.Cells["growth"])

	assert.Equal(t, []float64{2, 0}, Series(joined, "growth"))
}

func TestShortMonth(t *testing.T) {
	assert.Equal(t, "Sep", shortMonth("September"))
	assert.Equal(t, "May", shortMonth("May"))
	assert.Equal(t, "", shortMonth(""))
}
