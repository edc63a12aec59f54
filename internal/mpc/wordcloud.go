package mpc

import "math"

// Word-cloud sizing and series constants.
const (
	MinFontSize      = 12.0
	MaxFontSize      = 48.0
	FallbackFontSize = 30.0
	CloudWordLimit   = 50
	TrendWordLimit   = 5
)

// CloudPalette colours cloud words in rotation.
var CloudPalette = []string{
	"#2563EB", "#4F46E5", "#9333EA",
	"#16A34A", "#0D9488", "#0891B2",
	"#DC2626", "#DB2777", "#EA580C",
}

// TrendPalette colours the top-word series.
var TrendPalette = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6"}

// WordFrequency is one ranked word.
type WordFrequency struct {
	Word      string `json:"word" validate:"required"`
	Frequency int    `json:"frequency" validate:"gte=0"`
}

// YearWordCloud is the payload of /minutesAnalysis/wordcloud/{year}/.
type YearWordCloud struct {
	Year  int             `json:"year" validate:"required"`
	Words []WordFrequency `json:"words" validate:"dive"`
}

// MonthlyWords is one month of /minutesAnalysis/trends/{year}/.
type MonthlyWords struct {
	Month     int            `json:"month" validate:"gte=1,lte=12"`
	MonthName string         `json:"month_name" validate:"required"`
	Words     map[string]int `json:"words"`
}

// YearTrends is the payload of /minutesAnalysis/trends/{year}/.
type YearTrends struct {
	Year        int            `json:"year" validate:"required"`
	MonthlyData []MonthlyWords `json:"monthly_data" validate:"dive"`
}

// WordStatistics is the payload of /minutesAnalysis/statistics/.
type WordStatistics struct {
	TotalEntries     int    `json:"total_entries"`
	UniqueWords      int    `json:"unique_words"`
	YearsCovered     int    `json:"years_covered"`
	MostFrequentWord string `json:"most_frequent_word"`
	HighestFrequency int    `json:"highest_frequency"`
}

// CloudWord is a word ready to place in the cloud.
type CloudWord struct {
	Word      string
	Frequency int
	FontSize  float64
	Color     string
}

// ScaleWords maps the first CloudWordLimit words onto [MinFontSize,
// MaxFontSize]. min and max come from the whole list, so ordering does not
// affect sizes. Equal frequencies all get FallbackFontSize.
func ScaleWords(words []WordFrequency) []CloudWord {
	if len(words) == 0 {
		return nil
	}
	minFreq, maxFreq := words[0].Frequency, words[0].Frequency
	for _, w := range words[1:] {
		if w.Frequency < minFreq {
			minFreq = w.Frequency
		}
		if w.Frequency > maxFreq {
			maxFreq = w.Frequency
		}
	}
	limit := len(words)
	if limit > CloudWordLimit {
		limit = CloudWordLimit
	}
	span := float64(maxFreq - minFreq)
	cloud := make([]CloudWord, 0, limit)
	for i, w := range words[:limit] {
		size := FallbackFontSize
		if span > 0 {
			size = MinFontSize + float64(w.Frequency-minFreq)/span*(MaxFontSize-MinFontSize)
		}
		cloud = append(cloud, CloudWord{
			Word:      w.Word,
			Frequency: w.Frequency,
			FontSize:  math.Round(size*10) / 10,
			Color:     CloudPalette[i%len(CloudPalette)],
		})
	}
	return cloud
}

// TopWords returns the first n words.
func TopWords(words []WordFrequency, n int) []string {
	if n > len(words) {
		n = len(words)
	}
	top := make([]string, 0, n)
	for _, w := range words[:n] {
		top = append(top, w.Word)
	}
	return top
}

// TrendCell is a word's frequency in one month. Present is false when the
// month did not report the word; Value is then 0.
type TrendCell struct {
	Value   int
	Present bool
}

// TrendMonth is one month joined against a fixed word set.
type TrendMonth struct {
	Month     int
	Label     string
	FullLabel string
	Cells     map[string]TrendCell
}

// JoinMonthly joins every month against words. Months missing a word keep
// their row with that word marked absent.
func JoinMonthly(months []MonthlyWords, words []string) []TrendMonth {
	joined := make([]TrendMonth, 0, len(months))
	for _, m := range months {
		row := TrendMonth{
			Month:     m.Month,
			Label:     shortMonth(m.MonthName),
			FullLabel: m.MonthName,
			Cells:     make(map[string]TrendCell, len(words)),
		}
		for _, word := range words {
			value, ok := m.Words[word]
			row.Cells[word] = TrendCell{Value: value, Present: ok}
		}
		joined = append(joined, row)
	}
	return joined
}

// Series extracts word's values across months, absent months as 0.
func Series(months []TrendMonth, word string) []float64 {
	series := make([]float64, 0, len(months))
	for _, m := range months {
		series = append(series, float64(m.Cells[word].Value))
	}
	return series
}

func shortMonth(name string) string {
	r := []rune(name)
	if len(r) <= 3 {
		return name
	}
	return string(r[:3])
}
