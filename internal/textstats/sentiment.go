package textstats

import (
	"math"
)

// SentimentLabel classifies a compound score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// Compound scores within (-0.05, 0.05) are labeled neutral.
const neutralThreshold = 0.05

// normalizationAlpha dampens the raw valence sum into the [-1, 1] compound
// score.
const normalizationAlpha = 15.0

// negationDamp flips and dampens the valence of a term preceded by a negator.
const negationDamp = -0.74

// SentimentScore is the sentiment of one line of text.
type SentimentScore struct {
	Text     string         `json:"text"`
	Compound float64        `json:"compound"`
	Label    SentimentLabel `json:"label"`
}

// lexicon maps economic vocabulary to valence. Positive values read as good
// news, negative as bad.
var lexicon = map[string]float64{
	"growth":       1.6,
	"grows":        1.4,
	"gain":         1.5,
	"gains":        1.5,
	"strong":       1.7,
	"resilient":    1.5,
	"recovery":     1.6,
	"rebound":      1.5,
	"boom":         1.8,
	"surge":        1.2,
	"improve":      1.4,
	"improves":     1.4,
	"optimism":     1.7,
	"eases":        0.9,
	"easing":       0.9,
	"stable":       1.0,
	"steady":       0.8,
	"low":          0.4,
	"record":       0.5,
	"crisis":       -2.2,
	"recession":    -2.0,
	"slump":        -1.8,
	"crash":        -2.3,
	"inflation":    -1.1,
	"deficit":      -1.3,
	"debt":         -1.0,
	"distress":     -1.9,
	"unemployment": -1.4,
	"weak":         -1.5,
	"weakens":      -1.5,
	"falls":        -1.2,
	"fall":         -1.2,
	"decline":      -1.3,
	"declines":     -1.3,
	"warns":        -1.2,
	"warning":      -1.2,
	"risk":         -1.1,
	"risks":        -1.1,
	"woes":         -1.6,
	"disappoints":  -1.5,
	"downgraded":   -1.6,
	"disruptions":  -1.2,
	"outflows":     -1.0,
	"stubbornly":   -0.6,
	"pressures":    -0.8,
	"complicates":  -0.7,
}

// negators invert the valence of the following lexicon term.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {}, "hardly": {},
}

// ScoreSentiment computes a compound sentiment score in [-1, 1] for one line
// and labels it Positive, Neutral, or Negative.
func ScoreSentiment(text string) SentimentScore {
	tokens := Tokenize(text)

	var sum float64
	for i, t := range tokens {
		valence, ok := lexicon[t]
		if !ok {
			continue
		}
		if i > 0 {
			if _, negated := negators[tokens[i-1]]; negated {
				valence *= negationDamp
			}
		}
		sum += valence
	}

	compound := sum / math.Sqrt(sum*sum+normalizationAlpha)

	label := SentimentNeutral
	switch {
	case compound > neutralThreshold:
		label = SentimentPositive
	case compound < -neutralThreshold:
		label = SentimentNegative
	}

	return SentimentScore{Text: text, Compound: compound, Label: label}
}
