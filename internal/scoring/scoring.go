package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/ats-analyzer/internal/parser"
	"github.com/spigell/ats-analyzer/internal/vocabulary"
)

const (
	maxScore = 100.0

	actionVerbPoints    = 2.0
	actionVerbCap       = 30.0
	achievementPoints   = 4.0
	achievementCap      = 20.0
	sectionPoints       = 6.25
	contactPoints       = 7.5
	preferredLengthBand = 10.0
	acceptedLengthBand  = 5.0

	grammarBase        = 70.0
	fragmentPenalty    = 2.0
	fragmentCap        = 20.0
	fragmentMinRunes   = 10
	repetitionPenalty  = 3.0
	repetitionCap      = 10.0
	repeatedWordRunes  = 4
	repeatedWordMaxUse = 5

	formattingBase   = 80.0
	bulletLineLimit  = 20
	bulletPenalty    = 10.0
	blankLineRatio   = 0.3
	blankLinePenalty = 15.0
	longLineRunes    = 200
	longLineLimit    = 5
	longLinePenalty  = 10.0

	atsKeywordPoints   = 2.0
	atsKeywordCap      = 40.0
	techSkillPoints    = 1.5
	techSkillCap       = 40.0
	industryTermPoints = 4.0
	industryTermCap    = 20.0
)

var (
	achievementPattern = regexp.MustCompile(`\b\d+%|\b\d+\s*(million|billion|thousand|k|m)\b`)
	// Stricter than the field extractor: no country code, no brackets.
	strictPhonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// Report holds the four heuristic sub-scores and their mean. Every value is in [0, 100].
type Report struct {
	ATS        float64 `json:"ats_score"`
	Grammar    float64 `json:"grammar_score"`
	Formatting float64 `json:"formatting_score"`
	Keyword    float64 `json:"keyword_score"`
	Overall    float64 `json:"overall_score"`
}

// Scorer computes deterministic lexical quality scores. It is safe for concurrent use.
type Scorer struct {
	vocab *vocabulary.Vocabulary
}

func New(vocab *vocabulary.Vocabulary) *Scorer {
	if vocab == nil {
		vocab = vocabulary.MustDefault()
	}
	return &Scorer{vocab: vocab}
}

// Score runs every sub-score over text.
func (s *Scorer) Score(text string) Report {
	r := Report{
		ATS:        s.ATS(text),
		Grammar:    Grammar(text),
		Formatting: Formatting(text),
		Keyword:    s.Keyword(text),
	}
	r.Overall = (r.ATS + r.Grammar + r.Formatting + r.Keyword) / 4

	return r
}

// ATS rewards action verbs, quantified achievements, standard sections, contact details
// and a reasonable length.
func (s *Scorer) ATS(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0

	score += min(float64(s.vocab.CountIn(vocabulary.ActionVerbs, lower))*actionVerbPoints, actionVerbCap)
	score += min(float64(len(achievementPattern.FindAllString(lower, -1)))*achievementPoints, achievementCap)
	score += float64(s.vocab.CountIn(vocabulary.Sections, lower)) * sectionPoints

	if parser.Email(text) != "" {
		score += contactPoints
	}
	if strictPhonePattern.MatchString(text) {
		score += contactPoints
	}

	score += lengthPoints(WordCount(text))

	return clamp(score)
}

func lengthPoints(words int) float64 {
	switch {
	case words >= 300 && words <= 800:
		return preferredLengthBand
	case words >= 200 && words <= 1000:
		return acceptedLengthBand
	default:
		return 0
	}
}

// Grammar starts from a base and subtracts for sentence fragments and overused long words.
func Grammar(text string) float64 {
	issues := 0.0

	fragments := 0
	for _, sentence := range strings.Split(text, ".") {
		if utf8.RuneCountInString(strings.TrimSpace(sentence)) < fragmentMinRunes {
			fragments++
		}
	}
	issues += min(float64(fragments)*fragmentPenalty, fragmentCap)

	freq := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(word) > repeatedWordRunes {
			freq[word]++
		}
	}
	repeated := 0
	for _, n := range freq {
		if n > repeatedWordMaxUse {
			repeated++
		}
	}
	issues += min(float64(repeated)*repetitionPenalty, repetitionCap)

	return clamp(grammarBase - issues)
}

// Formatting penalizes bullet-heavy, sparse or very wide layouts.
func Formatting(text string) float64 {
	lines := strings.Split(text, "\n")

	var bullets, blank, long int
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "-") {
			bullets++
		}
		if trimmed == "" {
			blank++
		}
		if utf8.RuneCountInString(line) > longLineRunes {
			long++
		}
	}

	issues := 0.0
	if bullets > bulletLineLimit {
		issues += bulletPenalty
	}
	if float64(blank) > float64(len(lines))*blankLineRatio {
		issues += blankLinePenalty
	}
	if long > longLineLimit {
		issues += longLinePenalty
	}

	return clamp(formattingBase - issues)
}

// Keyword measures coverage of generic ATS keywords, technical skills and industry terms.
func (s *Scorer) Keyword(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0

	score += min(float64(s.vocab.CountIn(vocabulary.ATSKeywords, lower))*atsKeywordPoints, atsKeywordCap)
	score += min(float64(s.vocab.CountIn(vocabulary.Skills, lower))*techSkillPoints, techSkillCap)
	score += min(float64(s.vocab.CountIn(vocabulary.IndustryTerms, lower))*industryTermPoints, industryTermCap)

	return clamp(score)
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func clamp(v float64) float64 {
	return max(0, min(v, maxScore))
}
