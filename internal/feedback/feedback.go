// Package feedback turns scores and parsed fields into human readable advice.
package feedback

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/ats-analyzer/internal/parser"
	"github.com/spigell/ats-analyzer/internal/scoring"
)

const (
	strengthThreshold = 80.0
	weaknessThreshold = 60.0
	atsTipThreshold   = 70.0
	minSkills         = 5
	minWords          = 300
	maxWords          = 800
)

// requiredSections are looked up in the serialized fields, in this order.
var requiredSections = []string{"experience", "education", "skills"}

// Feedback summarizes what a résumé does well and what it lacks.
type Feedback struct {
	Overall         float64  `json:"overall_score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Generate derives strengths and weaknesses from the scores and recommends the standard
// sections that the parsed fields do not mention.
func Generate(scores scoring.Report, fields parser.ParsedFields) Feedback {
	fb := Feedback{
		Overall:         scores.Overall,
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
	}

	if scores.ATS >= strengthThreshold {
		fb.Strengths = append(fb.Strengths, "Strong ATS compatibility with good action verbs and quantifiable results")
	}
	if scores.Grammar >= strengthThreshold {
		fb.Strengths = append(fb.Strengths, "Well-written with good grammar and clarity")
	}
	if scores.Keyword >= strengthThreshold {
		fb.Strengths = append(fb.Strengths, "Excellent keyword optimization for ATS systems")
	}

	if scores.ATS < weaknessThreshold {
		fb.Weaknesses = append(fb.Weaknesses, "Low ATS compatibility - add more action verbs and quantifiable achievements")
	}
	if scores.Grammar < weaknessThreshold {
		fb.Weaknesses = append(fb.Weaknesses, "Grammar and clarity issues detected")
	}
	if scores.Keyword < weaknessThreshold {
		fb.Weaknesses = append(fb.Weaknesses, "Poor keyword optimization - add more relevant skills and keywords")
	}

	serialized := serialize(fields)
	for _, section := range requiredSections {
		if !strings.Contains(serialized, section) {
			fb.Recommendations = append(fb.Recommendations, fmt.Sprintf("Add a %s section", title(section)))
		}
	}

	return fb
}

// Suggest returns concrete improvement tips. The two formatting tips are always last.
func Suggest(text string, fields parser.ParsedFields, atsScore float64) []string {
	tips := []string{}

	if atsScore < atsTipThreshold {
		tips = append(tips,
			"Add more action verbs like 'achieved', 'improved', 'managed' to describe your experience",
			"Include quantifiable achievements with numbers and percentages",
		)
	}

	if len(fields.Skills) < minSkills {
		tips = append(tips, "Add more technical skills to increase keyword relevance")
	}

	switch words := scoring.WordCount(text); {
	case words < minWords:
		tips = append(tips, "Expand your resume with more detailed descriptions of your experience")
	case words > maxWords:
		tips = append(tips, "Consider condensing your resume to focus on the most relevant experience")
	}

	if len(fields.Projects) == 0 {
		tips = append(tips, "Add a projects section to showcase your work")
	}
	if len(fields.Certifications) == 0 {
		tips = append(tips, "Include relevant certifications to boost credibility")
	}

	return append(tips,
		"Use consistent bullet points and formatting throughout",
		"Ensure your contact information is clearly visible at the top",
	)
}

// serialize renders the populated fields, keys included, as lower-cased text.
// Empty fields are left out so that their keys do not count as section mentions.
func serialize(fields parser.ParsedFields) string {
	populated := map[string]any{}
	if err := mapstructure.Decode(fields, &populated); err != nil {
		// Decoding a flat struct of strings and string slices into a map cannot fail.
		return ""
	}
	return strings.ToLower(fmt.Sprint(populated))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
