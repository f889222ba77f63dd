// Package match compares a candidate's declared skills against extracted job
// requirements. The rule is intentionally transparent so a user can see
// exactly why a score was produced: no fuzzy matching, no learned weights.
package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsailly/lettre-gen/internal/jobad"
)

const (
	skillPoints   = 20
	toolPoints    = 15
	coverageBonus = 20
	maxScore      = 100
)

// Result is the outcome of scoring one job ad against the candidate profile.
type Result struct {
	// Score is bounded to [0,100].
	Score int
	// Explanations are human-readable lines describing how the score was built.
	Explanations []string
	// MatchingSkills are candidate skills found in the ad's required skills.
	MatchingSkills []string
	// MatchingTools are candidate skills found in the ad's required tools.
	MatchingTools []string
	// MissingSkills are required skills the candidate does not declare.
	MissingSkills []string
}

// Score compares candidate skills with the extracted requirements. Both sides
// are lowercased and de-duplicated before comparison. Returns nil when no job
// info is available, since no score is computable then.
//
// Scoring: 20 points per matched required skill, 15 per matched required
// tool, plus a flat 20-point bonus when every required skill is covered. The
// bonus requires a non-empty requirement list: an ad with no extracted skills
// must not be rewarded for vacuous completeness. The total is clamped to 100.
func Score(candidateSkills []string, info *jobad.Info) *Result {
	if info == nil {
		return nil
	}

	candidate := toSet(candidateSkills)
	skills := toSet(info.Skills())
	tools := toSet(info.Tools())

	matchingSkills := intersect(candidate, skills)
	matchingTools := intersect(candidate, tools)
	missingSkills := subtract(skills, candidate)

	score := skillPoints*len(matchingSkills) + toolPoints*len(matchingTools)

	fullCoverage := len(skills) > 0 && len(missingSkills) == 0
	if fullCoverage {
		score += coverageBonus
	}

	if score > maxScore {
		score = maxScore
	}

	var explanations []string
	if len(matchingSkills) > 0 {
		explanations = append(explanations, fmt.Sprintf(
			"compétences en commun (%d x %d pts) : %s",
			len(matchingSkills), skillPoints, strings.Join(matchingSkills, ", ")))
	}
	if len(matchingTools) > 0 {
		explanations = append(explanations, fmt.Sprintf(
			"outils maîtrisés (%d x %d pts) : %s",
			len(matchingTools), toolPoints, strings.Join(matchingTools, ", ")))
	}
	if fullCoverage {
		explanations = append(explanations, fmt.Sprintf(
			"toutes les compétences exigées sont couvertes (+%d pts)", coverageBonus))
	}

	return &Result{
		Score:          score,
		Explanations:   explanations,
		MatchingSkills: matchingSkills,
		MatchingTools:  matchingTools,
		MissingSkills:  missingSkills,
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for item := range a {
		if _, ok := b[item]; ok {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}

func subtract(a, b map[string]struct{}) []string {
	var out []string
	for item := range a {
		if _, ok := b[item]; !ok {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}
