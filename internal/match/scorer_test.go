package match

import (
	"fmt"
	"testing"

	"github.com/tsailly/lettre-gen/internal/jobad"
)

func TestScoreNilInfo(t *testing.T) {
	if result := Score([]string{"python"}, nil); result != nil {
		t.Fatalf("expected nil result without job info, got %+v", result)
	}
}

func TestScorePartialMatch(t *testing.T) {
	info := &jobad.Info{
		RequiredSkills: []string{"Python", "CAD"},
		RequiredTools:  []string{"Abaqus"},
	}

	result := Score([]string{"python", "abaqus"}, info)
	if result == nil {
		t.Fatal("expected a result")
	}

	if result.Score != 35 {
		t.Fatalf("expected score 35 (20 skill + 15 tool, no bonus), got %d", result.Score)
	}

	if len(result.MatchingSkills) != 1 || result.MatchingSkills[0] != "python" {
		t.Fatalf("unexpected matching skills: %v", result.MatchingSkills)
	}

	if len(result.MatchingTools) != 1 || result.MatchingTools[0] != "abaqus" {
		t.Fatalf("unexpected matching tools: %v", result.MatchingTools)
	}

	if len(result.MissingSkills) != 1 || result.MissingSkills[0] != "cad" {
		t.Fatalf("expected cad to be missing, got %v", result.MissingSkills)
	}
}

func TestScoreFullCoverageBonus(t *testing.T) {
	info := &jobad.Info{
		RequiredSkills: []string{"python", "cad"},
	}

	result := Score([]string{"python", "cad"}, info)
	if result == nil {
		t.Fatal("expected a result")
	}

	if result.Score != 60 {
		t.Fatalf("expected score 60 (2x20 + bonus 20), got %d", result.Score)
	}

	if len(result.MissingSkills) != 0 {
		t.Fatalf("expected no missing skills, got %v", result.MissingSkills)
	}

	if len(result.Explanations) != 2 {
		t.Fatalf("expected skill and bonus explanations, got %v", result.Explanations)
	}
}

func TestScoreNoBonusForEmptyRequirements(t *testing.T) {
	info := &jobad.Info{
		RequiredTools: []string{"abaqus"},
	}

	result := Score([]string{"python", "abaqus"}, info)
	if result == nil {
		t.Fatal("expected a result")
	}

	// Vacuous subset: empty requirements must never trigger the bonus.
	if result.Score != 15 {
		t.Fatalf("expected score 15 (one tool, no bonus), got %d", result.Score)
	}
}

func TestScoreClampedToHundred(t *testing.T) {
	var skills []string
	for i := 0; i < 10; i++ {
		skills = append(skills, fmt.Sprintf("skill-%d", i))
	}

	info := &jobad.Info{RequiredSkills: skills}

	result := Score(skills, info)
	if result == nil {
		t.Fatal("expected a result")
	}

	if result.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %d", result.Score)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	info := &jobad.Info{
		RequiredSkills: []string{"PYTHON"},
		RequiredTools:  []string{"SolidWorks"},
	}

	result := Score([]string{"Python", "solidworks"}, info)
	if result.Score != 55 {
		t.Fatalf("expected 55 (20 + 15 + 20 bonus), got %d", result.Score)
	}
}
