package counselor

import (
	"reflect"
	"testing"
)

func TestExtractMBBSInUSA(t *testing.T) {
	got := Extract("I want to study MBBS in USA", Profile{})

	if got.CountryPreference != CountryUSA {
		t.Errorf("CountryPreference = %q, want %q", got.CountryPreference, CountryUSA)
	}
	if !got.HasGoal(GoalMedical) {
		t.Errorf("CareerGoals = %v, want Medical included", got.CareerGoals)
	}
}

func TestExtractFirstGroupWins(t *testing.T) {
	// "scholarship" (first budget group) beats "comfortable" (third).
	got := Extract("comfortable budget but scholarship preferred", Profile{})
	if got.Budget != BudgetScholarship {
		t.Errorf("Budget = %q, want %q", got.Budget, BudgetScholarship)
	}
}

func TestExtractAccumulatesGoals(t *testing.T) {
	got := Extract("torn between engineering and medicine", Profile{})
	want := []string{GoalEngineering, GoalMedical}
	if !reflect.DeepEqual(got.CareerGoals, want) {
		t.Errorf("CareerGoals = %v, want %v", got.CareerGoals, want)
	}
}

func TestExtractDeduplicatesGoals(t *testing.T) {
	p := Extract("I want to be a doctor", Profile{})
	p = Extract("medical school, mbbs, medicine!", p)

	count := 0
	for _, g := range p.CareerGoals {
		if g == GoalMedical {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Medical recorded %d times, want 1: %v", count, p.CareerGoals)
	}
}

func TestExtractIdempotentWithoutNewKeywords(t *testing.T) {
	p := Extract("12th class student from lahore interested in law", Profile{})
	again := Extract("nothing here", p)

	if !reflect.DeepEqual(p, again) {
		t.Errorf("extract with no keywords changed the profile: %v -> %v", p, again)
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	original := Profile{CareerGoals: []string{GoalLaw}}
	_ = Extract("I like engineering", original)

	if !reflect.DeepEqual(original.CareerGoals, []string{GoalLaw}) {
		t.Errorf("input profile mutated: %v", original.CareerGoals)
	}
}

func TestExtractKeepsExistingFields(t *testing.T) {
	p := Profile{EducationLevel: EducationMasters}
	got := Extract("I want to study in canada", p)

	if got.EducationLevel != EducationMasters {
		t.Errorf("EducationLevel lost: %q", got.EducationLevel)
	}
	if got.CountryPreference != CountryCanada {
		t.Errorf("CountryPreference = %q", got.CountryPreference)
	}
}
