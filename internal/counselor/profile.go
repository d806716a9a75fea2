// Package counselor implements the rule-driven admissions counselor:
// keyword extraction of a student profile from free-text messages and a
// canned-response decision table keyed on keywords and profile
// completeness. There is no LLM in this path.
package counselor

import "strings"

// Education levels.
const (
	EducationHighSchool = "High School"
	EducationBachelors  = "Bachelor's"
	EducationMasters    = "Master's"
)

// Budget tiers.
const (
	BudgetScholarship = "Scholarship Required"
	BudgetLimited     = "Limited ($20K-40K/year)"
	BudgetComfortable = "Comfortable ($50K+/year)"
)

// Country preferences.
const (
	CountryUSA       = "USA"
	CountryUK        = "UK"
	CountryCanada    = "Canada"
	CountryGermany   = "Germany"
	CountryAustralia = "Australia"
	CountryPakistan  = "Pakistan"
)

// Career goal categories.
const (
	GoalEngineering = "Engineering/Tech"
	GoalMedical     = "Medical"
	GoalBusiness    = "Business/Management"
	GoalLaw         = "Law"
)

// Profile accumulates structured facts about a student across messages.
// Zero values mean "not yet known"; fields are only ever filled in or
// overwritten by new keyword matches, never cleared.
type Profile struct {
	EducationLevel    string   `json:"educationLevel,omitempty"`
	Budget            string   `json:"budget,omitempty"`
	CountryPreference string   `json:"countryPreference,omitempty"`
	CareerGoals       []string `json:"careerGoals,omitempty"`
}

// HasGoal reports whether the goal category was already recorded.
func (p Profile) HasGoal(goal string) bool {
	for _, g := range p.CareerGoals {
		if g == goal {
			return true
		}
	}
	return false
}

// goalsMatch reports whether any recorded goal contains one of the
// given lowercase fragments.
func (p Profile) goalsMatch(fragments ...string) bool {
	for _, g := range p.CareerGoals {
		lower := strings.ToLower(g)
		for _, frag := range fragments {
			if strings.Contains(lower, frag) {
				return true
			}
		}
	}
	return false
}

// keywordGroup maps a set of trigger words to the value they imply.
type keywordGroup struct {
	words []string
	value string
}

var educationGroups = []keywordGroup{
	{words: []string{"12th", "fsc", "o-level", "intermediate"}, value: EducationHighSchool},
	{words: []string{"bachelor", "graduation", "undergrad", "bsc", "ba"}, value: EducationBachelors},
	{words: []string{"master", "msc", "ma", "graduate", "postgrad"}, value: EducationMasters},
}

var budgetGroups = []keywordGroup{
	{words: []string{"scholarship", "funded", "free"}, value: BudgetScholarship},
	{words: []string{"20000", "30000", "40000", "limited", "tight"}, value: BudgetLimited},
	{words: []string{"50000", "60000", "70000", "good", "comfortable"}, value: BudgetComfortable},
}

var countryGroups = []keywordGroup{
	{words: []string{"usa", "america", "united states", "us"}, value: CountryUSA},
	{words: []string{"uk", "britain", "england", "london"}, value: CountryUK},
	{words: []string{"canada", "toronto", "vancouver"}, value: CountryCanada},
	{words: []string{"germany", "berlin", "munich"}, value: CountryGermany},
	{words: []string{"australia", "sydney", "melbourne"}, value: CountryAustralia},
	{words: []string{"pakistan", "lahore", "karachi", "isb", "islamabad"}, value: CountryPakistan},
}

var goalGroups = []keywordGroup{
	{words: []string{"engineer", "engineering", "tech", "programmer", "coding"}, value: GoalEngineering},
	{words: []string{"doctor", "medical", "mbbs", "bds", "dentist", "medicine"}, value: GoalMedical},
	{words: []string{"business", "management", "mba", "finance", "marketing"}, value: GoalBusiness},
	{words: []string{"law", "legal", "llb", "lawyer"}, value: GoalLaw},
}

func containsAny(message string, words []string) bool {
	for _, w := range words {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}

// Extract scans the message for profile keywords and returns the updated
// profile. Pure: the input profile is copied, never mutated. Scalar
// fields take the first matching group; career goals accumulate across
// all matching categories, deduplicated in insertion order.
func Extract(message string, profile Profile) Profile {
	lower := strings.ToLower(message)

	updated := profile
	updated.CareerGoals = append([]string(nil), profile.CareerGoals...)

	for _, group := range educationGroups {
		if containsAny(lower, group.words) {
			updated.EducationLevel = group.value
			break
		}
	}

	for _, group := range budgetGroups {
		if containsAny(lower, group.words) {
			updated.Budget = group.value
			break
		}
	}

	for _, group := range countryGroups {
		if containsAny(lower, group.words) {
			updated.CountryPreference = group.value
			break
		}
	}

	for _, group := range goalGroups {
		if containsAny(lower, group.words) && !updated.HasGoal(group.value) {
			updated.CareerGoals = append(updated.CareerGoals, group.value)
		}
	}

	return updated
}
