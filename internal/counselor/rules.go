package counselor

import (
	"fmt"
	"strings"
)

// rule is one row of the response decision table. Rules are evaluated
// top to bottom; the first match wins.
type rule struct {
	matches func(message string, p Profile, historyLen int) bool
	respond func(p Profile) string
}

// Respond picks the counselor answer for a message. The conversation
// history is consulted only by length: a short conversation with an
// incomplete profile triggers onboarding questions before any topic rule.
func Respond(message string, profile Profile, historyLen int) string {
	lower := strings.ToLower(message)

	for _, r := range rules {
		if r.matches(lower, profile, historyLen) {
			return r.respond(profile)
		}
	}
	return fallbackResponse
}

func keywordRule(respond func(Profile) string, words ...string) rule {
	return rule{
		matches: func(message string, _ Profile, _ int) bool {
			return containsAny(message, words)
		},
		respond: respond,
	}
}

// onboardingRule asks for a missing profile field while the
// conversation is still short.
func onboardingRule(missing func(Profile) bool, question string) rule {
	return rule{
		matches: func(_ string, p Profile, historyLen int) bool {
			return historyLen <= 2 && missing(p)
		},
		respond: func(Profile) string { return question },
	}
}

var rules = []rule{
	onboardingRule(
		func(p Profile) bool { return p.EducationLevel == "" },
		"Hi! Thanks for reaching out. First, let me understand your profile better.\n\nWhat's your current education level?\n\n• 12th/FSC/O-Level (High School)\n• Bachelor's Degree\n• Master's Degree\n• Other",
	),
	onboardingRule(
		func(p Profile) bool { return len(p.CareerGoals) == 0 },
		"Got it! Now, what are your career interests?\n\n• Engineering & Technology\n• Medical & Healthcare\n• Business & Management\n• Law\n• Other fields",
	),
	onboardingRule(
		func(p Profile) bool { return p.Budget == "" },
		"Great! Now tell me about your budget for higher education:\n\n• Scholarship required (free/fully funded)\n• Limited budget ($20K-40K/year)\n• Comfortable budget ($50K+/year)",
	),
	onboardingRule(
		func(p Profile) bool { return p.CountryPreference == "" },
		"Perfect! Which countries interest you for studying?\n\n• Pakistan\n• USA\n• UK\n• Canada\n• Germany\n• Australia\n• Multiple options",
	),
	keywordRule(examResponse, "entrance exam", "ecat", "mdcat", "nat", "usat", "lat", "entry test"),
	keywordRule(scholarshipResponse, "scholarship", "funding", "financial aid", "fully funded"),
	keywordRule(universityResponse, "university", "uni", "college", "admission", "apply"),
	keywordRule(meritResponse, "merit", "calculate", "percentage", "aggregate"),
	keywordRule(tutorResponse, "tutor", "coaching", "classes", "teach", "prep"),
	keywordRule(studyAbroadResponse, "study abroad", "international", "overseas", "visa"),
}

func examResponse(p Profile) string {
	var sb strings.Builder
	sb.WriteString("Here are the major entrance exams available:\n\n")

	if p.goalsMatch("medical", "doctor", "mbbs") {
		sb.WriteString("Medical Programs:\n• MDCAT - For medical and dental colleges\n• NAT-IM - NTS pre-medical aptitude test\n\n")
	}
	if p.goalsMatch("engineer", "tech") {
		sb.WriteString("Engineering Programs:\n• ECAT - Engineering admission test\n• NUST NET - NUST entry test\n• GIKI Entry Test - Ghulam Ishaq Khan Institute\n• PIEAS Entry Test - Engineering & Applied Sciences\n• NAT-IE - NTS engineering aptitude\n• ETEA - Engineering test (KPK region)\n\n")
	}
	if p.goalsMatch("business", "commerce", "economics") {
		sb.WriteString("Business & Commerce:\n• IBA Aptitude Test - Top business school\n• NAT-ICOM - NTS commerce test\n• LUMS Test - Lahore University\n• COMSATS Test - Multiple campuses\n\n")
	}
	if p.goalsMatch("abroad", "international", "usa", "uk") {
		sb.WriteString("International Universities:\n• SAT - For US universities (1600 scale)\n• ACT - American college test (36 scale)\n• GRE - Graduate programs worldwide\n• GMAT - MBA programs globally\n\n")
	}

	sb.WriteString("General Tests:\n• NTS NAT - Available for multiple fields\n• HEC USAT - For public universities\n• GAT-General - For MS/MPhil programs\n• GAT-Subject - For PhD programs\n\n")
	sb.WriteString("Tip: Explore the Entry Tests section for detailed preparation guides, schedules, and university requirements!")
	return sb.String()
}

func scholarshipResponse(p Profile) string {
	profileStr := "your profile"
	if p.CountryPreference != "" || p.Budget != "" {
		country := p.CountryPreference
		if country == "" {
			country = "preferred"
		}
		budget := p.Budget
		if budget == "" {
			budget = "your financial needs"
		}
		profileStr = fmt.Sprintf("your %s preference and %s", country, budget)
	}
	return fmt.Sprintf("Excellent question! Based on %s:\n\nTop Scholarship Options:\n\n• Chevening (UK)\n• Fulbright (USA)\n• DAAD (Germany)\n• Australia Awards\n• Canada Government Scholarships\n\nNext Steps:\n\n• Check your eligibility for each\n• Meet deadline requirements\n• Prepare strong SOP & documents\n\nVisit our Scholarships section for detailed info!", profileStr)
}

func universityResponse(p Profile) string {
	if p.CountryPreference != "" {
		return fmt.Sprintf("Great! For your goal of studying in %s:\n\nTop considerations:\n\n• Academic requirements (GPA/scores)\n• Entrance exam preparation\n• Application deadlines\n• Visa requirements\n• Cost & scholarships\n\nMy recommendation: Start with the Universities section to explore options matching your profile!", p.CountryPreference)
	}
	return "I'd love to help! To recommend the best universities for you, could you tell me:\n\n• Which country are you interested in?\n• What's your career goal (Engineering, Medical, Business, etc.)?\n\nThis will help me give personalized suggestions!"
}

func meritResponse(Profile) string {
	return "Merit calculation varies by university! Here's the general approach:\n\nStandard Formula:\n\nAggregate = (FSC marks/1100 × 0.30) + (Entry Test/100 × 0.50) + (Interview/20 × 0.20)\n\nDifferent universities use different weights:\n\n• Some give 50% weight to entry test\n• Others emphasize interviews (20%)\n• Academic marks typically 30%\n\nCheck the Merit Calculator tool for detailed calculations!"
}

func tutorResponse(Profile) string {
	return "Great idea! Tutoring can really boost your preparation.\n\nWhy get a tutor?\n\n• Personalized attention\n• Focused on weak areas\n• Mock tests & feedback\n• Time-efficient preparation\n\nFind qualified tutors in the Tutors section!\n\nWhat subject do you need help with?"
}

func studyAbroadResponse(p Profile) string {
	country := p.CountryPreference
	if country == "" {
		country = "your preferred country"
	}
	return fmt.Sprintf("Studying abroad is an amazing opportunity! For %s:\n\nKey Requirements:\n\n• Valid passport\n• Entrance exam scores\n• English proficiency (IELTS/TOEFL)\n• Strong academic record\n• Visa documentation\n• Financial proof\n\nStart exploring in the Study Abroad section!", country)
}

const fallbackResponse = "I'm here to help! Tell me more about:\n\n• Your education background & current level\n• Career aspirations\n• Budget constraints\n• Geographic preferences\n• Specific entrance exams or universities\n\nThe more details you share, the better personalized guidance I can provide!\n\nWhat would you like to explore first?"
