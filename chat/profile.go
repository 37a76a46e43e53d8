package chat

import (
	"fmt"
	"strings"
)

// DefaultLanguage is the language answers are generated in. A profile
// whose preferred language is empty or equal to this never triggers a
// translation call.
const DefaultLanguage = "한국어"

// UserProfile is the read-only context the frontend collects before the
// first question. The core never persists it.
type UserProfile struct {
	OriginCountry     string
	ResidenceArea     string
	VisaStatus        string
	FamilyMembers     []string
	Interests         []string
	PreferredLanguage string
}

// NeedsTranslation reports whether the final answer must be translated
// for this user.
func (p UserProfile) NeedsTranslation() bool {
	lang := strings.TrimSpace(p.PreferredLanguage)
	return lang != "" && lang != DefaultLanguage
}

// AugmentQuery prepends a natural-language summary of the known profile
// fields so retrieval sees the user's situation, not just the bare
// question. Absent fields are omitted, never rendered as placeholders.
func (p UserProfile) AugmentQuery(query string) string {
	var parts []string
	if p.ResidenceArea != "" {
		parts = append(parts, fmt.Sprintf("%s 지역에 거주", p.ResidenceArea))
	}
	if p.VisaStatus != "" {
		parts = append(parts, fmt.Sprintf("%s 체류자격", p.VisaStatus))
	}
	if len(p.FamilyMembers) > 0 {
		parts = append(parts, "가족 구성: "+strings.Join(p.FamilyMembers, ", "))
	}

	augmented := query
	if len(parts) > 0 {
		augmented = fmt.Sprintf("%s인 사용자가 질문: %s", strings.Join(parts, ", "), query)
	}
	if len(p.Interests) > 0 {
		augmented += fmt.Sprintf(" (관심 분야: %s)", strings.Join(p.Interests, ", "))
	}
	return augmented
}

// contextBlock renders the profile section embedded in the system
// prompt. Empty when nothing is known about the user.
func (p UserProfile) contextBlock() string {
	var parts []string
	if p.ResidenceArea != "" {
		parts = append(parts, "거주 지역: "+p.ResidenceArea)
	}
	if p.VisaStatus != "" {
		parts = append(parts, "체류 자격: "+p.VisaStatus)
	}
	if len(p.FamilyMembers) > 0 {
		parts = append(parts, "가족 구성: "+strings.Join(p.FamilyMembers, ", "))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, "관심 분야: "+strings.Join(p.Interests, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[사용자 정보]\n" + strings.Join(parts, "\n")
}
