package services

import (
	"fmt"
	"strings"

	"parsepro/resume-analyzer/internal/models"
)

// SkillProfile is the enumerated category set skills are sorted into.
type SkillProfile struct {
	Name       string
	Categories []string
}

var skillProfiles = map[string]SkillProfile{
	"tech": {
		Name:       "tech",
		Categories: []string{"Languages", "Frameworks", "Tools", "Cloud", "Design", "Soft Skills", "Other"},
	},
	"business": {
		Name: "business",
		Categories: []string{
			"Finance & Accounting",
			"Marketing & Sales",
			"Data Analysis",
			"Operations & Strategy",
			"Leadership & Communication",
			"Business Tools",
			"Soft Skills",
		},
	},
	"science": {
		Name: "science",
		Categories: []string{
			"Scientific Research",
			"Programming & Analysis",
			"Lab Tools & Instruments",
			"Data Management",
			"Communication & Writing",
			"Soft Skills",
		},
	},
}

// MaxSkillStrength is the radar chart ceiling.
const MaxSkillStrength = 10

// LookupSkillProfile returns the named profile, or the tech profile for
// unknown names.
func LookupSkillProfile(name string) SkillProfile {
	if p, ok := skillProfiles[name]; ok {
		return p
	}
	return skillProfiles["tech"]
}

// RegisterSkillProfile adds or replaces a profile. Call it before any
// analyzer is built.
func RegisterSkillProfile(name string, categories []string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || len(categories) == 0 {
		return fmt.Errorf("skill profile %q needs a name and at least one category", name)
	}

	seen := make(map[string]bool, len(categories))
	for _, category := range categories {
		key := foldKey(category)
		if key == "" || seen[key] {
			return fmt.Errorf("skill profile %q: duplicate or empty category %q", name, category)
		}
		seen[key] = true
	}

	skillProfiles[name] = SkillProfile{Name: name, Categories: append([]string(nil), categories...)}
	return nil
}

// ComputeSkillStrength counts skills per category, clamped to MaxSkillStrength.
func ComputeSkillStrength(profile SkillProfile, skills models.CategorizedSkills) models.SkillStrength {
	strength := make(models.SkillStrength, len(profile.Categories))
	for _, category := range profile.Categories {
		strength[category] = clampInt(len(skills[category]), 0, MaxSkillStrength)
	}
	return strength
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
