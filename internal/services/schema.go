package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xeipuuv/gojsonschema"
)

type FieldType int

const (
	FieldString FieldType = iota
	FieldStringList
	FieldScore
)

// Field declares one required key of a normalized response.
type Field struct {
	Key     string
	Type    FieldType
	Aliases []string
	Min     int
	Max     int
}

func StringField(key string, aliases ...string) Field {
	return Field{Key: key, Type: FieldString, Aliases: aliases}
}

func ListField(key string, aliases ...string) Field {
	return Field{Key: key, Type: FieldStringList, Aliases: aliases}
}

func ScoreField(key string, min, max int, aliases ...string) Field {
	return Field{Key: key, Type: FieldScore, Aliases: aliases, Min: min, Max: max}
}

// Schema is the stable internal shape an upstream reply is mapped onto.
type Schema struct {
	Name   string
	Fields []Field

	lookup    map[string]string
	validator *gojsonschema.Schema
}

// NewSchema compiles the JSON Schema used to check normalized output.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		Name:   name,
		Fields: fields,
		lookup: make(map[string]string),
	}

	properties := make(map[string]interface{}, len(fields))
	required := make([]string, 0, len(fields))

	for _, f := range fields {
		s.lookup[foldKey(f.Key)] = f.Key
		for _, alias := range f.Aliases {
			s.lookup[foldKey(alias)] = f.Key
		}

		required = append(required, f.Key)
		switch f.Type {
		case FieldString:
			properties[f.Key] = map[string]interface{}{"type": "string"}
		case FieldStringList:
			properties[f.Key] = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			}
		case FieldScore:
			properties[f.Key] = map[string]interface{}{
				"type":    "integer",
				"minimum": f.Min,
				"maximum": f.Max,
			}
		}
	}

	doc := map[string]interface{}{
		"type":       "object",
		"required":   required,
		"properties": properties,
	}

	validator, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
	}
	s.validator = validator

	return s, nil
}

func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// canonicalKey resolves an upstream key to a declared field key.
func (s *Schema) canonicalKey(key string) (string, bool) {
	k, ok := s.lookup[foldKey(key)]
	return k, ok
}

func (s *Schema) validate(doc map[string]interface{}) error {
	res, err := s.validator.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// foldKey makes "ats_score", "ATS Score" and "atsScore" compare equal.
func foldKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Response schemas for the JSON-producing prompt kinds.
var (
	SkillsSchema = MustSchema("skills",
		ListField("skills", "skillList", "extractedSkills"),
	)

	MatchSchema = MustSchema("match_analysis",
		ScoreField("matchScore", 0, 100, "score", "overallScore", "match"),
		ScoreField("skillsScore", 0, 100, "skillScore"),
		ScoreField("toolsScore", 0, 100, "toolScore"),
		ListField("matchedSkills", "matchingSkills"),
		ListField("missingSkills", "skillGaps"),
		ListField("suggestions", "recommendations"),
	)

	ATSSchema = MustSchema("ats_evaluation",
		ScoreField("atsScore", 0, 100, "score", "overallScore", "ats"),
		ScoreField("keywordScore", 0, 100, "keywordMatchScore", "keywordsScore"),
		ScoreField("formattingScore", 0, 100, "formatScore"),
		ScoreField("readabilityScore", 0, 100),
		StringField("overallAssessment", "assessment"),
		StringField("summary"),
		ListField("strengths"),
		ListField("skillGaps", "gaps"),
		ListField("formattingIssues"),
		ListField("suggestedFixes", "fixes", "suggestions", "recommendations"),
		ListField("redFlags", "flags"),
		ListField("missingKeywords"),
	)

	CompareJDSchema = MustSchema("compare_jd",
		ListField("matchedSkills", "matchingSkills"),
		ListField("missingSkills"),
		ScoreField("overallMatch", 0, 100, "matchScore", "score", "matchPercent"),
	)

	ATSSummarySchema = MustSchema("ats_summary",
		StringField("name", "fullName", "candidateName"),
		StringField("email", "emailAddress"),
		StringField("phone", "phoneNumber"),
	)
)

// CategorizedSkillsSchema declares one list field per profile category.
func CategorizedSkillsSchema(profile SkillProfile) *Schema {
	fields := make([]Field, 0, len(profile.Categories))
	for _, category := range profile.Categories {
		fields = append(fields, ListField(category))
	}
	return MustSchema("categorized_skills_"+profile.Name, fields...)
}
