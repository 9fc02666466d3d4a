package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Field rules shared by create, update and submit.
var (
	titleRules = []validation.Rule{
		validation.RuneLength(TitleMinLength, TitleMaxLength).Error("title must be 5-200 characters"),
	}
	summaryRules = []validation.Rule{
		validation.RuneLength(0, SummaryMaxLength).Error("summary must not exceed 1000 characters"),
	}
	contentRules = []validation.Rule{
		validation.RuneLength(0, ContentMaxLength).Error("content must not exceed 50000 characters"),
	}
	keywordRules = []validation.Rule{
		validation.Length(0, MaxKeywords).Error("at most 10 keywords are allowed"),
		validation.Each(
			validation.Required.Error("keywords must not be empty"),
			validation.RuneLength(1, KeywordMaxLength).Error("each keyword must be at most 50 characters"),
		),
	}
	categoryRules = []validation.Rule{
		validation.RuneLength(0, CategoryMaxLength).Error("category must not exceed 100 characters"),
	}
)

// ValidateForSubmission is the completeness guard checked before DRAFT or
// CHANGES_REQUESTED moves to UNDER_REVIEW.
func ValidateForSubmission(s *Submission) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Title,
			validation.Required.Error("title is required"),
			validation.By(trimmedRequired("title")),
			validation.RuneLength(TitleMinLength, TitleMaxLength).Error("title must be 5-200 characters"),
		),
		validation.Field(&s.Summary,
			validation.Required.Error("summary is required"),
			validation.By(trimmedRequired("summary")),
			validation.RuneLength(1, SummaryMaxLength).Error("summary must not exceed 1000 characters"),
		),
		validation.Field(&s.Content,
			validation.Required.Error("content is required"),
			validation.By(trimmedRequired("content")),
			validation.By(trimmedMinRunes("content", ContentMinLength)),
			validation.RuneLength(ContentMinLength, ContentMaxLength).Error("content must be 100-50000 characters"),
		),
		validation.Field(&s.Keywords,
			validation.Required.Error("at least one keyword is required"),
			validation.Length(1, MaxKeywords).Error("1-10 keywords are required"),
			validation.Each(
				validation.Required.Error("keywords must not be empty"),
				validation.RuneLength(1, KeywordMaxLength).Error("each keyword must be at most 50 characters"),
			),
		),
		validation.Field(&s.Category,
			validation.Required.Error("category is required"),
			validation.By(trimmedRequired("category")),
			validation.RuneLength(1, CategoryMaxLength),
		),
		validation.Field(&s.AuthorEmail,
			validation.Required.Error("author email is required"),
			is.EmailFormat.Error("invalid email format"),
		),
	)
}

func trimmedRequired(field string) validation.RuleFunc {
	return func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError("validation_required", field+" is required")
		}
		return nil
	}
}

// trimmedMinRunes requires at least minRunes runes once surrounding whitespace is removed.
func trimmedMinRunes(field string, minRunes int) validation.RuleFunc {
	return func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		if s, ok := v.(string); ok && utf8.RuneCountInString(strings.TrimSpace(s)) < minRunes {
			return validation.NewError("validation_length_too_short",
				fmt.Sprintf("%s must be at least %d characters", field, minRunes))
		}
		return nil
	}
}

// NormalizeKeywords trims entries, drops empty ones and removes case-insensitive duplicates.
func NormalizeKeywords(keywords []string) []string {
	if keywords == nil {
		return nil
	}
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		key := strings.ToLower(k)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, k)
	}
	return out
}
