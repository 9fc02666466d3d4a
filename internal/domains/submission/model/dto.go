package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"editorial-backend/internal/shared/utils"
)

// =====================================================
// AUTHOR REQUEST DTOs
// =====================================================

// CreateSubmissionRequest opens a new DRAFT. Only the author and title are
// required up front; the rest is completed before submitting.
type CreateSubmissionRequest struct {
	AuthorName        string   `json:"author_name"`
	AuthorEmail       string   `json:"author_email"`
	AuthorInstitution *string  `json:"author_institution"`
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	Content           string   `json:"content"`
	Keywords          []string `json:"keywords"`
	Category          string   `json:"category"`
}

func (r *CreateSubmissionRequest) Normalize() {
	r.AuthorName = strings.TrimSpace(r.AuthorName)
	r.AuthorEmail = strings.ToLower(strings.TrimSpace(r.AuthorEmail))
	if r.AuthorInstitution != nil {
		v := strings.TrimSpace(*r.AuthorInstitution)
		if v == "" {
			r.AuthorInstitution = nil
		} else {
			r.AuthorInstitution = &v
		}
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Category = strings.TrimSpace(r.Category)
	r.Keywords = NormalizeKeywords(r.Keywords)
}

func (r CreateSubmissionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorName,
			validation.Required.Error("author name is required"),
			validation.RuneLength(2, AuthorNameMaxLength),
		),
		validation.Field(&r.AuthorEmail,
			validation.Required.Error("author email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.AuthorInstitution, validation.NilOrNotEmpty, validation.RuneLength(0, 255)),
		validation.Field(&r.Title, append([]validation.Rule{validation.Required.Error("title is required")}, titleRules...)...),
		validation.Field(&r.Summary, summaryRules...),
		validation.Field(&r.Content, contentRules...),
		validation.Field(&r.Keywords, keywordRules...),
		validation.Field(&r.Category, categoryRules...),
	)
}

// UpdateSubmissionRequest is a partial update (auto-save). Nil fields are left alone.
type UpdateSubmissionRequest struct {
	AuthorName        *string   `json:"author_name"`
	AuthorInstitution *string   `json:"author_institution"`
	Title             *string   `json:"title"`
	Summary           *string   `json:"summary"`
	Content           *string   `json:"content"`
	Keywords          *[]string `json:"keywords"`
	Category          *string   `json:"category"`
}

func (r *UpdateSubmissionRequest) Normalize() {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.AuthorName = trim(r.AuthorName)
	r.AuthorInstitution = trim(r.AuthorInstitution)
	r.Title = trim(r.Title)
	r.Summary = trim(r.Summary)
	r.Category = trim(r.Category)
	if r.Keywords != nil {
		k := NormalizeKeywords(*r.Keywords)
		if k == nil {
			k = []string{}
		}
		r.Keywords = &k
	}
}

func (r UpdateSubmissionRequest) Validate() error {
	var keywords []string
	if r.Keywords != nil {
		keywords = *r.Keywords
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorName, validation.NilOrNotEmpty.Error("author name cannot be empty"), validation.RuneLength(2, AuthorNameMaxLength)),
		validation.Field(&r.AuthorInstitution, validation.RuneLength(0, 255)),
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be empty"), validation.RuneLength(TitleMinLength, TitleMaxLength).Error("title must be 5-200 characters")),
		validation.Field(&r.Summary, summaryRules...),
		validation.Field(&r.Content, contentRules...),
		validation.Field(&r.Keywords, validation.By(func(interface{}) error {
			return validation.Validate(keywords, keywordRules...)
		})),
		validation.Field(&r.Category, categoryRules...),
	)
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateSubmissionRequest) IsEmpty() bool {
	return r.AuthorName == nil && r.AuthorInstitution == nil && r.Title == nil &&
		r.Summary == nil && r.Content == nil && r.Keywords == nil && r.Category == nil
}

// Columns converts the request into the column map for the update statement.
func (r UpdateSubmissionRequest) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if r.AuthorName != nil {
		cols["author_name"] = *r.AuthorName
	}
	if r.AuthorInstitution != nil {
		if *r.AuthorInstitution == "" {
			cols["author_institution"] = nil
		} else {
			cols["author_institution"] = *r.AuthorInstitution
		}
	}
	if r.Title != nil {
		cols["title"] = *r.Title
	}
	if r.Summary != nil {
		cols["summary"] = *r.Summary
	}
	if r.Content != nil {
		cols["content"] = *r.Content
	}
	if r.Keywords != nil {
		cols["keywords"] = *r.Keywords
	}
	if r.Category != nil {
		cols["category"] = *r.Category
	}
	return cols
}

type ResendTokenRequest struct {
	Email string `json:"email"`
}

func (r ResendTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

// =====================================================
// ADMIN REQUEST DTOs
// =====================================================

type ListSubmissionsRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r ListSubmissionsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.When(r.Status != "",
			validation.By(func(v interface{}) error {
				if !Status(r.Status).IsValid() {
					return validation.NewError("validation_status", "unknown status")
				}
				return nil
			}),
		)),
		validation.Field(&r.Search, validation.RuneLength(0, 200)),
		validation.Field(&r.Page, validation.Min(0), validation.Max(utils.MaxPage)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageLimit)),
	)
}

type ReviewRequest struct {
	Action          string  `json:"action"`
	Notes           *string `json:"notes"`
	RejectionReason *string `json:"rejection_reason"`
}

func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action,
			validation.Required.Error("action is required"),
			validation.In(ReviewActionApprove, ReviewActionReject, ReviewActionRequestChanges).
				Error("action must be one of approve, reject, request_changes"),
		),
		validation.Field(&r.Notes, validation.RuneLength(0, NotesMaxLength)),
		validation.Field(&r.RejectionReason,
			validation.When(r.Action == ReviewActionReject,
				validation.Required.Error("rejection reason is required when rejecting"),
				validation.By(trimmedRequired("rejection reason")),
			),
			validation.RuneLength(0, NotesMaxLength),
		),
	)
}

type PublishRequest struct {
	IsFeatured bool `json:"is_featured"`
}

type ExtendExpiryRequest struct {
	Days int `json:"days"`
}

func (r ExtendExpiryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Days,
			validation.Required.Error("days is required"),
			validation.Min(ExtendMinDays), validation.Max(ExtendMaxDays),
		),
	)
}

// BulkActionRequest applies one action to up to 50 submissions.
type BulkActionRequest struct {
	SubmissionIDs   []uuid.UUID `json:"submission_ids"`
	Action          string      `json:"action"`
	Notes           *string     `json:"notes"`
	RejectionReason *string     `json:"rejection_reason"`
	Days            int         `json:"days"`
}

func (r BulkActionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SubmissionIDs,
			validation.Required.Error("submission_ids is required"),
			validation.Length(1, BulkActionMaxIDs).Error("between 1 and 50 submission ids are allowed"),
			validation.Each(validation.By(func(v interface{}) error {
				if id, ok := v.(uuid.UUID); ok && id == uuid.Nil {
					return validation.NewError("validation_uuid", "submission id must not be nil")
				}
				return nil
			})),
		),
		validation.Field(&r.Action,
			validation.Required.Error("action is required"),
			validation.In(BulkActionApprove, BulkActionReject, BulkActionExtendExpiry).
				Error("action must be one of approve, reject, extend_expiry"),
		),
		validation.Field(&r.Notes, validation.RuneLength(0, NotesMaxLength)),
		validation.Field(&r.RejectionReason,
			validation.When(r.Action == BulkActionReject,
				validation.Required.Error("rejection reason is required when rejecting"),
				validation.By(trimmedRequired("rejection reason")),
			),
		),
		validation.Field(&r.Days,
			validation.When(r.Action == BulkActionExtendExpiry,
				validation.Required.Error("days is required for extend_expiry"),
				validation.Min(ExtendMinDays), validation.Max(ExtendMaxDays),
			),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// AuthorSubmissionResponse is what the token holder sees.
type AuthorSubmissionResponse struct {
	*Submission
	CanEdit         bool `json:"can_edit"`
	DaysUntilExpiry *int `json:"days_until_expiry"`
}

// NewAuthorSubmissionResponse evaluates the editability rule at now.
func NewAuthorSubmissionResponse(s *Submission, now time.Time) *AuthorSubmissionResponse {
	return &AuthorSubmissionResponse{
		Submission:      s,
		CanEdit:         s.CanEdit(now),
		DaysUntilExpiry: DaysUntilExpiry(s.Status, s.ExpiresAt, now),
	}
}

// AdminSubmissionResponse adds lifecycle hints for the review UI.
type AdminSubmissionResponse struct {
	*Submission
	CanEdit         bool    `json:"can_edit"`
	DaysUntilExpiry *int    `json:"days_until_expiry"`
	AllowedEvents   []Event `json:"allowed_events"`
}

func NewAdminSubmissionResponse(s *Submission, now time.Time) *AdminSubmissionResponse {
	return &AdminSubmissionResponse{
		Submission:      s,
		CanEdit:         s.CanEdit(now),
		DaysUntilExpiry: DaysUntilExpiry(s.Status, s.ExpiresAt, now),
		AllowedEvents:   AllowedEvents(s.Status),
	}
}

type ListSubmissionsResponse struct {
	Submissions []*AdminSubmissionResponse `json:"submissions"`
	Total       int                        `json:"total"`
	Page        int                        `json:"page"`
	Limit       int                        `json:"limit"`
}

type ValidateTokenResponse struct {
	Valid     bool       `json:"valid"`
	Status    Status     `json:"status,omitempty"`
	CanEdit   bool       `json:"can_edit"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type PublishResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	ArticleID    uuid.UUID `json:"article_id"`
	Slug         string    `json:"slug"`
	PublishedAt  time.Time `json:"published_at"`
}

type BulkFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

type BulkSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BulkActionResult reports per-item outcomes; one failure never aborts the batch.
type BulkActionResult struct {
	Action     string        `json:"action"`
	Successful []uuid.UUID   `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
	Summary    BulkSummary   `json:"summary"`
}

type SubmissionStats struct {
	ByStatus     map[Status]int `json:"by_status"`
	Total        int            `json:"total"`
	ExpiringSoon int            `json:"expiring_soon"`
}
