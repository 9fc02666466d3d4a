package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"editorial-backend/internal/shared/utils"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	FeaturedLimit    = 10
	SearchMinLength  = 2
	SearchMaxLength  = 200
)

type ListArticlesRequest struct {
	Category string `form:"category"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (r ListArticlesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.RuneLength(0, 100)),
		validation.Field(&r.Page, validation.Min(0), validation.Max(utils.MaxPage)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageLimit)),
	)
}

type SearchArticlesRequest struct {
	Query string `form:"q"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (r *SearchArticlesRequest) Normalize() {
	r.Query = strings.Join(strings.Fields(r.Query), " ")
}

func (r SearchArticlesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query,
			validation.Required.Error("search query is required"),
			validation.RuneLength(SearchMinLength, SearchMaxLength),
		),
		validation.Field(&r.Page, validation.Min(0), validation.Max(utils.MaxPage)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageLimit)),
	)
}

type SetFeaturedRequest struct {
	IsFeatured *bool `json:"is_featured"`
}

func (r SetFeaturedRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsFeatured, validation.NotNil.Error("is_featured is required")),
	)
}

type ListArticlesResponse struct {
	Articles []*ArticleSummary `json:"articles"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}
