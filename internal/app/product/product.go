/*
Package product contains the catalog model, slug normalization and input validation.
*/
package product

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Genders accepted by the catalog.
var Genders = []string{"men", "women", "kid", "unisex"}

// Product is one catalog entry. Images are plain URLs.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Slug        string   `json:"slug"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	UserID      *string  `json:"userId,omitempty"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Sizes       []string `json:"sizes"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// UpdateInput is the body of a partial update. Nil fields are left unchanged;
// a non-nil Images replaces the whole image set.
type UpdateInput struct {
	Title       *string   `json:"title,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Description *string   `json:"description,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

// Slugify lowercases s, turns spaces into underscores and strips apostrophes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "'", "")
}

// IsUUID reports whether term parses as a UUID.
func IsUUID(term string) bool {
	return uuid.Validate(term) == nil
}

// Build validates in and returns the product to insert, owned by userID.
// The slug defaults to the title.
func (in CreateInput) Build(userID string) (Product, bool) {
	p := Product{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Sizes:       in.Sizes,
		Gender:      in.Gender,
		Tags:        in.Tags,
		Images:      in.Images,
		UserID:      &userID,
	}

	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}

	p.Slug = p.Title
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		p.Slug = *in.Slug
	}
	p.Slug = Slugify(p.Slug)

	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	return p, p.valid()
}

// Apply merges in onto p and reports whether the result is valid.
func (in UpdateInput) Apply(p Product) (Product, bool) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = *in.Sizes
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.Images != nil {
		p.Images = *in.Images
	}

	p.Slug = Slugify(p.Slug)

	return p, p.valid()
}

func (p Product) valid() bool {
	switch {
	case p.Title == "", p.Slug == "":
		return false
	case p.Price < 0, p.Stock < 0:
		return false
	case len(p.Sizes) == 0:
		return false
	case !slices.Contains(Genders, p.Gender):
		return false
	}
	return true
}
