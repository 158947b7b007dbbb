/*
Package seed loads the embedded demo dataset used to reset the catalog.
*/
package seed

import (
	_ "embed"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"teslo/internal/app/product"
	"teslo/internal/app/user"
)

//go:embed seed.yaml
var rawDataset []byte

type seedUser struct {
	Email    string   `yaml:"email"`
	FullName string   `yaml:"fullName"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

type seedProduct struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Slug        string   `yaml:"slug"`
	Stock       int      `yaml:"stock"`
	Sizes       []string `yaml:"sizes"`
	Gender      string   `yaml:"gender"`
	Tags        []string `yaml:"tags"`
	Images      []string `yaml:"images"`
}

// Dataset is the parsed seed file.
type Dataset struct {
	Users    []seedUser    `yaml:"users"`
	Products []seedProduct `yaml:"products"`
}

// Load parses the embedded dataset.
func Load() (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(rawDataset, &ds); err != nil {
		return nil, fmt.Errorf("parse seed dataset: %w", err)
	}
	return &ds, nil
}

// BuildUsers hashes every password with the given bcrypt cost.
func (ds *Dataset) BuildUsers(cost int) ([]user.User, error) {
	users := make([]user.User, 0, len(ds.Users))

	for _, su := range ds.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", su.Email, err)
		}

		users = append(users, user.User{
			Email:        user.NormalizeEmail(su.Email),
			FullName:     su.FullName,
			IsActive:     true,
			Roles:        su.Roles,
			PasswordHash: string(hash),
		})
	}

	return users, nil
}

// BuildProducts validates every product. Owners are left unset.
func (ds *Dataset) BuildProducts() ([]product.Product, error) {
	products := make([]product.Product, 0, len(ds.Products))

	for _, sp := range ds.Products {
		in := product.CreateInput{
			Title:  sp.Title,
			Price:  &sp.Price,
			Stock:  &sp.Stock,
			Sizes:  sp.Sizes,
			Gender: sp.Gender,
			Tags:   sp.Tags,
			Images: sp.Images,
		}
		if sp.Description != "" {
			in.Description = &sp.Description
		}
		if sp.Slug != "" {
			in.Slug = &sp.Slug
		}

		p, ok := in.Build("")
		if !ok {
			return nil, fmt.Errorf("invalid seed product %q", sp.Title)
		}
		p.UserID = nil

		products = append(products, p)
	}

	return products, nil
}
