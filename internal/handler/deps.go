package handler

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"teslo/internal/app/chat"
	"teslo/internal/app/product"
	"teslo/internal/app/storage"
	"teslo/internal/app/user"
	"teslo/internal/configs"
)

// UserStore is the account persistence used by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, fullName string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByID(ctx context.Context, id string) (user.User, error)
}

// ProductStore is the catalog persistence used by the product handlers.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]product.Product, error)
	FindProduct(ctx context.Context, term string) (product.Product, error)
	GetProduct(ctx context.Context, id string) (product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product, replaceImages bool) (product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Seeder replaces all users and products with a fixed dataset.
type Seeder interface {
	Reseed(ctx context.Context, users []user.User, products []product.Product) error
}

type AppDeps struct {
	Config   *configs.AppConfig
	Gateway  *chat.Gateway
	Users    UserStore
	Products ProductStore
	Seeder   Seeder

	// StorageService is nil when object storage is not configured.
	StorageService storage.StorageService

	// PasswordCost is the bcrypt cost for new hashes; zero means bcrypt.DefaultCost.
	PasswordCost int
}

func (d *AppDeps) passwordCost() int {
	if d.PasswordCost == 0 {
		return bcrypt.DefaultCost
	}
	return d.PasswordCost
}
