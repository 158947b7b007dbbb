package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"teslo/internal/app/product"
	"teslo/internal/app/user"
)

const productColumns = `
p.id, p.title, p.price, p.description, p.slug, p.stock, p.sizes, p.gender, p.tags, p.user_id,
ARRAY(SELECT pi.url FROM product_images pi WHERE pi.product_id = p.id ORDER BY pi.id) AS images`

func scanProduct(row interface{ Scan(dest ...any) error }) (product.Product, error) {
	var (
		p      product.Product
		id     pgtype.UUID
		userID pgtype.UUID
	)
	err := row.Scan(
		&id, &p.Title, &p.Price, &p.Description, &p.Slug, &p.Stock,
		&p.Sizes, &p.Gender, &p.Tags, &userID, &p.Images,
	)
	if err != nil {
		return product.Product{}, notFound(err)
	}

	p.ID = id.String()
	p.UserID = uuidPtr(userID)
	return p, nil
}

const listProducts = `SELECT ` + productColumns + ` FROM products p ORDER BY p.created_at, p.id LIMIT $1 OFFSET $2`

func (q *Queries) ListProducts(ctx context.Context, limit, offset int) ([]product.Product, error) {
	rows, err := q.db.Query(ctx, listProducts, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}

	return items, rows.Err()
}

const getProductByID = `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`

func (q *Queries) GetProduct(ctx context.Context, id string) (product.Product, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return product.Product{}, err
	}
	return scanProduct(q.db.QueryRow(ctx, getProductByID, uid))
}

const getProductByTerm = `
SELECT ` + productColumns + `
FROM products p
WHERE UPPER(p.title) = UPPER($1) OR p.slug = LOWER($1)
LIMIT 1`

// FindProduct looks a product up by id when term is a UUID, otherwise by
// case-insensitive title or slug.
func (q *Queries) FindProduct(ctx context.Context, term string) (product.Product, error) {
	if product.IsUUID(term) {
		return q.GetProduct(ctx, term)
	}
	return scanProduct(q.db.QueryRow(ctx, getProductByTerm, term))
}

const insertProduct = `
INSERT INTO products (title, price, description, slug, stock, sizes, gender, tags, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

func (q *Queries) insertProduct(ctx context.Context, p product.Product) (pgtype.UUID, error) {
	var owner pgtype.UUID
	if p.UserID != nil {
		var err error
		if owner, err = parseUUID(*p.UserID); err != nil {
			return owner, fmt.Errorf("invalid owner id %q", *p.UserID)
		}
	}

	var id pgtype.UUID
	err := q.db.QueryRow(ctx, insertProduct,
		p.Title, p.Price, p.Description, p.Slug, p.Stock, p.Sizes, p.Gender, p.Tags, owner,
	).Scan(&id)
	return id, err
}

const insertProductImage = `INSERT INTO product_images (url, product_id) VALUES ($1, $2)`

func (q *Queries) insertImages(ctx context.Context, productID pgtype.UUID, urls []string) error {
	for _, url := range urls {
		if _, err := q.db.Exec(ctx, insertProductImage, url, productID); err != nil {
			return err
		}
	}
	return nil
}

const deleteProductImages = `DELETE FROM product_images WHERE product_id = $1`

const updateProduct = `
UPDATE products
SET title = $2, price = $3, description = $4, slug = $5, stock = $6, sizes = $7, gender = $8, tags = $9
WHERE id = $1`

const deleteProduct = `DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id string) error {
	uid, err := parseUUID(id)
	if err != nil {
		return err
	}

	tag, err := q.db.Exec(ctx, deleteProduct, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteAllProducts = `DELETE FROM products`

func (q *Queries) DeleteAllProducts(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllProducts)
	return err
}

// CreateProduct inserts p and its images in one transaction.
func (s *Store) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	var created product.Product

	err := s.execTx(ctx, func(q *Queries) error {
		id, err := q.insertProduct(ctx, p)
		if err != nil {
			return err
		}
		if err := q.insertImages(ctx, id, p.Images); err != nil {
			return err
		}
		created, err = scanProduct(q.db.QueryRow(ctx, getProductByID, id))
		return err
	})

	return created, err
}

// UpdateProduct writes every column of p. When replaceImages is set the image set is
// replaced by p.Images within the same transaction.
func (s *Store) UpdateProduct(ctx context.Context, p product.Product, replaceImages bool) (product.Product, error) {
	uid, err := parseUUID(p.ID)
	if err != nil {
		return product.Product{}, err
	}

	var updated product.Product

	err = s.execTx(ctx, func(q *Queries) error {
		tag, err := q.db.Exec(ctx, updateProduct,
			uid, p.Title, p.Price, p.Description, p.Slug, p.Stock, p.Sizes, p.Gender, p.Tags,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if replaceImages {
			if _, err := q.db.Exec(ctx, deleteProductImages, uid); err != nil {
				return err
			}
			if err := q.insertImages(ctx, uid, p.Images); err != nil {
				return err
			}
		}

		updated, err = scanProduct(q.db.QueryRow(ctx, getProductByID, uid))
		return err
	})

	return updated, err
}

// Reseed wipes products and users and inserts the given dataset. Products without an
// owner are assigned to the first user.
func (s *Store) Reseed(ctx context.Context, users []user.User, products []product.Product) error {
	return s.execTx(ctx, func(q *Queries) error {
		if err := q.DeleteAllProducts(ctx); err != nil {
			return fmt.Errorf("delete products: %w", err)
		}
		if err := q.DeleteAllUsers(ctx); err != nil {
			return fmt.Errorf("delete users: %w", err)
		}

		var owner *string
		for i, u := range users {
			created, err := q.InsertUser(ctx, u)
			if err != nil {
				return fmt.Errorf("insert user %s: %w", u.Email, err)
			}
			if i == 0 {
				owner = &created.ID
			}
		}

		for _, p := range products {
			if p.UserID == nil {
				p.UserID = owner
			}
			id, err := q.insertProduct(ctx, p)
			if err != nil {
				return fmt.Errorf("insert product %s: %w", p.Slug, err)
			}
			if err := q.insertImages(ctx, id, p.Images); err != nil {
				return fmt.Errorf("insert images for %s: %w", p.Slug, err)
			}
		}

		return nil
	})
}
