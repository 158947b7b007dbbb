package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"teslo/internal/app/chat"
	"teslo/internal/app/db"
	"teslo/internal/app/product"
	"teslo/internal/app/user"
	"teslo/internal/configs"
	"teslo/internal/pkg/auth/jwt"
)

const testSecret = "handler-test-secret"

// --- users ------------------------------------------------------------------

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]user.User
	order []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]user.User)}
}

func (f *fakeUsers) add(email, password, fullName string, active bool, roles ...string) user.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		IsActive:     active,
		Roles:        append([]string{user.RoleUser}, roles...),
		PasswordHash: string(hash),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.order = append(f.order, u.ID)
	return u
}

func (f *fakeUsers) CreateUser(_ context.Context, email, passwordHash, fullName string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.Email == email {
			return user.User{}, &pgconn.PgError{Code: "23505"}
		}
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		IsActive:     true,
		Roles:        []string{user.RoleUser},
		PasswordHash: passwordHash,
	}
	f.byID[u.ID] = u
	f.order = append(f.order, u.ID)
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, db.ErrNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return user.User{}, db.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) DisplayNameOf(ctx context.Context, id string) (string, error) {
	u, err := f.GetUserByID(ctx, id)
	return u.FullName, err
}

// --- products ---------------------------------------------------------------

type fakeProducts struct {
	mu    sync.Mutex
	items map[string]product.Product
	seq   []string

	lastReplaceImages bool
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: make(map[string]product.Product)}
}

func (f *fakeProducts) CreateProduct(_ context.Context, p product.Product) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.items {
		if existing.Slug == p.Slug || strings.EqualFold(existing.Title, p.Title) {
			return product.Product{}, &pgconn.PgError{Code: "23505"}
		}
	}

	p.ID = uuid.NewString()
	f.items[p.ID] = p
	f.seq = append(f.seq, p.ID)
	return p, nil
}

func (f *fakeProducts) ListProducts(_ context.Context, limit, offset int) ([]product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []product.Product{}
	for i, id := range f.seq {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindProduct(ctx context.Context, term string) (product.Product, error) {
	if product.IsUUID(term) {
		return f.GetProduct(ctx, term)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.items {
		if strings.EqualFold(p.Title, term) || p.Slug == strings.ToLower(term) {
			return p, nil
		}
	}
	return product.Product{}, db.ErrNotFound
}

func (f *fakeProducts) GetProduct(_ context.Context, id string) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.items[id]
	if !ok {
		return product.Product{}, db.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, p product.Product, replaceImages bool) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.items[p.ID]
	if !ok {
		return product.Product{}, db.ErrNotFound
	}
	if !replaceImages {
		p.Images = current.Images
	}
	f.lastReplaceImages = replaceImages
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// --- seeder -----------------------------------------------------------------

type fakeSeeder struct {
	users    []user.User
	products []product.Product
}

func (f *fakeSeeder) Reseed(_ context.Context, users []user.User, products []product.Product) error {
	f.users = users
	f.products = products
	return nil
}

// --- storage ----------------------------------------------------------------

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	public  string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?sig=1", nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	if f.public == "" {
		return ""
	}
	return f.public + "/" + key
}

func (f *fakeStorage) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- harness ----------------------------------------------------------------

type testEnv struct {
	deps     *AppDeps
	users    *fakeUsers
	products *fakeProducts
	seeder   *fakeSeeder
	storage  *fakeStorage
	handler  http.Handler
}

func newTestEnv(t *testing.T, withStorage bool) *testEnv {
	t.Helper()

	users := newFakeUsers()
	env := &testEnv{
		users:    users,
		products: newFakeProducts(),
		seeder:   &fakeSeeder{},
	}

	registry := chat.NewRegistry(users)
	gateway := chat.NewGateway(registry, jwt.NewVerifier(testSecret), time.Second)
	t.Cleanup(gateway.Shutdown)

	env.deps = &AppDeps{
		Config: &configs.AppConfig{
			Environment: "development",
			JWTSecret:   testSecret,
			SeedEnabled: true,
		},
		Gateway:      gateway,
		Users:        users,
		Products:     env.products,
		Seeder:       env.seeder,
		PasswordCost: bcrypt.MinCost,
	}

	if withStorage {
		env.storage = newFakeStorage()
		env.deps.StorageService = env.storage
	}

	env.handler = Router(env.deps)
	return env
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)

	var out apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func tokenFor(t *testing.T, u user.User) string {
	t.Helper()

	token, err := jwt.GenerateToken(u.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}
