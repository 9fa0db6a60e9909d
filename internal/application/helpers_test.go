package application

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

type fixture struct {
	store   *memory.Store
	users   *UserService
	tokens  *TokenService
	auth    *AuthService
	reorder *ReorderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	users := NewUserService(store.Users(), nil)
	users.hash = func(p string) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		return string(b), err
	}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	tokens := NewTokenService(jwt, store.Users(), nil)
	return &fixture{
		store:   store,
		users:   users,
		tokens:  tokens,
		auth:    NewAuthService(users, tokens, nil, nil),
		reorder: NewReorderService(store.ReorderLists(), store.ReorderProducts(), nil),
	}
}

func (f *fixture) signUp(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return p.err
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]entity.ReorderProduct
	removed []string
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.ReorderProduct{}} }

func (x *fakeIndex) Index(_ context.Context, _ string, p entity.ReorderProduct) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs[p.ID] = p
	return nil
}

func (x *fakeIndex) Remove(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	x.removed = append(x.removed, id)
	return nil
}

func (x *fakeIndex) Search(_ context.Context, _ string, q string, _ int) ([]entity.ReorderProduct, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []entity.ReorderProduct
	for _, p := range x.docs {
		if strings.Contains(p.Name, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUploader struct {
	object string
	body   string
}

func (u *fakeUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.object, u.body = objectPath, string(b)
	return "https://storage.test/" + objectPath, nil
}
