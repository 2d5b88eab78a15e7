package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/autocare/internal/identity/entity"
	"github.com/shandysiswandi/autocare/internal/pkg/clock"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

// sha256("password")
const legacyPasswordDigest = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"

type fakeRepo struct {
	mu    sync.Mutex
	users map[int64]*entity.NewUser
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*entity.NewUser{}}
}

func (f *fakeRepo) byEmail(email string) *entity.NewUser {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}

	return nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &entity.User{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u := f.byEmail(email)
	if u == nil {
		return nil, goerror.ErrNotFound
	}

	return &entity.User{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (f *fakeRepo) GetUserCredentialByID(_ context.Context, id int64) (*entity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &entity.UserCredential{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}

func (f *fakeRepo) GetUserCredentialByEmail(_ context.Context, email string) (*entity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u := f.byEmail(email)
	if u == nil {
		return nil, goerror.ErrNotFound
	}

	return &entity.UserCredential{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, in entity.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.byEmail(in.Email) != nil {
		return goerror.ErrConflict
	}
	f.users[in.ID] = &in

	return nil
}

func (f *fakeRepo) UpdateUserPassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return goerror.ErrNotFound
	}
	u.PasswordHash = passwordHash

	return nil
}

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type fakeIdempotency struct {
	mu   sync.Mutex
	done map[string]bool
	keys []string
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	if f.done[key] {
		f.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	f.done[key] = true
	f.mu.Unlock()

	return nil
}

type fixture struct {
	uc    *Usecase
	repo  *fakeRepo
	idemp *fakeIdempotency
	codec token.Codec
	clk   *clock.Manual
	pw    *hash.Password
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  login_url: /ui/login
  redirect_url: /ui/dashboard
token:
  ttl_minutes: 60
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	pw, err := hash.NewPassword(hash.Config{Scheme: hash.SchemeBcrypt, BcryptCost: 4})
	if err != nil {
		t.Fatalf("password: %v", err)
	}

	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	codec, err := token.NewHMAC(token.Config{Secret: []byte("test-secret"), TTL: time.Hour, Clock: clk})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	repo := newFakeRepo()
	idemp := &fakeIdempotency{done: map[string]bool{}}

	uc := New(Dependency{
		RepoDB:      repo,
		Idempotency: idemp,
		Validator:   v,
		Config:      cfg,
		Password:    pw,
		UID:         &seqID{next: 41},
		Codec:       codec,
		Instrument:  instrument.NewNoop(),
	})

	return &fixture{uc: uc, repo: repo, idemp: idemp, codec: codec, clk: clk, pw: pw}
}

func (f *fixture) seed(t *testing.T, id int64, email, password string) {
	t.Helper()

	h, err := f.pw.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	f.repo.users[id] = &entity.NewUser{ID: id, Name: "Seed User", Email: email, PasswordHash: string(h)}
}

func authCtx(sub string) context.Context {
	return token.SetAuth(context.Background(), token.Claims{token.ClaimSubject: sub})
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("code = %v, want %v (msg %q)", gerr.Code(), want, gerr.Msg())
	}
}
