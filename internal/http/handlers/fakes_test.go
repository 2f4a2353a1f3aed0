package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/hongminglow/volcano-api/internal/auth"
	"github.com/hongminglow/volcano-api/internal/models"
	"github.com/hongminglow/volcano-api/internal/storage"
)

const testSecret = "test-secret"

var errDatabaseDown = errors.New("connection refused")

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (s *fakeUserStore) CreateUser(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.users[email]; ok {
		return storage.ErrAlreadyExists
	}
	s.users[email] = models.User{Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.User{}, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, email string, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	user, ok := s.users[email]
	if !ok {
		return storage.ErrNotFound
	}
	dob, err := time.Parse(models.DateLayout, p.DOB)
	if err != nil {
		return err
	}
	user.FirstName, user.LastName, user.Address, user.DOB = &p.FirstName, &p.LastName, &p.Address, &dob
	s.users[email] = user
	return nil
}

type fakeVolcanoStore struct {
	volcanoes []models.Volcano
	err       error
	lastWith  bool
}

func (s *fakeVolcanoStore) Countries(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []string
	for _, v := range s.volcanoes {
		if !slices.Contains(out, v.Country) {
			out = append(out, v.Country)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *fakeVolcanoStore) ListVolcanoes(_ context.Context, f models.VolcanoFilter) ([]models.VolcanoSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []models.VolcanoSummary{}
	for _, v := range s.volcanoes {
		if v.Country != f.Country {
			continue
		}
		var pop *int64
		switch f.PopulatedWithin {
		case models.Within5km:
			pop = v.Population5km
		case models.Within10km:
			pop = v.Population10km
		case models.Within30km:
			pop = v.Population30km
		case models.Within100km:
			pop = v.Population100km
		}
		if f.PopulatedWithin != "" && (pop == nil || *pop <= 0) {
			continue
		}
		out = append(out, v.VolcanoSummary)
	}
	return out, nil
}

func (s *fakeVolcanoStore) GetVolcano(_ context.Context, id int64, withPopulation bool) (models.Volcano, error) {
	s.lastWith = withPopulation
	if s.err != nil {
		return models.Volcano{}, s.err
	}
	for _, v := range s.volcanoes {
		if v.ID != id {
			continue
		}
		if !withPopulation {
			v.Population5km, v.Population10km, v.Population30km, v.Population100km = nil, nil, nil, nil
		}
		return v, nil
	}
	return models.Volcano{}, storage.ErrNotFound
}

func ptr[T any](v T) *T { return &v }

func sampleVolcanoes() []models.Volcano {
	return []models.Volcano{
		{
			VolcanoSummary: models.VolcanoSummary{ID: 7, Name: "Mount Fuji", Country: "Japan", Region: "Japan, Taiwan, Marianas", Subregion: "Honshu"},
			LastEruption:   "1707 CE", Summit: 3776, Elevation: 12388, Latitude: 35.3606, Longitude: 138.7274,
			Population5km: ptr(int64(0)), Population10km: ptr(int64(0)), Population30km: ptr(int64(167000)), Population100km: ptr(int64(5000000)),
		},
		{
			VolcanoSummary: models.VolcanoSummary{ID: 8, Name: "Sakurajima", Country: "Japan", Region: "Japan, Taiwan, Marianas", Subregion: "Kyushu"},
			LastEruption:   "2023 CE", Summit: 1117, Elevation: 3665, Latitude: 31.593, Longitude: 130.657,
			Population5km: ptr(int64(4000)), Population10km: ptr(int64(200000)), Population30km: ptr(int64(800000)), Population100km: ptr(int64(2000000)),
		},
		{
			VolcanoSummary: models.VolcanoSummary{ID: 21, Name: "Erebus", Country: "Antarctica", Region: "Antarctica", Subregion: "Antarctica"},
			LastEruption:   "2022 CE", Summit: 3794, Elevation: 12448, Latitude: -77.53, Longitude: 167.17,
			Population5km: ptr(int64(0)), Population10km: ptr(int64(0)), Population30km: ptr(int64(0)), Population100km: ptr(int64(0)),
		},
	}
}

type testEnv struct {
	mux      *http.ServeMux
	users    *fakeUserStore
	volcanos *fakeVolcanoStore
	tokens   *auth.TokenManager
	handler  *UserHandler
}

func newTestEnv() *testEnv {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		mux:      http.NewServeMux(),
		users:    newFakeUserStore(),
		volcanos: &fakeVolcanoStore{volcanoes: sampleVolcanoes()},
		tokens:   auth.NewTokenManager(testSecret, 24*time.Hour),
	}
	verifier := auth.NewVerifier(testSecret)
	env.handler = NewUserHandler(env.users, env.tokens, verifier, log)
	env.handler.Register(env.mux, nil)
	NewVolcanoHandler(env.volcanos, verifier, log).Register(env.mux)
	NewMetaHandler("Test Author", "n00000000").Register(env.mux)
	return env
}

func (e *testEnv) tokenFor(email string) string {
	tok, err := e.tokens.Generate(email)
	if err != nil {
		panic(err)
	}
	return tok
}
