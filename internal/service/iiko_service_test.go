package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restogateway/internal/config"
)

type iikoFake struct {
	tokenHits atomic.Int32
	menuHits  atomic.Int32
	tokenFail bool
}

func (f *iikoFake) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/1/access_token":
			f.tokenHits.Add(1)
			if f.tokenFail {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"token": "iiko-token"}`))
		case "/api/2/menu/by_id":
			f.menuHits.Add(1)
			if r.Header.Get("Authorization") != "Bearer iiko-token" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(`{"id": "62269", "name": "Poly", "itemCategories": []}`))
		case "/api/1/organizations":
			_, _ = w.Write([]byte(`{"organizations": [{"id": "org-1", "name": "Blackchops"}]}`))
		case "/api/2/menu":
			_, _ = w.Write([]byte(`{"externalMenus": [{"id": "62269", "name": "Poly delivery"}]}`))
		default:
			http.NotFound(w, r)
		}
	}
}

func newIikoForTest(t *testing.T, f *iikoFake) *IikoService {
	t.Helper()
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)
	cfg := &config.Config{
		IikoAPIURL:   ts.URL,
		IikoAPILogin: "login-key",
		IikoMenus: map[int]config.IikoMenuRef{
			2: {OrganizationID: "org-1", ExternalMenuID: "62269"},
		},
	}
	return NewIikoService(cfg, zerolog.Nop())
}

func TestGetMenuForRestaurantsIsolatesFailures(t *testing.T) {
	fake := &iikoFake{}
	svc := newIikoForTest(t, fake)

	results := svc.GetMenuForRestaurants(context.Background(), []int{99, 2})
	require.Len(t, results, 2)

	// Order mirrors the input even though fetches run concurrently.
	assert.Equal(t, 99, results[0].RestaurantID)
	assert.Equal(t, "no menu mapping for restaurant 99", results[0].Error)
	assert.Nil(t, results[0].Menu)

	assert.Equal(t, 2, results[1].RestaurantID)
	assert.Empty(t, results[1].Error)
	assert.JSONEq(t, `{"id": "62269", "name": "Poly", "itemCategories": []}`, string(results[1].Menu))
}

func TestAccessTokenCachedAcrossCalls(t *testing.T) {
	fake := &iikoFake{}
	svc := newIikoForTest(t, fake)

	for i := 0; i < 3; i++ {
		results := svc.GetMenuForRestaurants(context.Background(), []int{2})
		require.Empty(t, results[0].Error)
	}

	assert.Equal(t, int32(1), fake.tokenHits.Load())
	assert.Equal(t, int32(3), fake.menuHits.Load())
}

func TestConcurrentCallersBothSucceed(t *testing.T) {
	fake := &iikoFake{}
	svc := newIikoForTest(t, fake)

	var wg sync.WaitGroup
	errs := make([]string, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.GetMenuForRestaurants(context.Background(), []int{2})[0].Error
		}()
	}
	wg.Wait()

	// Both callers may have fetched a token; both must end up with a menu.
	assert.Empty(t, errs[0])
	assert.Empty(t, errs[1])
	assert.GreaterOrEqual(t, fake.tokenHits.Load(), int32(1))
}

func TestTokenFailureSkipsMenuFetch(t *testing.T) {
	fake := &iikoFake{tokenFail: true}
	svc := newIikoForTest(t, fake)

	results := svc.GetMenuForRestaurants(context.Background(), []int{2})
	require.Len(t, results, 1)
	assert.Equal(t, "failed to retrieve menu from POS", results[0].Error)
	assert.Equal(t, int32(0), fake.menuHits.Load())
}

func TestGetOrganizations(t *testing.T) {
	svc := newIikoForTest(t, &iikoFake{})

	orgs, err := svc.GetOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "org-1", orgs[0].ID)
	assert.Equal(t, "Blackchops", orgs[0].Name)
}

func TestGetExternalMenus(t *testing.T) {
	svc := newIikoForTest(t, &iikoFake{})

	menus, err := svc.GetExternalMenus(context.Background())
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "62269", menus[0].ID)
}
