package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-reorder-service/config"
	"github.com/oksasatya/go-reorder-service/internal/container"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
	"github.com/oksasatya/go-reorder-service/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

type client struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := &config.Config{
		AppName:             "reorder-test",
		StoreDriver:         config.StoreDriverMemory,
		JWTAccessSecret:     "access-secret",
		JWTRefreshSecret:    "refresh-secret",
		AccessTTL:           time.Minute,
		RefreshTTL:          time.Hour,
		DebugMetricsEnabled: true,
	}
	c := container.New(cfg, helpers.NewNopLogger(), container.Infra{})
	return &client{t: t, engine: NewEngine(c)}
}

func (cl *client) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	cl.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(cl.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	w := httptest.NewRecorder()
	cl.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && w.Code != http.StatusNoContent {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type product struct {
	ID       string `json:"id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type list struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"productIds"`
	Products   []product `json:"products"`
}

func (cl *client) signUp(email string) tokens {
	cl.t.Helper()
	w, env := cl.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": email, "password": "password123"})
	require.Equal(cl.t, http.StatusCreated, w.Code, w.Body.String())
	tk := decode[tokens](cl.t, env.Data)
	cl.token = tk.AccessToken
	return tk
}

func TestAPI_ReorderScenario(t *testing.T) {
	cl := newClient(t)
	cl.signUp("a@b.test")

	w, env := cl.do(http.MethodPost, "/api/reorder-lists", map[string]string{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	l := decode[list](t, env.Data)

	w, env = cl.do(http.MethodPost, "/api/reorder-lists/"+l.ID+"/products", map[string]any{"sku": "A1", "name": "Apples", "quantity": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[list](t, env.Data)
	require.Len(t, got.Products, 1)
	assert.Equal(t, 5, got.Products[0].Quantity)

	w, env = cl.do(http.MethodPost, "/api/reorder-lists/"+l.ID+"/products", map[string]any{"sku": "A1", "name": "Apples", "quantity": 99})
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[list](t, env.Data)
	require.Len(t, got.Products, 1)
	assert.Equal(t, 6, got.Products[0].Quantity)
	pid := got.Products[0].ID

	for i := 0; i < 5; i++ {
		w, env = cl.do(http.MethodPatch, "/api/reorder-products/"+pid+"/quantity", map[string]string{"type": "decrease"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "updated", decode[map[string]any](t, env.Data)["action"])
	}
	w, env = cl.do(http.MethodPatch, "/api/reorder-products/"+pid+"/quantity", map[string]string{"type": "decrease"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[map[string]any](t, env.Data)
	assert.Equal(t, "deleted", res["action"])
	assert.NotContains(t, res, "product")

	w, env = cl.do(http.MethodGet, "/api/reorder-lists/"+l.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[list](t, env.Data)
	assert.Empty(t, got.ProductIDs)
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)

	w, _ = cl.do(http.MethodPatch, "/api/reorder-products/"+pid+"/quantity", map[string]string{"type": "increase"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_AdjustValidation(t *testing.T) {
	cl := newClient(t)
	cl.signUp("a@b.test")
	_, env := cl.do(http.MethodPost, "/api/reorder-lists", map[string]string{"name": "Home"})
	l := decode[list](t, env.Data)
	_, env = cl.do(http.MethodPost, "/api/reorder-lists/"+l.ID+"/products", map[string]any{"sku": "A1", "name": "Apples", "quantity": 2})
	pid := decode[list](t, env.Data).Products[0].ID

	tests := []struct {
		name string
		body any
		want int
	}{
		{"negative set", map[string]any{"type": "set", "quantity": -1}, http.StatusUnprocessableEntity},
		{"fractional set", map[string]any{"type": "set", "quantity": 2.5}, http.StatusUnprocessableEntity},
		{"string set", map[string]any{"type": "set", "quantity": "3"}, http.StatusUnprocessableEntity},
		{"set without quantity", map[string]any{"type": "set"}, http.StatusUnprocessableEntity},
		{"set above int32", map[string]any{"type": "set", "quantity": int64(1) << 31}, http.StatusUnprocessableEntity},
		{"unknown type", map[string]any{"type": "double"}, http.StatusUnprocessableEntity},
		{"missing type", map[string]any{}, http.StatusBadRequest},
		{"set ok", map[string]any{"type": "set", "quantity": 7}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := cl.do(http.MethodPatch, "/api/reorder-products/"+pid+"/quantity", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w, env := cl.do(http.MethodGet, "/api/reorder-lists/"+l.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[list](t, env.Data).Products[0].Quantity)

	w, _ = cl.do(http.MethodPost, "/api/reorder-lists/"+l.ID+"/products", map[string]any{"sku": "B2", "name": "Bread", "quantity": int64(1) << 31})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestAPI_AuthFlow(t *testing.T) {
	cl := newClient(t)
	tk := cl.signUp("a@b.test")

	w, _ := cl.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "a@b.test", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := cl.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "nope", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be a valid email", env.Error["email"])

	w, _ = cl.do(http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@b.test", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = cl.do(http.MethodPut, "/api/profile", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = cl.do(http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@b.test", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = cl.do(http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tk.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := decode[tokens](t, env.Data)
	assert.NotEmpty(t, refreshed.AccessToken)

	w, _ = cl.do(http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tk.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = cl.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode[map[string]any](t, env.Data)["name"])

	cl.token = ""
	w, _ = cl.do(http.MethodGet, "/api/reorder-lists", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_ListsAreScopedToOwner(t *testing.T) {
	cl := newClient(t)
	cl.signUp("owner@b.test")
	owner := cl.token

	w, env := cl.do(http.MethodGet, "/api/reorder-lists", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	_, env = cl.do(http.MethodPost, "/api/reorder-lists", map[string]string{"name": "Groceries"})
	l := decode[list](t, env.Data)

	w, _ = cl.do(http.MethodPost, "/api/reorder-lists", map[string]string{"name": "Groceries"})
	assert.Equal(t, http.StatusConflict, w.Code)

	cl.signUp("intruder@b.test")
	w, _ = cl.do(http.MethodGet, "/api/reorder-lists/"+l.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = cl.do(http.MethodDelete, "/api/reorder-lists/"+l.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	cl.token = owner
	w, env = cl.do(http.MethodPatch, "/api/reorder-lists/"+l.ID, map[string]string{"name": "Weekly"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Weekly", decode[list](t, env.Data).Name)

	w, _ = cl.do(http.MethodPost, "/api/reorder-lists/"+l.ID+"/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = cl.do(http.MethodDelete, "/api/reorder-lists/"+l.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = cl.do(http.MethodGet, "/api/reorder-lists/"+l.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_SearchAndDebugVars(t *testing.T) {
	cl := newClient(t)
	cl.signUp("a@b.test")
	_, env := cl.do(http.MethodPost, "/api/reorder-lists", map[string]string{"name": "Home"})
	l := decode[list](t, env.Data)
	_, _ = cl.do(http.MethodPost, "/api/reorder-lists/"+l.ID+"/products", map[string]any{"sku": "MILK-1", "name": "Whole milk", "quantity": 1})

	w, env := cl.do(http.MethodGet, "/api/reorder-products/search?q=milk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]product](t, env.Data)
	require.Len(t, found, 1)
	assert.Equal(t, "MILK-1", found[0].SKU)

	w, _ = cl.do(http.MethodGet, "/api/reorder-products/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = cl.do(http.MethodGet, "/api/debug/vars", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reorder_products_created")
}

func TestAPI_HealthAndUnknownRoute(t *testing.T) {
	cl := newClient(t)

	w, _ := cl.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := cl.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "route not found", env.Message)
}
