package app_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/pkg/app"
	"github.com/shashiranjanraj/estoque/pkg/middleware"
	"github.com/shashiranjanraj/estoque/pkg/storage"
	"github.com/shashiranjanraj/estoque/pkg/testkit"
)

var dbSeq atomic.Int64

func newApp(t *testing.T, opts app.Options) *app.Application {
	t.Helper()
	ctx := context.Background()
	adapter, err := repositories.Open(ctx, repositories.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:app_%d?mode=memory&cache=shared", dbSeq.Add(1)),
	})
	require.NoError(t, err)

	a := app.New(adapter, opts)
	t.Cleanup(func() { _ = a.Close(ctx) })
	return a
}

func do(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProductScenarios(t *testing.T) {
	testkit.RunDir(t, newApp(t, app.Options{}).Handler(), "testdata/produtos")
}

func TestUserScenarios(t *testing.T) {
	testkit.RunDir(t, newApp(t, app.Options{}).Handler(), "testdata/usuarios")
}

func TestRootReportsDriver(t *testing.T) {
	h := newApp(t, app.Options{}).Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","driver":"sqlite"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/test", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"API funcionando corretamente!"}`, rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newApp(t, app.Options{}).Handler()

	rec := do(t, h, http.MethodGet, "/api/nada", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rota não encontrada")

	rec = do(t, h, http.MethodPatch, "/api/produtos", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Método não permitido")
}

func TestResponsesCarryRequestID(t *testing.T) {
	h := newApp(t, app.Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/api/test", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	h := newApp(t, app.Options{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/produtos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGraphQLReadsThroughServices(t *testing.T) {
	a := newApp(t, app.Options{})
	_, err := a.Products.Create(context.Background(), requests.ProductRequest{
		Nome: "Mouse", Preco: "89.9", Quantidade: "3",
	})
	require.NoError(t, err)

	rec := do(t, a.Handler(), http.MethodPost, "/graphql",
		`{"query":"{ produtos { id nome preco quantidade } }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":{"produtos":[{"id":"1","nome":"Mouse","preco":89.9,"quantidade":3}]}}`,
		rec.Body.String())

	rec = do(t, a.Handler(), http.MethodGet,
		"/graphql?query="+url.QueryEscape(`{ produto(id: "42") { nome } }`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Produto não encontrado")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newApp(t, app.Options{}).Handler()
	do(t, h, http.MethodGet, "/api/test", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "estoque_")
}

func TestRateLimitRejectsOverflow(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(1, time.Minute)
	t.Cleanup(limiter.Close)
	h := newApp(t, app.Options{Limiter: limiter}).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/test", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/api/test", "").Code)
}

func TestConcurrentRegistrationHasOneWinner(t *testing.T) {
	a := newApp(t, app.Options{})
	h := a.Handler()
	body := `{"usuario":"corrida","email":"corrida@example.com","senha":"segredo"}`

	const n = 16
	codes := make([]int, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			codes[i] = do(t, h, http.MethodPost, "/api/usuarios", body).Code
		}()
	}
	close(start)
	wg.Wait()

	var created, rejected int
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, rejected)

	u, err := a.Users.FindByUsername(context.Background(), "corrida")
	require.NoError(t, err)
	assert.Equal(t, "corrida@example.com", u.Email)
}

func TestSeedIsIdempotent(t *testing.T) {
	a := newApp(t, app.Options{})
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, a.Seed(ctx, &out))
	require.NoError(t, a.Seed(ctx, &out))
	assert.Contains(t, out.String(), "produtos")

	products, err := a.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	admin, err := a.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@estoque.local", admin.Email)
}

func TestExportWritesSnapshot(t *testing.T) {
	a := newApp(t, app.Options{})
	ctx := context.Background()
	_, err := a.Products.Create(ctx, requests.ProductRequest{Nome: "Teclado", Preco: "150", Quantidade: "2"})
	require.NoError(t, err)

	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "")
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	path, err := a.Export(ctx, disk, now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "exports/produtos-20260301T123000"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	require.NoError(t, err)

	var snap app.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "sqlite", snap.Driver)
	assert.Equal(t, 1, snap.Total)
	require.Len(t, snap.Produtos, 1)
	assert.Equal(t, "Teclado", snap.Produtos[0].Name)
	assert.True(t, snap.GeneratedAt.Equal(now))
}

func TestPrintRoutesListsNamedRoutes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, app.PrintRoutes(&out))

	for _, name := range []string{"produtos.index", "produtos.destroy", "usuarios.login", "usuarios.email", "api.test"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestProductEventsReachSSEStream(t *testing.T) {
	a := newApp(t, app.Options{})
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/sse/produtos")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Eventually(t, func() bool { return a.Stream.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err = a.Products.Create(context.Background(), requests.ProductRequest{Nome: "Monitor", Preco: "999", Quantidade: "1"})
	require.NoError(t, err)

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, ":") {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, "event: produto.criado", lines[0])
	assert.Contains(t, lines[1], `"nome":"Monitor"`)
}

func TestCloseStopsFeedAndStorage(t *testing.T) {
	ctx := context.Background()
	adapter, err := repositories.Open(ctx, repositories.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:app_%d?mode=memory&cache=shared", dbSeq.Add(1)),
	})
	require.NoError(t, err)

	a := app.New(adapter, app.Options{})
	require.NoError(t, a.Close(ctx))

	assert.Equal(t, 0, a.Feed.ClientCount())
	assert.Error(t, adapter.Ping(ctx))
}
