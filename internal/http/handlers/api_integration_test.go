package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/server"
	"github.com/hongminglow/blog-be/internal/storage/postgres"
)

// TestAPIIntegration exercises register, login and the post lifecycle against a live Postgres.
func TestAPIIntegration(t *testing.T) {
	if os.Getenv("RUN_API_INTEGRATION") != "true" {
		t.Skip("set RUN_API_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	t.Setenv("STORAGE_DRIVER", config.DriverPostgres)
	if os.Getenv("JWT_SECRET") == "" {
		t.Setenv("JWT_SECRET", "integration-test-secret")
	}
	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	require.NoError(t, err)
	defer store.Close()

	ts := httptest.NewServer(server.New(cfg, store, logging.NewNop()).Handler())
	defer ts.Close()
	base := ts.URL + cfg.APIPrefix

	suffix := time.Now().UnixNano()
	name := fmt.Sprintf("apitest_%d", suffix)
	email := fmt.Sprintf("%s@example.com", name)
	password := fmt.Sprintf("Pass!%d", suffix)

	var reg tokenBody
	status := call(t, http.MethodPost, base+"/users/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &reg)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, strings.TrimSpace(reg.Token))

	status = call(t, http.MethodPost, base+"/users/register", "", map[string]string{
		"name":     name + "_2",
		"email":    email,
		"password": password,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var login tokenBody
	status = call(t, http.MethodPost, base+"/users/login", "", map[string]string{"email": email, "password": password}, &login)
	require.Equal(t, http.StatusOK, status)

	var post models.Post
	status = call(t, http.MethodPost, base+"/posts", login.Token, map[string]any{"title": "integration"}, &post)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, post.IsHidden)

	var updated int64
	status = call(t, http.MethodPut, base+"/posts", login.Token, map[string]any{"id": post.ID, "isHidden": false}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), updated)

	var deleted int64
	status = call(t, http.MethodDelete, base+"/posts", login.Token, map[string]any{"id": post.ID}, &deleted)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), deleted)

	t.Logf("user %s registered, logged in and cycled post %d", name, post.ID)
}

type tokenBody struct {
	Token string `json:"token"`
}

func call(t *testing.T, method, url, token string, payload, out any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
