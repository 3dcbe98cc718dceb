package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"blog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	assert.Equal(t, http.StatusOK, c.get("/health/live").status)

	resp := c.get("/health/ready")
	require.Equal(t, http.StatusOK, resp.status)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.body), &body))
	assert.Equal(t, "healthy", body["database"])
	assert.Equal(t, "healthy", body["redis"])

	env.redis.Close()
	resp = c.get("/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, resp.status)
}

func TestReadiness_WithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	env.server.redis = nil

	resp := env.client(t).get("/health/ready")
	require.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, `"redis":"disabled"`)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.get("/")

	resp := c.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, "blog_forbidden_total")
}

func TestPlaceholders(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/about", "/contact"} {
		resp := env.client(t).get(path)
		assert.Equal(t, http.StatusNotImplemented, resp.status, path)
		assert.Contains(t, resp.body, "Not implemented", path)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.client(t).get("/nowhere").status)
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)
	resp := env.client(t).get("/")
	assert.NotEmpty(t, resp.header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", resp.header.Get("X-Content-Type-Options"))
}

var csrfField = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func TestCSRF(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.CSRFEnabled = true })
	c := env.client(t)

	form := url.Values{"email": {"angela@example.com"}, "password": {"secret"}, "name": {"Angela"}}
	assert.Equal(t, http.StatusForbidden, c.post("/register", form).status)
	assert.Equal(t, int64(0), countUsers(t, env))

	page := c.get("/register")
	m := csrfField.FindStringSubmatch(page.body)
	require.Len(t, m, 2)

	form.Set("_csrf", m[1])
	resp := c.post("/register", form)
	assert.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, int64(1), countUsers(t, env))
}
