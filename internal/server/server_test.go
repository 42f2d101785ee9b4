package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
	"github.com/vulcanent/vulcanweb/internal/config"
	"github.com/vulcanent/vulcanweb/internal/content"
	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var csrfFieldRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type fakeMailer struct {
	mu     sync.Mutex
	emails []service.Email
	err    error
}

func (m *fakeMailer) Send(_ context.Context, email service.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, email)
	return nil
}

func (m *fakeMailer) sent() []service.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Email(nil), m.emails...)
}

type testSite struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
	mailer *fakeMailer
}

func newTestSite(t *testing.T, environ map[string]string) *testSite {
	t.Helper()
	cfg, err := config.Parse(environ)
	require.NoError(t, err)
	site, err := content.Load()
	require.NoError(t, err)

	mailer := &fakeMailer{}
	srv, err := NewServer(cfg, Dependencies{Site: site, Mailer: mailer, Logger: logging.NewNopLogger()})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testSite{t: t, server: ts, client: client, mailer: mailer}
}

func (s *testSite) get(path string) (*http.Response, string) {
	s.t.Helper()
	resp, err := s.client.Get(s.server.URL + path)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(body)
}

func (s *testSite) post(path string, form url.Values, headers map[string]string) (*http.Response, string) {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(body)
}

func (s *testSite) csrfToken(path string) string {
	s.t.Helper()
	resp, body := s.get(path)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	m := csrfFieldRe.FindStringSubmatch(body)
	require.Len(s.t, m, 2, "page has no csrf token")
	return m[1]
}

func contactForm(token string) url.Values {
	return url.Values{
		"csrf_token": {token},
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {"ada@example.com"},
		"message":    {"Hello from the test suite"},
	}
}

var xhr = map[string]string{"X-Requested-With": "XMLHttpRequest"}

func TestPagesRender(t *testing.T) {
	site := newTestSite(t, map[string]string{})

	for _, path := range []string{"/", "/team", "/news", "/products", "/contact", "/team/"} {
		t.Run(path, func(t *testing.T) {
			resp, body := site.get(path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "Vulcan Enterprises")
			assert.Contains(t, body, `id="newsletter-form"`)
			assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestNotFound(t *testing.T) {
	site := newTestSite(t, map[string]string{})

	resp, body := site.get("/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}

func TestHealthAndStatic(t *testing.T) {
	site := newTestSite(t, map[string]string{})

	resp, body := site.get("/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health struct {
		Success bool                  `json:"success"`
		Data    common.HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.True(t, health.Success)
	assert.Equal(t, "ok", health.Data.Status)
	assert.Equal(t, "disabled", health.Data.Archive)
	assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))

	resp, _ = site.get("/static/css/site.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}

func TestCSRFRejections(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/")

	resp, body := site.post("/", url.Values{"email": {"reader@example.com"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "The CSRF token is missing.")

	resp, body = site.post("/", url.Values{"email": {"reader@example.com"}, "csrf_token": {token + "x"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "The CSRF token is invalid.")

	resp, body = site.post("/contact", contactForm(""), xhr)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, string(common.ErrCodeCSRF))

	assert.Empty(t, site.mailer.sent())
}

func TestCSRFHeaderAccepted(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/")

	form := contactForm("")
	form.Del("csrf_token")
	resp, _ := site.post("/contact", form, map[string]string{"X-CSRFToken": token})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Len(t, site.mailer.sent(), 1)
}

func TestHomeContactSubmission(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/")

	resp, _ := site.post("/", contactForm(token), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	sent := site.mailer.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Contact Form Submission from Ada Lovelace", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Hello from the test suite")

	_, body := site.get("/")
	assert.Contains(t, body, "Your message has been sent. Thank you!")

	// Flashes are shown once
	_, body = site.get("/")
	assert.NotContains(t, body, "Your message has been sent. Thank you!")
}

func TestHomeNewsletterSubmissionXHR(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/")

	resp, body := site.post("/", url.Values{"email": {"reader@example.com"}, "csrf_token": {token}}, xhr)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "Thank you for subscribing to our newsletter!", out.Data.Message)

	sent := site.mailer.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Newsletter Subscription", sent[0].Subject)
}

func TestHomeUnrecognizedForm(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/")

	resp, _ := site.post("/", url.Values{"email": {"reader@example.com"}, "phone": {"555"}, "csrf_token": {token}}, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Empty(t, site.mailer.sent())

	_, body := site.get("/")
	assert.NotContains(t, body, `class="alert`)
}

func TestContactValidationFailure(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/contact")

	form := contactForm(token)
	form.Set("email", "not-an-email")
	resp, _ := site.post("/contact", form, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get("Location"))
	assert.Empty(t, site.mailer.sent())

	_, body := site.get("/contact")
	assert.Contains(t, body, "Please check the form and try again.")
}

func TestSendFailureFlashes(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	site.mailer.err = errors.New("smtp down")
	token := site.csrfToken("/contact")

	resp, _ := site.post("/contact", contactForm(token), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := site.get("/contact")
	assert.Contains(t, body, "There was an error sending your message. Please try again later.")

	resp, body = site.post("/", url.Values{"email": {"reader@example.com"}, "csrf_token": {token}}, xhr)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "There was an error processing your subscription. Please try again later.")
}

func TestFormRateLimit(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/")

	for i := 0; i < 5; i++ {
		resp, _ := site.post("/", contactForm(token), nil)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		site.get("/") // clear the flash
	}
	require.Len(t, site.mailer.sent(), 5)

	resp, _ := site.post("/", contactForm(token), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Len(t, site.mailer.sent(), 5)

	_, body := site.get("/")
	assert.Contains(t, body, "Too many requests. Please try again later.")

	// XHR callers get a 429
	resp, body = site.post("/", contactForm(token), xhr)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, string(common.ErrCodeTooManyRequests))

	// The contact page has its own budget
	resp, _ = site.post("/contact", contactForm(token), nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Len(t, site.mailer.sent(), 6)
}

func TestDefaultRateLimit(t *testing.T) {
	site := newTestSite(t, map[string]string{"RATELIMIT_DEFAULT": "3 per hour"})

	for i := 0; i < 3; i++ {
		resp, _ := site.get("/team")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "3", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, body := site.get("/team")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Too many requests. Please try again later.")
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Exempt paths keep working
	resp, _ = site.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimitedHomeDoesNotLoop(t *testing.T) {
	site := newTestSite(t, map[string]string{"RATELIMIT_DEFAULT": "2 per hour"})
	token := site.csrfToken("/")

	// the token fetch used one request, the form post uses the other
	resp, _ := site.post("/", contactForm(token), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// over the limit: the post is sent home with a flash
	resp, _ = site.post("/", contactForm(token), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	// home is over the limit too, so it answers once instead of redirecting again
	for i := 0; i < 3; i++ {
		resp, body := site.get("/")
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "attempt %d", i+1)
		assert.Empty(t, resp.Header.Get("Location"))
		assert.Contains(t, body, "Too many requests. Please try again later.")
	}
}

func TestOversizedFormIsNotReportedAsCSRF(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	token := site.csrfToken("/contact")

	form := contactForm(token)
	form.Set("message", strings.Repeat("x", 70<<10))
	resp, body := site.post("/contact", form, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, body, "The submitted form is too large.")
	assert.NotContains(t, body, "The CSRF token is missing.")
	assert.Empty(t, site.mailer.sent())
}

func TestRateLimitDisabled(t *testing.T) {
	site := newTestSite(t, map[string]string{"RATELIMIT_ENABLED": "false", "RATELIMIT_DEFAULT": "1 per hour"})

	for i := 0; i < 3; i++ {
		resp, _ := site.get("/news")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
