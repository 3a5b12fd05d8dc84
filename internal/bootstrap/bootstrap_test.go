package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseportal/internal/app/repositories/sqlite"
	"github.com/yigit/courseportal/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

type portal struct {
	t      *testing.T
	server *httptest.Server
	path   string
}

func testConfig(path string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = path
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = "1h"
	cfg.Session.CookieName = "portal_session"
	cfg.Admin.Secret = "admin123"
	return cfg
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.db")
	store, err := sqlite.OpenAndMigrate(context.Background(), path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := testConfig(path)
	deps, err := BuildDependencies(cfg, store, zerolog.Nop())
	require.NoError(t, err)

	server := httptest.NewServer(SetupRouter(cfg, deps, zerolog.Nop()))
	t.Cleanup(server.Close)
	return &portal{t: t, server: server, path: path}
}

// client returns an HTTP client with its own cookie jar
func (p *portal) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(p.t, err)
	return &http.Client{Jar: jar}
}

func (p *portal) get(c *http.Client, path string) (int, envelope) {
	p.t.Helper()
	resp, err := c.Get(p.server.URL + path)
	require.NoError(p.t, err)
	return decode(p.t, resp)
}

func (p *portal) postForm(c *http.Client, path string, form url.Values) (int, envelope) {
	p.t.Helper()
	resp, err := c.PostForm(p.server.URL+path, form)
	require.NoError(p.t, err)
	return decode(p.t, resp)
}

func (p *portal) postJSON(c *http.Client, path, body string) (int, envelope) {
	p.t.Helper()
	resp, err := c.Post(p.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(p.t, err)
	return decode(p.t, resp)
}

func decode(t *testing.T, resp *http.Response) (int, envelope) {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (p *portal) loginAdmin() *http.Client {
	c := p.client()
	status, _ := p.postForm(c, "/admin/login", url.Values{"password": {"admin123"}})
	require.Equal(p.t, http.StatusOK, status)
	return c
}

func (p *portal) loginStudent(rollno, password string) *http.Client {
	c := p.client()
	status, _ := p.postForm(c, "/student/login", url.Values{"rollno": {rollno}, "password": {password}})
	require.Equal(p.t, http.StatusOK, status)
	return c
}

func TestIndexAndForms(t *testing.T) {
	p := newPortal(t)
	c := p.client()

	status, env := p.get(c, "/")
	require.Equal(t, http.StatusOK, status)
	var index struct {
		Role  string            `json:"role"`
		Links map[string]string `json:"links"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &index))
	assert.Equal(t, "ANONYMOUS", index.Role)
	assert.Equal(t, "/admin/login", index.Links["adminLogin"])

	for _, path := range []string{"/admin/login", "/student/login", "/student/register"} {
		status, env := p.get(c, path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Contains(t, string(env.Data), `"method":"POST"`, path)
	}
}

func TestAdminFlow(t *testing.T) {
	p := newPortal(t)

	anon := p.client()
	status, env := p.postForm(anon, "/admin/login", url.Values{"password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_001", env.Error.Code)

	status, env = p.get(anon, "/admin/courses")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/admin/login", env.Error.Details["login"])

	admin := p.loginAdmin()

	status, _ = p.get(admin, "/admin/add_course")
	assert.Equal(t, http.StatusOK, status)

	status, _ = p.postForm(admin, "/admin/add_course", url.Values{"course_id": {"CS101"}, "course_name": {"Intro"}})
	assert.Equal(t, http.StatusCreated, status)

	status, env = p.postJSON(admin, "/admin/add_course", `{"course_id":"CS101","course_name":"Other"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.NotContains(t, env.Error.Message, "constraint")

	status, _ = p.postForm(admin, "/admin/add_course", url.Values{"course_id": {"CS102"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = p.get(admin, "/admin/courses")
	require.Equal(t, http.StatusOK, status)
	var courses []struct {
		CourseID   string `json:"courseId"`
		CourseName string `json:"courseName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Intro", courses[0].CourseName)

	status, env = p.get(admin, "/admin/delete_course/NOPE")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"deleted":false`)

	status, env = p.get(admin, "/admin/delete_course/CS101")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"deleted":true`)

	status, env = p.get(admin, "/admin/dashboard")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"courseCount":0,"studentCount":0}`, string(env.Data))

	status, _ = p.get(admin, "/logout")
	assert.Equal(t, http.StatusOK, status)
	status, _ = p.get(admin, "/admin/dashboard")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStudentFlow(t *testing.T) {
	p := newPortal(t)
	admin := p.loginAdmin()
	for id, name := range map[string]string{"A": "Zoology", "B": "Algebra"} {
		status, _ := p.postForm(admin, "/admin/add_course", url.Values{"course_id": {id}, "course_name": {name}})
		require.Equal(t, http.StatusCreated, status)
	}

	anon := p.client()
	status, _ := p.postForm(anon, "/student/register", url.Values{"rollno": {"R1"}, "name": {"Asha"}, "password": {"pw"}})
	require.Equal(t, http.StatusCreated, status)
	status, _ = p.postForm(anon, "/student/register", url.Values{"rollno": {"R1"}, "name": {"Imposter"}, "password": {"x"}})
	assert.Equal(t, http.StatusConflict, status)

	// Registration does not log in
	status, env := p.get(anon, "/student/dashboard")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/student/login", env.Error.Details["login"])

	status, _ = p.postForm(anon, "/student/login", url.Values{"rollno": {"R1"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = p.postForm(anon, "/student/login", url.Values{"rollno": {"R9"}, "password": {"pw"}})
	assert.Equal(t, http.StatusUnauthorized, status)

	student := p.loginStudent("R1", "pw")

	status, env = p.postForm(student, "/student/dashboard", url.Values{"courses": {"A", "A", "B"}})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"requested":2,"created":2,"skipped":0}`, string(env.Data))

	status, env = p.postJSON(student, "/student/dashboard", `{"courses":["A"]}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"requested":1,"created":0,"skipped":1}`, string(env.Data))

	status, _ = p.postForm(student, "/student/dashboard", url.Values{"courses": {"GHOST"}})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = p.get(student, "/student/my_courses")
	require.Equal(t, http.StatusOK, status)
	var mine []struct {
		CourseName string `json:"courseName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, "Algebra", mine[0].CourseName)
	assert.Equal(t, "Zoology", mine[1].CourseName)

	status, env = p.get(student, "/student/dashboard")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"registered":true`)

	// Student sessions never reach admin routes
	status, _ = p.get(student, "/admin/registered_students")
	assert.Equal(t, http.StatusUnauthorized, status)

	// Admin session is unaffected by the student's
	status, env = p.get(admin, "/admin/registered_students")
	require.Equal(t, http.StatusOK, status)
	var report []struct {
		Rollno      string   `json:"rollno"`
		Courses     []string `json:"courses"`
		CourseCount int      `json:"courseCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.Len(t, report, 1)
	assert.Equal(t, "R1", report[0].Rollno)
	assert.Equal(t, 2, report[0].CourseCount)
	assert.ElementsMatch(t, []string{"Algebra", "Zoology"}, report[0].Courses)
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	p := newPortal(t)
	c := p.client()

	u, err := url.Parse(p.server.URL)
	require.NoError(t, err)
	c.Jar.SetCookies(u, []*http.Cookie{{Name: "portal_session", Value: "forged.token.value", Path: "/"}})

	status, _ := p.get(c, "/admin/dashboard")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthReportsMissingStore(t *testing.T) {
	p := newPortal(t)
	c := p.client()

	status, _ := p.get(c, "/health")
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, os.Remove(p.path))

	status, env := p.get(c, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "SRV_002", env.Error.Code)

	status, _ = p.postForm(c, "/student/register", url.Values{"rollno": {"R1"}, "name": {"Asha"}, "password": {"pw"}})
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
