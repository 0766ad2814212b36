package services

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProjectTestApp mounts the project endpoints behind a stub that plants
// the caller identity the auth middleware would normally set.
func newProjectTestApp(svc *ProjectService, clientID, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("client_id", clientID)
		c.Locals("role", role)
		return c.Next()
	})
	app.Get("/projects/:id", svc.GetProjectByID)
	app.Patch("/projects/:id", svc.UpdateProject)
	app.Delete("/projects/:id", svc.DeleteProject)
	app.Post("/projects/:id/matches/rebuild", svc.RebuildProjectMatches)
	app.Get("/projects/:id/matches", svc.GetProjectMatches)
	return app
}

func projectServiceFixture() (*fakeProjectStore, *fakeMatchStore, *ProjectService) {
	projects, _, matches, _, matching := matchingFixture()
	projects.projects["p1"].ClientID = "owner-1"
	svc := &ProjectService{Matching: matching, Projects: projects}
	return projects, matches, svc
}

func TestProjectEndpointsUnknownID(t *testing.T) {
	_, _, svc := projectServiceFixture()
	app := newProjectTestApp(svc, "owner-1", "client")

	// Every :id endpoint must stop at the guard with a 404, including the
	// mutating ones that go on to use the loaded project.
	for _, req := range []*struct{ method, path string }{
		{"GET", "/projects/missing"},
		{"PATCH", "/projects/missing"},
		{"DELETE", "/projects/missing"},
		{"POST", "/projects/missing/matches/rebuild"},
		{"GET", "/projects/missing/matches"},
	} {
		r := httptest.NewRequest(req.method, req.path, strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(r)
		require.NoError(t, err, "%s %s", req.method, req.path)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "%s %s", req.method, req.path)
	}
}

func TestProjectEndpointsForbiddenForNonOwner(t *testing.T) {
	_, store, svc := projectServiceFixture()
	app := newProjectTestApp(svc, "intruder", "client")

	resp, err := app.Test(httptest.NewRequest("POST", "/projects/p1/matches/rebuild", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, store.replaceCalls, "forbidden rebuild must not touch the match set")

	resp, err = app.Test(httptest.NewRequest("GET", "/projects/p1/matches", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/projects/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProjectEndpointsOwnerAndAdminAccess(t *testing.T) {
	_, store, svc := projectServiceFixture()

	owner := newProjectTestApp(svc, "owner-1", "client")
	resp, err := owner.Test(httptest.NewRequest("POST", "/projects/p1/matches/rebuild", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, store.replaceCalls)

	// Admins bypass ownership entirely.
	admin := newProjectTestApp(svc, "someone-else", "admin")
	resp, err = admin.Test(httptest.NewRequest("GET", "/projects/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
