package projectapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/intake/pkg/config"
	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/errx/errxhttp"
	"github.com/Abraxas-365/intake/pkg/iam/auth"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/pkg/validatex"
	"github.com/Abraxas-365/intake/recruitment/project"
	"github.com/Abraxas-365/intake/recruitment/project/mocks"
	"github.com/Abraxas-365/intake/recruitment/project/projectsrv"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ProjectAPISuite struct {
	suite.Suite
	app    *fiber.App
	repo   *mocks.MockRepository
	tokens *auth.JWTService
}

func (s *ProjectAPISuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(ctrl)
	s.tokens = auth.NewJWTServiceFromConfig(config.JWTConfig{
		SecretKey:      "project-api-test-secret-0123456789",
		Issuer:         "intake",
		Audience:       []string{"intake-api"},
		AccessTokenTTL: time.Minute,
	})

	s.app = fiber.New(fiber.Config{ErrorHandler: errxhttp.ErrorHandler})
	service := projectsrv.NewProjectService(s.repo, validatex.MustNew())
	RegisterRoutes(s.app, NewHandlers(service), auth.NewAuthMiddleware(s.tokens))
}

func (s *ProjectAPISuite) token(scopes ...string) string {
	token, err := s.tokens.GenerateAccessToken("user-1", "tenant-1", map[string]any{"scopes": scopes})
	s.Require().NoError(err)
	return token
}

func (s *ProjectAPISuite) do(method, path, token string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *ProjectAPISuite) TestRequiresToken() {
	resp, _ := s.do(http.MethodGet, "/api/projects", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ProjectAPISuite) TestRequiresScope() {
	resp, body := s.do(http.MethodPost, "/api/projects", s.token(auth.ScopeProjectsRead), map[string]any{
		"company_id": "c-1",
		"name":       "Harvest",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)

	var out errx.HTTPResponse
	s.Require().NoError(json.Unmarshal(body, &out))
	s.Equal(auth.CodeInsufficientScope, out.Code)
}

func (s *ProjectAPISuite) TestCreateProject() {
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, body := s.do(http.MethodPost, "/api/projects", s.token(auth.ScopeProjectsWrite), map[string]any{
		"company_id": "c-1",
		"name":       "Harvest",
		"requirements": []map[string]any{{
			"position":              "Picker",
			"location_distribution": []map[string]any{{"location": "Curico", "quantity": 4}},
		}},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var out project.ProjectResponse
	s.Require().NoError(json.Unmarshal(body, &out))
	s.Equal(kernel.TenantID("tenant-1"), out.TenantID)
	s.Require().Len(out.Positions, 1)
	s.Equal(4, *out.Positions[0].TotalCapacity)
}

func (s *ProjectAPISuite) TestCreateProjectInvalidBody() {
	resp, body := s.do(http.MethodPost, "/api/projects", s.token(auth.ScopeProjectsWrite), map[string]any{"name": "no company"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var out errx.HTTPResponse
	s.Require().NoError(json.Unmarshal(body, &out))
	s.Equal(validatex.CodeInvalidRequest, out.Code)
}

func (s *ProjectAPISuite) TestGetProjectNotFound() {
	s.repo.EXPECT().
		GetByID(gomock.Any(), kernel.ProjectID("p-404"), kernel.TenantID("tenant-1")).
		Return(nil, project.ErrProjectNotFound())

	resp, _ := s.do(http.MethodGet, "/api/projects/p-404", s.token(auth.ScopeProjectsRead), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ProjectAPISuite) TestListProjectsPagination() {
	page := kernel.NewPaginated([]project.Project{}, 2, 100, 0)
	s.repo.EXPECT().
		List(gomock.Any(), kernel.TenantID("tenant-1"), project.ProjectStatus(""), kernel.PaginationOptions{Page: 2, PageSize: 100}).
		Return(&page, nil)

	resp, body := s.do(http.MethodGet, "/api/projects?page=2&page_size=500", s.token(auth.ScopeAll), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var out kernel.Paginated[project.ProjectResponse]
	s.Require().NoError(json.Unmarshal(body, &out))
	s.True(out.Empty)
}

func (s *ProjectAPISuite) TestCloseProject() {
	p := &project.Project{ID: "p-1", TenantID: "tenant-1", Status: project.ProjectStatusActive}
	s.repo.EXPECT().GetByID(gomock.Any(), p.ID, p.TenantID).Return(p, nil)
	s.repo.EXPECT().Update(gomock.Any(), p).Return(nil)

	resp, body := s.do(http.MethodPost, "/api/projects/p-1/close", s.token(auth.ScopeProjectsArchive), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var out project.ProjectResponse
	s.Require().NoError(json.Unmarshal(body, &out))
	s.Equal(project.ProjectStatusClosed, out.Status)
}

func TestProjectAPISuite(t *testing.T) {
	suite.Run(t, new(ProjectAPISuite))
}
