package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chalu_psychology/internal/config"
	"chalu_psychology/internal/domain/models"
	blogsvc "chalu_psychology/internal/services/blog_service"
	leadsvc "chalu_psychology/internal/services/lead_service"
	httpapp "chalu_psychology/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) CreatePost(ctx context.Context, draft blogsvc.Draft) (models.Post, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockBlogService) UpdatePost(ctx context.Context, id int64, draft blogsvc.Draft) (models.Post, error) {
	args := m.Called(ctx, id, draft)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockBlogService) DeletePost(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogService) GetPost(id int64) (models.Post, error) {
	args := m.Called(id)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockBlogService) ListPosts(query, category, sortKey string) []models.Post {
	args := m.Called(query, category, sortKey)
	return args.Get(0).([]models.Post)
}

func (m *MockBlogService) Categories() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockBlogService) DraftForPost(id int64) (blogsvc.Draft, error) {
	args := m.Called(id)
	return args.Get(0).(blogsvc.Draft), args.Error(1)
}

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) SubmitLead(ctx context.Context, name, contact, message string) (string, error) {
	args := m.Called(ctx, name, contact, message)
	return args.String(0), args.Error(1)
}

func newTestRouter(t *testing.T, blog *MockBlogService, lead *MockLeadService) (*echo.Echo, *httpapp.Routers) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	admin := config.AdminConfig{
		Password:    "letmein",
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
	}

	return e, httpapp.NewRouter(log, blog, lead, admin)
}

func doJSON(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestListPosts(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	posts := []models.Post{
		{ID: 2, Title: "Boundaries", Category: "Relationships"},
		{ID: 1, Title: "On Anxiety", Category: "Anxiety"},
	}

	t.Run("defaults applied when params missing", func(t *testing.T) {
		blog.On("ListPosts", "", blogsvc.CategoryAll, blogsvc.SortNewest).Return(posts).Once()
		blog.On("Categories").Return([]string{"All", "Anxiety", "Relationships"}).Once()

		c, rec := doJSON(e, http.MethodGet, "/api/v1/posts", "")

		require.NoError(t, router.ListPosts(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string `json:"status"`
			Data   struct {
				Posts      []models.Post `json:"posts"`
				Categories []string      `json:"categories"`
				Total      int           `json:"total"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Len(t, resp.Data.Posts, 2)
		assert.Equal(t, 2, resp.Data.Total)
		assert.Contains(t, resp.Data.Categories, "All")

		blog.AssertExpectations(t)
	})

	t.Run("query params forwarded verbatim", func(t *testing.T) {
		blog.On("ListPosts", "anxiety", "Anxiety", blogsvc.SortTitleAZ).Return([]models.Post{}).Once()
		blog.On("Categories").Return([]string{"All"}).Once()

		c, rec := doJSON(e, http.MethodGet, "/api/v1/posts?q=anxiety&category=Anxiety&sort=az", "")

		require.NoError(t, router.ListPosts(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		blog.AssertExpectations(t)
	})
}

func TestGetPost(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	t.Run("found", func(t *testing.T) {
		blog.On("GetPost", int64(42)).Return(models.Post{ID: 42, Title: "Found"}, nil).Once()

		c, rec := doJSON(e, http.MethodGet, "/", "")
		c.SetParamNames("post_id")
		c.SetParamValues("42")

		require.NoError(t, router.GetPost(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Found")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		blog.On("GetPost", int64(7)).Return(models.Post{}, blogsvc.ErrPostNotFound).Once()

		c, rec := doJSON(e, http.MethodGet, "/", "")
		c.SetParamNames("post_id")
		c.SetParamValues("7")

		require.NoError(t, router.GetPost(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodGet, "/", "")
		c.SetParamNames("post_id")
		c.SetParamValues("not-a-number")

		require.NoError(t, router.GetPost(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	blog.AssertExpectations(t)
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(blog *MockBlogService)
		wantStatus int
	}{
		{
			name: "valid draft is published",
			body: `{"title":"New Post","category":"Anxiety","content":"Body text"}`,
			setupMock: func(blog *MockBlogService) {
				blog.On("CreatePost", mock.Anything, blogsvc.Draft{
					Title:    "New Post",
					Category: "Anxiety",
					Content:  "Body text",
				}).Return(models.Post{ID: 1, Title: "New Post"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing required fields",
			body: `{"title":"","content":""}`,
			setupMock: func(blog *MockBlogService) {
				blog.On("CreatePost", mock.Anything, mock.Anything).
					Return(models.Post{}, blogsvc.ErrMissingFields).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store rejection is a bad gateway",
			body: `{"title":"New Post","content":"Body text"}`,
			setupMock: func(blog *MockBlogService) {
				blog.On("CreatePost", mock.Anything, mock.Anything).
					Return(models.Post{}, errors.New("write not acknowledged")).Once()
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blog := new(MockBlogService)
			lead := new(MockLeadService)
			e, router := newTestRouter(t, blog, lead)

			tt.setupMock(blog)

			c, rec := doJSON(e, http.MethodPost, "/api/v1/posts", tt.body)

			require.NoError(t, router.CreatePost(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			blog.AssertExpectations(t)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	t.Run("existing post updated", func(t *testing.T) {
		blog.On("UpdatePost", mock.Anything, int64(5), mock.Anything).
			Return(models.Post{ID: 5, Title: "Edited"}, nil).Once()

		c, rec := doJSON(e, http.MethodPut, "/", `{"title":"Edited","content":"Body"}`)
		c.SetParamNames("post_id")
		c.SetParamValues("5")

		require.NoError(t, router.UpdatePost(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown post is 404", func(t *testing.T) {
		blog.On("UpdatePost", mock.Anything, int64(99), mock.Anything).
			Return(models.Post{}, blogsvc.ErrPostNotFound).Once()

		c, rec := doJSON(e, http.MethodPut, "/", `{"title":"Edited","content":"Body"}`)
		c.SetParamNames("post_id")
		c.SetParamValues("99")

		require.NoError(t, router.UpdatePost(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	blog.AssertExpectations(t)
}

func TestDeletePost(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	t.Run("existing post deleted", func(t *testing.T) {
		blog.On("DeletePost", mock.Anything, int64(3)).Return(nil).Once()

		c, rec := doJSON(e, http.MethodDelete, "/", "")
		c.SetParamNames("post_id")
		c.SetParamValues("3")

		require.NoError(t, router.DeletePost(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store rejection leaves 502", func(t *testing.T) {
		blog.On("DeletePost", mock.Anything, int64(3)).
			Return(errors.New("write not acknowledged")).Once()

		c, rec := doJSON(e, http.MethodDelete, "/", "")
		c.SetParamNames("post_id")
		c.SetParamValues("3")

		require.NoError(t, router.DeletePost(c))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	blog.AssertExpectations(t)
}

func TestEditDraft(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	blog.On("DraftForPost", int64(8)).Return(blogsvc.Draft{
		Title:          "Stoic Notes",
		Category:       models.CategoryOther,
		CustomCategory: "Stoicism",
		Content:        "Body",
		FontFamily:     models.FontDefault,
	}, nil).Once()

	c, rec := doJSON(e, http.MethodGet, "/", "")
	c.SetParamNames("post_id")
	c.SetParamValues("8")

	require.NoError(t, router.EditDraft(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ID             int64  `json:"id"`
			Category       string `json:"category"`
			CustomCategory string `json:"customCategory"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(8), resp.Data.ID)
	assert.Equal(t, models.CategoryOther, resp.Data.Category)
	assert.Equal(t, "Stoicism", resp.Data.CustomCategory)

	blog.AssertExpectations(t)
}

func TestUploadImage(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	t.Run("file comes back as data uri", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte{0x89, 0x50, 0x4E, 0x47})
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/image", &buf)
		req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, router.UploadImage(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "data:")
	})

	t.Run("missing file is 400", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodPost, "/api/v1/posts/image", "")

		require.NoError(t, router.UploadImage(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitLead(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(lead *MockLeadService)
		wantStatus int
	}{
		{
			name: "relayed",
			body: `{"name":"Ana","contact":"ana@example.com","message":"Hello"}`,
			setupMock: func(lead *MockLeadService) {
				lead.On("SubmitLead", mock.Anything, "Ana", "ana@example.com", "Hello").
					Return("ref-123", nil).Once()
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "missing fields rejected before the relay",
			body:       `{"name":"Ana"}`,
			setupMock:  func(lead *MockLeadService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate submission",
			body: `{"name":"Ana","contact":"ana@example.com","message":"Hello"}`,
			setupMock: func(lead *MockLeadService) {
				lead.On("SubmitLead", mock.Anything, "Ana", "ana@example.com", "Hello").
					Return("", leadsvc.ErrDuplicateLead).Once()
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "relay failure",
			body: `{"name":"Ana","contact":"ana@example.com","message":"Hello"}`,
			setupMock: func(lead *MockLeadService) {
				lead.On("SubmitLead", mock.Anything, "Ana", "ana@example.com", "Hello").
					Return("", leadsvc.ErrRelayFailed).Once()
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blog := new(MockBlogService)
			lead := new(MockLeadService)
			e, router := newTestRouter(t, blog, lead)

			tt.setupMock(lead)

			c, rec := doJSON(e, http.MethodPost, "/api/v1/leads", tt.body)

			require.NoError(t, router.SubmitLead(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			lead.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	blog := new(MockBlogService)
	lead := new(MockLeadService)
	e, router := newTestRouter(t, blog, lead)

	t.Run("correct password returns token", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodPost, "/api/v1/login", `{"password":"letmein"}`)

		require.NoError(t, router.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "access_token")
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodPost, "/api/v1/login", `{"password":"guess"}`)

		require.NoError(t, router.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty password fails validation", func(t *testing.T) {
		c, rec := doJSON(e, http.MethodPost, "/api/v1/login", `{}`)

		require.NoError(t, router.Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
