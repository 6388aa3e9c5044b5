package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"chalu_psychology/internal/config"
	"chalu_psychology/internal/domain/models"
	"chalu_psychology/internal/lib/jwt"
	"chalu_psychology/internal/lib/logger/sl"
	blogsvc "chalu_psychology/internal/services/blog_service"
	leadsvc "chalu_psychology/internal/services/lead_service"
	"chalu_psychology/internal/transport/http/dto"
	"chalu_psychology/internal/transport/http/dto/request"
	"chalu_psychology/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "chalu_psychology/docs"
)

type BlogService interface {
	CreatePost(ctx context.Context, draft blogsvc.Draft) (models.Post, error)
	UpdatePost(ctx context.Context, id int64, draft blogsvc.Draft) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	GetPost(id int64) (models.Post, error)
	ListPosts(query, category, sortKey string) []models.Post
	Categories() []string
	DraftForPost(id int64) (blogsvc.Draft, error)
}

type LeadService interface {
	SubmitLead(ctx context.Context, name, contact, message string) (string, error)
}

type Routers struct {
	log         *slog.Logger
	BlogService BlogService
	LeadService LeadService
	admin       config.AdminConfig
}

func NewRouter(log *slog.Logger, blogService BlogService, leadService LeadService, admin config.AdminConfig) *Routers {
	return &Routers{
		log:         log,
		BlogService: blogService,
		LeadService: leadService,
		admin:       admin,
	}
}

// Login godoc
// @Summary Admin login
// @Description Checks the shared admin password and returns a bearer token.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Admin password"
// @Success 200 {object} response.Response{data=map[string]string} "Access token"
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Wrong password"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}

	if req.Password != r.admin.Password {
		log.Warn("wrong admin password", slog.String("remote_ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	token, err := jwt.NewAdminToken(r.admin.TokenSecret, r.admin.TokenTTL)
	if err != nil {
		log.Error("failed to mint token", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	if sess, err := session.Get("session", c); err == nil {
		sess.Values["is_admin"] = true
		sess.Save(c.Request(), c.Response())
	}

	log.Info("admin logged in")

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   map[string]string{"access_token": token},
	})
}

// ListPosts godoc
// @Summary Public post listing
// @Description Filters by free-text query and category, sorts by the given key. Category options are derived from the full collection.
// @Tags posts
// @Produce json
// @Param q query string false "Case-insensitive substring matched against title, excerpt and category"
// @Param category query string false "Exact category, or All" default(All)
// @Param sort query string false "newest | oldest | az | za" default(newest)
// @Success 200 {object} response.Response{data=dto.PostListResponse}
// @Router /api/v1/posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	query := c.QueryParam("q")

	category := c.QueryParam("category")
	if category == "" {
		category = blogsvc.CategoryAll
	}

	sortKey := c.QueryParam("sort")
	if sortKey == "" {
		sortKey = blogsvc.SortNewest
	}

	posts := r.BlogService.ListPosts(query, category, sortKey)

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data: dto.PostListResponse{
			Posts:      posts,
			Categories: r.BlogService.Categories(),
			Total:      len(posts),
		},
	})
}

// GetPost godoc
// @Summary Single post by id
// @Tags posts
// @Produce json
// @Param post_id path int true "Post id"
// @Success 200 {object} response.Response{data=models.Post}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/posts/{post_id} [get]
func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.BlogService.GetPost(id)
	if err != nil {
		r.log.Warn("post lookup failed", slog.String("op", op), slog.Int64("post_id", id))
		return c.JSON(http.StatusNotFound, response.ErrPostNotFound)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   post,
	})
}

// CreatePost godoc
// @Summary Publish a new post
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.PostDraftRequest true "Authoring form"
// @Success 201 {object} response.Response{data=models.Post}
// @Failure 400 {object} response.ErrorResponse "Missing title or content"
// @Failure 502 {object} response.ErrorResponse "Store did not acknowledge the write"
// @Security ApiKeyAuth
// @Router /api/v1/posts [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.PostDraftRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.BlogService.CreatePost(c.Request().Context(), draftFromRequest(req))
	if err != nil {
		return r.mutationError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.Response{
		Status: "success",
		Data:   post,
	})
}

// UpdatePost godoc
// @Summary Save edits to an existing post
// @Description Replaces the post's fields and refreshes its date stamp; id and position are preserved.
// @Tags admin
// @Accept json
// @Produce json
// @Param post_id path int true "Post id"
// @Param request body dto.PostDraftRequest true "Authoring form"
// @Success 200 {object} response.Response{data=models.Post}
// @Failure 404 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse "Store did not acknowledge the write"
// @Security ApiKeyAuth
// @Router /api/v1/posts/{post_id} [put]
func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var req dto.PostDraftRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.BlogService.UpdatePost(c.Request().Context(), id, draftFromRequest(req))
	if err != nil {
		return r.mutationError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   post,
	})
}

// DeletePost godoc
// @Summary Permanently delete a post
// @Tags admin
// @Produce json
// @Param post_id path int true "Post id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse "Store did not acknowledge the write"
// @Security ApiKeyAuth
// @Router /api/v1/posts/{post_id} [delete]
func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.BlogService.DeletePost(c.Request().Context(), id); err != nil {
		return r.mutationError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// EditDraft godoc
// @Summary Load a post into form shape for editing
// @Description A category outside the fixed set comes back as Other with the original value in customCategory.
// @Tags admin
// @Produce json
// @Param post_id path int true "Post id"
// @Success 200 {object} response.Response{data=dto.PostDraftResponse}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts/{post_id}/draft [get]
func (r *Routers) EditDraft(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	draft, err := r.BlogService.DraftForPost(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrPostNotFound)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data: dto.PostDraftResponse{
			ID:             id,
			Title:          draft.Title,
			Category:       draft.Category,
			CustomCategory: draft.CustomCategory,
			ImageURL:       draft.ImageURL,
			Excerpt:        draft.Excerpt,
			Content:        draft.Content,
			FontFamily:     draft.FontFamily,
		},
	})
}

// UploadImage godoc
// @Summary Embed an uploaded image as a data URI
// @Description Reads the file and returns a data URI the authoring form stores in imageUrl. No size limit.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} response.Response{data=map[string]string}
// @Security ApiKeyAuth
// @Router /api/v1/posts/image [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(
		slog.String("op", op),
	)

	header, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	uri, err := blogsvc.EncodeImageFile(header)
	if err != nil {
		log.Error("failed to encode image", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "encode_failed",
		})
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   map[string]string{"imageUrl": uri},
	})
}

// SubmitLead godoc
// @Summary Contact form submission
// @Description Relays the inquiry to the practice's messenger chat. One attempt, no retry.
// @Tags leads
// @Accept json
// @Produce json
// @Param request body dto.LeadRequest true "Inquiry"
// @Success 202 {object} response.Response{data=dto.LeadResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse "Duplicate submission"
// @Failure 502 {object} response.ErrorResponse "Relay did not acknowledge"
// @Router /api/v1/leads [post]
func (r *Routers) SubmitLead(c echo.Context) error {
	const op = "http.routers.SubmitLead"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.LeadRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	}

	ref, err := r.LeadService.SubmitLead(c.Request().Context(), req.Name, req.Contact, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, leadsvc.ErrMissingLeadFields):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		case errors.Is(err, leadsvc.ErrDuplicateLead):
			return c.JSON(http.StatusTooManyRequests, response.ErrDuplicateSubmission)
		default:
			log.Error("lead relay failed", sl.Err(err))
			return c.JSON(http.StatusBadGateway, response.ErrRelayUnavailable)
		}
	}

	return c.JSON(http.StatusAccepted, response.Response{
		Status: "success",
		Data:   dto.LeadResponse{Ref: ref},
	})
}

func draftFromRequest(req dto.PostDraftRequest) blogsvc.Draft {
	return blogsvc.Draft{
		Title:          req.Title,
		Category:       req.Category,
		CustomCategory: req.CustomCategory,
		ImageURL:       req.ImageURL,
		Excerpt:        req.Excerpt,
		Content:        req.Content,
		FontFamily:     req.FontFamily,
	}
}

// mutationError maps every service failure to exactly one user-facing
// notice: validation problems come back 400, a missing target 404 and
// any store failure 502 with no finer distinction.
func (r *Routers) mutationError(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, blogsvc.ErrMissingFields):
		resp := response.ErrInvalidRequestFormat
		resp.Details = err.Error()
		return c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, blogsvc.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, response.ErrPostNotFound)
	default:
		log.Error("mutation not persisted", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrStoreUnavailable)
	}
}
