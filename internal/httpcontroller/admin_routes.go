package httpcontroller

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/errors"
	"github.com/ewahlberg/pressgang/internal/slug"
)

// authedBackend returns a client carrying the session's bearer token so
// admin reads see the user's own writes and mutations are authorized.
func (s *Server) authedBackend(c echo.Context) *backend.Client {
	token := s.Auth.Token(c)
	if token == "" {
		// Subnet, basic-auth and social sessions carry no backend token;
		// the service API key authorizes those requests upstream.
		return s.Backend
	}
	return s.Backend.WithToken(token)
}

// paramID parses a numeric :id route parameter.
func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "no such resource")
	}
	return id, nil
}

// flashAndRedirect completes a PRG round: queue a toast, redirect.
func (s *Server) flashAndRedirect(c echo.Context, level, message, target string) error {
	s.Auth.Sessions().AddFlash(c, level, message)
	return c.Redirect(http.StatusSeeOther, target)
}

// mutationError handles a failed admin mutation: validation failures
// re-render the form with field errors via the returned FieldErrors,
// everything else becomes an error toast on the listing page.
func (s *Server) mutationError(c echo.Context, err error, fallback string) error {
	var fieldErrs *backend.FieldErrors
	if errors.As(err, &fieldErrs) {
		// Callers that re-render forms handle FieldErrors themselves;
		// reaching here means a listing-level mutation failed validation.
		return s.flashAndRedirect(c, "error", fieldErrs.Error(), fallback)
	}
	if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrForbidden) {
		return err
	}
	s.webLogger.Error("admin mutation failed", "path", c.Request().URL.Path, "error", err)
	return s.flashAndRedirect(c, "error", "The change could not be saved", fallback)
}

// --- Dashboard ---

// AdminDashboardData aggregates the analytics cards and sync widget.
type AdminDashboardData struct {
	Analytics *backend.AnalyticsSummary
	GitSync   *backend.GitSyncStatus
	Drafts    []backend.Post
	System    *SystemStats
}

// handleAdminDashboard renders analytics cards, recent drafts and the
// git-sync widget. Partial failures degrade to empty cards.
func (s *Server) handleAdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	client := s.authedBackend(c)
	data := AdminDashboardData{System: s.collectSystemStats()}

	if analytics, err := client.GetAnalyticsSummary(ctx); err == nil {
		data.Analytics = analytics
	} else {
		s.webLogger.Warn("analytics summary unavailable", "error", err)
	}

	if status, err := client.GetGitSyncStatus(ctx); err == nil {
		data.GitSync = status
	} else {
		s.webLogger.Warn("git sync status unavailable", "error", err)
	}

	if drafts, err := client.ListPosts(ctx, backend.ListOptions{Status: "draft", PerPage: 5}); err == nil {
		data.Drafts = drafts.Items
	} else {
		s.webLogger.Warn("draft listing unavailable", "error", err)
	}

	return s.renderPage(c, http.StatusOK, "admin-dashboard", "Dashboard", data)
}

// --- Posts ---

// AdminPostListData is the payload for the admin post table.
type AdminPostListData struct {
	Posts      []backend.Post
	Pagination backend.Pagination
	PageLinks  []PageLink
	Status     string
}

func (s *Server) handleAdminPosts(c echo.Context) error {
	status := c.QueryParam("status")
	list, err := s.authedBackend(c).ListPosts(c.Request().Context(), backend.ListOptions{
		Page:    requestedPage(c),
		PerPage: 20,
		Status:  status,
		Sort:    "-updatedAt",
	})
	if err != nil {
		return err
	}

	return s.renderPage(c, http.StatusOK, "admin-posts", "Posts", AdminPostListData{
		Posts:      list.Items,
		Pagination: list.Pagination,
		PageLinks:  pageLinks("/admin/posts", "", list.Pagination),
		Status:     status,
	})
}

// PostFormData is the payload for the post create/edit form.
type PostFormData struct {
	Post       *backend.Post
	Form       backend.PostInput
	Categories []backend.Category
	Tags       []backend.Tag
	IsNew      bool
}

// loadPostForm gathers the taxonomy pickers for the post form.
func (s *Server) loadPostForm(c echo.Context, data *PostFormData) error {
	ctx := c.Request().Context()
	client := s.authedBackend(c)

	categories, err := client.ListCategories(ctx)
	if err != nil {
		return err
	}
	tags, err := client.ListTags(ctx)
	if err != nil {
		return err
	}
	data.Categories = categories
	data.Tags = tags
	return nil
}

func (s *Server) handleAdminPostNew(c echo.Context) error {
	data := PostFormData{IsNew: true, Form: backend.PostInput{Status: "draft"}}
	if err := s.loadPostForm(c, &data); err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-post-form", "New Post", data)
}

func (s *Server) handleAdminPostEdit(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	post, err := s.authedBackend(c).GetPostByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	data := PostFormData{
		Post: post,
		Form: backend.PostInput{
			Title:       post.Title,
			Slug:        post.Slug,
			Content:     post.ContentHTML,
			Excerpt:     post.Excerpt,
			Status:      post.Status,
			CoverImage:  post.CoverImage,
			CategoryIDs: categoryIDs(post.Categories),
			TagIDs:      tagIDs(post.Tags),
		},
	}
	if err := s.loadPostForm(c, &data); err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-post-form", "Edit Post", data)
}

// postInputFromForm binds the post form fields.
func postInputFromForm(c echo.Context) backend.PostInput {
	return backend.PostInput{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Slug:        strings.TrimSpace(c.FormValue("slug")),
		Content:     c.FormValue("content"),
		Excerpt:     strings.TrimSpace(c.FormValue("excerpt")),
		Status:      c.FormValue("status"),
		CoverImage:  strings.TrimSpace(c.FormValue("coverImage")),
		CategoryIDs: formIDs(c, "categories"),
		TagIDs:      formIDs(c, "tags"),
	}
}

// formIDs parses a multi-select of numeric ids.
func formIDs(c echo.Context, field string) []int64 {
	values, err := c.FormParams()
	if err != nil {
		return nil
	}
	var ids []int64
	for _, raw := range values[field] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func categoryIDs(categories []backend.Category) []int64 {
	ids := make([]int64, 0, len(categories))
	for _, cat := range categories {
		ids = append(ids, cat.ID)
	}
	return ids
}

func tagIDs(tags []backend.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// renderPostFormErrors re-renders the post form with 422 field errors.
func (s *Server) renderPostFormErrors(c echo.Context, data PostFormData, fieldErrs *backend.FieldErrors, title string) error {
	if err := s.loadPostForm(c, &data); err != nil {
		return err
	}
	envelope := s.renderData(c, "admin-post-form", title, data)
	envelope.FieldErrors = fieldErrs.Fields
	return c.Render(http.StatusUnprocessableEntity, "admin-post-form", envelope)
}

func (s *Server) handleAdminPostCreate(c echo.Context) error {
	input := postInputFromForm(c)

	post, err := s.authedBackend(c).CreatePost(c.Request().Context(), &input)
	if err != nil {
		var fieldErrs *backend.FieldErrors
		if errors.As(err, &fieldErrs) {
			return s.renderPostFormErrors(c, PostFormData{IsNew: true, Form: input}, fieldErrs, "New Post")
		}
		return s.mutationError(c, err, "/admin/posts")
	}

	return s.flashAndRedirect(c, "success", "Post created", "/admin/posts/"+strconv.FormatInt(post.ID, 10)+"/edit")
}

func (s *Server) handleAdminPostUpdate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	input := postInputFromForm(c)

	post, err := s.authedBackend(c).UpdatePost(c.Request().Context(), id, &input)
	if err != nil {
		var fieldErrs *backend.FieldErrors
		if errors.As(err, &fieldErrs) {
			// The form action needs the id even though the fetch is skipped
			return s.renderPostFormErrors(c, PostFormData{Post: &backend.Post{ID: id}, Form: input}, fieldErrs, "Edit Post")
		}
		return s.mutationError(c, err, "/admin/posts")
	}

	return s.flashAndRedirect(c, "success", "Post updated", "/admin/posts/"+strconv.FormatInt(post.ID, 10)+"/edit")
}

func (s *Server) handleAdminPostDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.authedBackend(c).DeletePost(c.Request().Context(), id); err != nil {
		return s.mutationError(c, err, "/admin/posts")
	}
	return s.flashAndRedirect(c, "success", "Post deleted", "/admin/posts")
}

// --- Categories and tags ---

func (s *Server) handleAdminCategories(c echo.Context) error {
	categories, err := s.authedBackend(c).ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-categories", "Categories", categories)
}

func (s *Server) handleAdminCategoryCreate(c echo.Context) error {
	input := backend.CategoryInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Slug:        strings.TrimSpace(c.FormValue("slug")),
		Description: strings.TrimSpace(c.FormValue("description")),
	}
	if _, err := s.authedBackend(c).CreateCategory(c.Request().Context(), &input); err != nil {
		return s.mutationError(c, err, "/admin/categories")
	}
	return s.flashAndRedirect(c, "success", "Category created", "/admin/categories")
}

func (s *Server) handleAdminCategoryUpdate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	input := backend.CategoryInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Slug:        strings.TrimSpace(c.FormValue("slug")),
		Description: strings.TrimSpace(c.FormValue("description")),
	}
	if _, err := s.authedBackend(c).UpdateCategory(c.Request().Context(), id, &input); err != nil {
		return s.mutationError(c, err, "/admin/categories")
	}
	return s.flashAndRedirect(c, "success", "Category updated", "/admin/categories")
}

func (s *Server) handleAdminCategoryDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.authedBackend(c).DeleteCategory(c.Request().Context(), id); err != nil {
		return s.mutationError(c, err, "/admin/categories")
	}
	return s.flashAndRedirect(c, "success", "Category deleted", "/admin/categories")
}

func (s *Server) handleAdminTags(c echo.Context) error {
	tags, err := s.authedBackend(c).ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-tags", "Tags", tags)
}

func (s *Server) handleAdminTagCreate(c echo.Context) error {
	input := backend.TagInput{
		Name: strings.TrimSpace(c.FormValue("name")),
		Slug: strings.TrimSpace(c.FormValue("slug")),
	}
	if _, err := s.authedBackend(c).CreateTag(c.Request().Context(), &input); err != nil {
		return s.mutationError(c, err, "/admin/tags")
	}
	return s.flashAndRedirect(c, "success", "Tag created", "/admin/tags")
}

func (s *Server) handleAdminTagUpdate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	input := backend.TagInput{
		Name: strings.TrimSpace(c.FormValue("name")),
		Slug: strings.TrimSpace(c.FormValue("slug")),
	}
	if _, err := s.authedBackend(c).UpdateTag(c.Request().Context(), id, &input); err != nil {
		return s.mutationError(c, err, "/admin/tags")
	}
	return s.flashAndRedirect(c, "success", "Tag updated", "/admin/tags")
}

func (s *Server) handleAdminTagDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.authedBackend(c).DeleteTag(c.Request().Context(), id); err != nil {
		return s.mutationError(c, err, "/admin/tags")
	}
	return s.flashAndRedirect(c, "success", "Tag deleted", "/admin/tags")
}

// --- Media library ---

// AdminMediaData is the payload for the media library screen.
type AdminMediaData struct {
	Media      []backend.Media
	Pagination backend.Pagination
	PageLinks  []PageLink
}

func (s *Server) handleAdminMedia(c echo.Context) error {
	list, err := s.authedBackend(c).ListMedia(c.Request().Context(), backend.ListOptions{
		Page:    requestedPage(c),
		PerPage: 24,
	})
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-media", "Media Library", AdminMediaData{
		Media:      list.Items,
		Pagination: list.Pagination,
		PageLinks:  pageLinks("/admin/media", "", list.Pagination),
	})
}

func (s *Server) handleAdminMediaUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return s.flashAndRedirect(c, "error", "No file selected", "/admin/media")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return s.mutationError(c, err, "/admin/media")
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	media, err := s.authedBackend(c).UploadMedia(c.Request().Context(), uniqueFileName(fileHeader.Filename), mimeType, file)
	if err != nil {
		return s.mutationError(c, err, "/admin/media")
	}

	return s.flashAndRedirect(c, "success", "Uploaded "+media.FileName, "/admin/media")
}

// uniqueFileName suffixes an upload with a short random id so repeated
// uploads of the same file never clash in the backend media store.
func uniqueFileName(original string) string {
	ext := path.Ext(original)
	base := slug.Make(strings.TrimSuffix(original, ext))
	if base == "" {
		base = "upload"
	}
	return base + "-" + uuid.NewString()[:8] + ext
}

func (s *Server) handleAdminMediaDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.authedBackend(c).DeleteMedia(c.Request().Context(), id); err != nil {
		return s.mutationError(c, err, "/admin/media")
	}
	return s.flashAndRedirect(c, "success", "Media deleted", "/admin/media")
}

// --- Users ---

func (s *Server) handleAdminUsers(c echo.Context) error {
	list, err := s.authedBackend(c).ListUsers(c.Request().Context(), backend.ListOptions{
		Page:    requestedPage(c),
		PerPage: 20,
	})
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-users", "Users", list.Items)
}

// UserFormData is the payload for the user create/edit form.
type UserFormData struct {
	User  *backend.User
	Form  backend.UserInput
	IsNew bool
}

func (s *Server) handleAdminUserNew(c echo.Context) error {
	return s.renderPage(c, http.StatusOK, "admin-user-form", "New User", UserFormData{
		IsNew: true,
		Form:  backend.UserInput{Role: "author", Active: true},
	})
}

func (s *Server) handleAdminUserEdit(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := s.authedBackend(c).GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-user-form", "Edit User", UserFormData{
		User: user,
		Form: backend.UserInput{
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			Active:      user.Active,
		},
	})
}

func userInputFromForm(c echo.Context) backend.UserInput {
	return backend.UserInput{
		Username:    strings.TrimSpace(c.FormValue("username")),
		Email:       strings.TrimSpace(c.FormValue("email")),
		DisplayName: strings.TrimSpace(c.FormValue("displayName")),
		Role:        c.FormValue("role"),
		Password:    c.FormValue("password"),
		Active:      c.FormValue("active") == "on",
	}
}

// renderUserFormErrors re-renders the user form with 422 field errors.
func (s *Server) renderUserFormErrors(c echo.Context, data UserFormData, fieldErrs *backend.FieldErrors, title string) error {
	envelope := s.renderData(c, "admin-user-form", title, data)
	envelope.FieldErrors = fieldErrs.Fields
	return c.Render(http.StatusUnprocessableEntity, "admin-user-form", envelope)
}

func (s *Server) handleAdminUserCreate(c echo.Context) error {
	input := userInputFromForm(c)

	if _, err := s.authedBackend(c).CreateUser(c.Request().Context(), &input); err != nil {
		var fieldErrs *backend.FieldErrors
		if errors.As(err, &fieldErrs) {
			return s.renderUserFormErrors(c, UserFormData{IsNew: true, Form: input}, fieldErrs, "New User")
		}
		return s.mutationError(c, err, "/admin/users")
	}
	return s.flashAndRedirect(c, "success", "User created", "/admin/users")
}

func (s *Server) handleAdminUserUpdate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	input := userInputFromForm(c)

	if _, err := s.authedBackend(c).UpdateUser(c.Request().Context(), id, &input); err != nil {
		var fieldErrs *backend.FieldErrors
		if errors.As(err, &fieldErrs) {
			return s.renderUserFormErrors(c, UserFormData{User: &backend.User{ID: id}, Form: input}, fieldErrs, "Edit User")
		}
		return s.mutationError(c, err, "/admin/users")
	}
	return s.flashAndRedirect(c, "success", "User updated", "/admin/users")
}

func (s *Server) handleAdminUserDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.authedBackend(c).DeleteUser(c.Request().Context(), id); err != nil {
		return s.mutationError(c, err, "/admin/users")
	}
	return s.flashAndRedirect(c, "success", "User deleted", "/admin/users")
}

// --- Git sync ---

func (s *Server) handleAdminGitSync(c echo.Context) error {
	status, err := s.authedBackend(c).GetGitSyncStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return s.renderPage(c, http.StatusOK, "admin-gitsync", "Git Sync", status)
}

// handleAdminGitSyncStatus serves the raw status as JSON for the
// dashboard widget poll.
func (s *Server) handleAdminGitSyncStatus(c echo.Context) error {
	status, err := s.authedBackend(c).GetGitSyncStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleAdminGitSyncRun(c echo.Context) error {
	if err := s.authedBackend(c).TriggerGitSync(c.Request().Context()); err != nil {
		return s.mutationError(c, err, "/admin/gitsync")
	}
	return s.flashAndRedirect(c, "success", "Sync started", "/admin/gitsync")
}
