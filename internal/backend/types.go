// types.go: REST resource shapes of the CMS backend, passed through as-is.
package backend

import "time"

// Pagination carries the backend's list envelope fields.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// UserRef is the compact author reference embedded in posts.
type UserRef struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Post is a backend-owned content resource.
type Post struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	ContentHTML string     `json:"contentHtml"`
	Status      string     `json:"status"` // draft or published
	CoverImage  string     `json:"coverImage"`
	Author      UserRef    `json:"author"`
	Categories  []Category `json:"categories"`
	Tags        []Tag      `json:"tags"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostInput is the mutation payload for posts.
type PostInput struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug,omitempty"`
	Content     string  `json:"content"`
	Excerpt     string  `json:"excerpt,omitempty"`
	Status      string  `json:"status"`
	CoverImage  string  `json:"coverImage,omitempty"`
	CategoryIDs []int64 `json:"categoryIds"`
	TagIDs      []int64 `json:"tagIds"`
}

// PostList is the backend's paginated post envelope.
type PostList struct {
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Category is a backend-owned taxonomy resource.
type Category struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PostCount   int    `json:"postCount"`
}

// CategoryInput is the mutation payload for categories.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

// Tag is a backend-owned taxonomy resource.
type Tag struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	PostCount int    `json:"postCount"`
}

// TagInput is the mutation payload for tags.
type TagInput struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Media is an uploaded asset owned by the backend media store.
type Media struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedBy   UserRef   `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MediaList is the backend's paginated media envelope.
type MediaList struct {
	Items      []Media    `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// User is a backend-owned account resource.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"` // admin, editor or author
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserInput is the mutation payload for users.
type UserInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Password    string `json:"password,omitempty"`
	Active      bool   `json:"active"`
}

// UserList is the backend's paginated user envelope.
type UserList struct {
	Items      []User     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Session is the backend's login response: a bearer token with expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// PostViews pairs a post with its view counter for analytics cards.
type PostViews struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// AnalyticsSummary is the backend's analytics rollup.
type AnalyticsSummary struct {
	TotalViews     int64       `json:"totalViews"`
	ViewsToday     int64       `json:"viewsToday"`
	PublishedPosts int         `json:"publishedPosts"`
	DraftPosts     int         `json:"draftPosts"`
	TopPosts       []PostViews `json:"topPosts"`
}

// GitSyncStatus reports the backend's git-sync reconciliation state.
// This frontend only displays it.
type GitSyncStatus struct {
	Enabled        bool           `json:"enabled"`
	Branch         string         `json:"branch"`
	Dirty          bool           `json:"dirty"`
	PendingChanges map[string]int `json:"pendingChanges"` // resource name -> count
	LastSyncAt     *time.Time     `json:"lastSyncAt"`
	LastError      string         `json:"lastError"`
}

// PendingTotal sums pending change counts across resources.
func (g *GitSyncStatus) PendingTotal() int {
	total := 0
	for _, n := range g.PendingChanges {
		total += n
	}
	return total
}

// ListOptions are the common query parameters for list endpoints.
type ListOptions struct {
	Page     int
	PerPage  int
	Search   string
	Status   string // posts only: draft or published
	Category string // posts only: category slug
	Tag      string // posts only: tag slug
	Sort     string
}
