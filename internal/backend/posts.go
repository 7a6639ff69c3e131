package backend

import (
	"context"
	"fmt"
	"net/url"
)

const resourcePosts = "posts"

// ListPosts fetches a page of posts. Public reads are served from the
// TTL cache when fresh.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (*PostList, error) {
	var list PostList
	if err := c.get(ctx, resourcePosts, "/posts", listQuery(opts), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPost fetches a single post by slug.
func (c *Client) GetPost(ctx context.Context, slug string) (*Post, error) {
	var post Post
	if err := c.get(ctx, resourcePosts, "/posts/"+url.PathEscape(slug), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostByID fetches a single post by numeric id, used by admin edit screens.
func (c *Client) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := c.get(ctx, resourcePosts, fmt.Sprintf("/posts/id/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost creates a post and invalidates cached post reads.
func (c *Client) CreatePost(ctx context.Context, input *PostInput) (*Post, error) {
	var post Post
	if err := c.mutate(ctx, resourcePosts, "POST", "/posts", input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost updates a post and invalidates cached post reads.
func (c *Client) UpdatePost(ctx context.Context, id int64, input *PostInput) (*Post, error) {
	var post Post
	if err := c.mutate(ctx, resourcePosts, "PUT", fmt.Sprintf("/posts/id/%d", id), input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post and invalidates cached post reads.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.mutate(ctx, resourcePosts, "DELETE", fmt.Sprintf("/posts/id/%d", id), nil, nil)
}

// SearchPosts runs a full-text search over published posts.
func (c *Client) SearchPosts(ctx context.Context, query string, page, perPage int) (*PostList, error) {
	return c.ListPosts(ctx, ListOptions{Page: page, PerPage: perPage, Search: query, Status: "published"})
}
