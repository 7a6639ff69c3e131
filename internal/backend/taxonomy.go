// taxonomy.go: category and tag resource methods.
package backend

import (
	"context"
	"fmt"
	"net/url"
)

const (
	resourceCategories = "categories"
	resourceTags       = "tags"
)

// ListCategories fetches all categories. The backend does not paginate
// taxonomy collections.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, resourceCategories, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory fetches a single category by slug.
func (c *Client) GetCategory(ctx context.Context, slug string) (*Category, error) {
	var category Category
	if err := c.get(ctx, resourceCategories, "/categories/"+url.PathEscape(slug), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory creates a category and invalidates cached category reads.
func (c *Client) CreateCategory(ctx context.Context, input *CategoryInput) (*Category, error) {
	var category Category
	if err := c.mutate(ctx, resourceCategories, "POST", "/categories", input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory updates a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, input *CategoryInput) (*Category, error) {
	var category Category
	if err := c.mutate(ctx, resourceCategories, "PUT", fmt.Sprintf("/categories/id/%d", id), input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.mutate(ctx, resourceCategories, "DELETE", fmt.Sprintf("/categories/id/%d", id), nil, nil)
}

// ListTags fetches all tags.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.get(ctx, resourceTags, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag fetches a single tag by slug.
func (c *Client) GetTag(ctx context.Context, slug string) (*Tag, error) {
	var tag Tag
	if err := c.get(ctx, resourceTags, "/tags/"+url.PathEscape(slug), nil, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates a tag and invalidates cached tag reads.
func (c *Client) CreateTag(ctx context.Context, input *TagInput) (*Tag, error) {
	var tag Tag
	if err := c.mutate(ctx, resourceTags, "POST", "/tags", input, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag updates a tag.
func (c *Client) UpdateTag(ctx context.Context, id int64, input *TagInput) (*Tag, error) {
	var tag Tag
	if err := c.mutate(ctx, resourceTags, "PUT", fmt.Sprintf("/tags/id/%d", id), input, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.mutate(ctx, resourceTags, "DELETE", fmt.Sprintf("/tags/id/%d", id), nil, nil)
}
