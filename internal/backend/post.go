package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"socialsync/internal/model"
)

// postDTO is the wire shape of a post. The backend has used both the
// singular and plural counter names and a single media attachment, so both
// are accepted and folded into model.Post. Embedded comments are ignored:
// threads are only populated by the comment cache on first expansion.
type postDTO struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	AuthorID        int64         `json:"authorId"`
	AuthorUsername  string        `json:"authorUsername"`
	AuthorAvatarURL string        `json:"authorAvatarUrl"`
	MediaURL        string        `json:"mediaUrl"`
	MediaType       string        `json:"mediaType"`
	Media           []model.Media `json:"media"`
	LikesCount      *int          `json:"likesCount"`
	LikeCount       *int          `json:"likeCount"`
	CommentsCount   *int          `json:"commentsCount"`
	CommentCount    *int          `json:"commentCount"`
	IsLiked         bool          `json:"isLiked"`
	Hidden          bool          `json:"hidden"`
	CreatedAt       Timestamp     `json:"createdAt"`
}

func (d postDTO) toModel() model.Post {
	p := model.Post{
		ID:              d.ID,
		Title:           d.Title,
		Content:         d.Content,
		AuthorID:        d.AuthorID,
		AuthorUsername:  d.AuthorUsername,
		AuthorAvatarURL: d.AuthorAvatarURL,
		Media:           d.Media,
		LikesCount:      firstCount(d.LikesCount, d.LikeCount),
		CommentsCount:   firstCount(d.CommentsCount, d.CommentCount),
		IsLiked:         d.IsLiked,
		Hidden:          d.Hidden,
		CreatedAt:       d.CreatedAt.Time,
	}
	if len(p.Media) == 0 && d.MediaURL != "" {
		p.Media = []model.Media{{URL: d.MediaURL, Type: d.MediaType}}
	}
	return p
}

func firstCount(values ...*int) int {
	for _, v := range values {
		if v != nil {
			if *v < 0 {
				return 0
			}
			return *v
		}
	}
	return 0
}

func toModels(dtos []postDTO) []model.Post {
	posts := make([]model.Post, 0, len(dtos))
	for _, d := range dtos {
		posts = append(posts, d.toModel())
	}
	return posts
}

// ListPosts returns the global feed, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var dtos []postDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts", nil, &dtos); err != nil {
		return nil, err
	}
	return toModels(dtos), nil
}

// ListPostsByUsername returns one author's posts, newest first.
func (c *Client) ListPostsByUsername(ctx context.Context, username string) ([]model.Post, error) {
	var dtos []postDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts/user/"+url.PathEscape(username), nil, &dtos); err != nil {
		return nil, err
	}
	return toModels(dtos), nil
}

// CreatePost submits the post as multipart form fields, which is what the
// backend's post endpoints consume.
func (c *Client) CreatePost(ctx context.Context, in model.CreatePostInput) (*model.Post, error) {
	body, contentType, err := postForm(in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	var dto postDTO
	if err := c.do(ctx, http.MethodPost, "/api/posts", contentType, body, &dto); err != nil {
		return nil, err
	}
	post := dto.toModel()
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID int64, in model.UpdatePostInput) (*model.Post, error) {
	body, contentType, err := postForm(in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	var dto postDTO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), contentType, body, &dto); err != nil {
		return nil, err
	}
	post := dto.toModel()
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil, nil)
}

func (c *Client) Like(ctx context.Context, postID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/likes/post/%d", postID), nil, nil)
}

func (c *Client) Unlike(ctx context.Context, postID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/likes/post/%d", postID), nil, nil)
}

// postForm encodes the non-empty text fields as multipart form data.
func postForm(title, content string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", title},
		{"content", content},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
