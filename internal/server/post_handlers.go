package server

import (
	"fmt"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/service"
	"blog/internal/validation"
	"blog/internal/views"

	"github.com/gofiber/fiber/v2"
)

// GetAllPosts handles GET /
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return s.renderError(c, err)
	}
	p := s.page(c, "")
	p.Posts = posts
	return s.render(c, fiber.StatusOK, "index", p)
}

// ShowPost handles GET /show_post/:id
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.renderError(c, err)
	}
	p, err := s.postPage(c, post)
	if err != nil {
		return s.renderError(c, err)
	}
	return s.render(c, fiber.StatusOK, "post", p)
}

// CreateComment handles POST /show_post/:id
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	user := currentUser(c)
	if user == nil {
		return c.Redirect("/login?notice=comment")
	}

	var form validation.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return s.commentFailed(c, id, models.NewValidationError("Invalid form submission"))
	}
	form.Normalize()

	_, err = s.commentService.CreateComment(c.UserContext(), user, service.CreateCommentInput{
		PostID: id,
		Body:   form.Comment,
	})
	if err != nil {
		return s.commentFailed(c, id, err)
	}

	middleware.ContentWrites.WithLabelValues("comment", "create").Inc()
	return c.Redirect(fmt.Sprintf("/show_post/%d", id))
}

// commentFailed re-renders the post with the validation message. Other
// errors, a missing post included, render the error page.
func (s *Server) commentFailed(c *fiber.Ctx, postID uint, err error) error {
	if !models.HasCode(err, models.CodeValidation) {
		return s.renderError(c, err)
	}
	post, getErr := s.postService.GetPost(c.UserContext(), postID)
	if getErr != nil {
		return s.renderError(c, getErr)
	}
	p, getErr := s.postPage(c, post)
	if getErr != nil {
		return s.renderError(c, getErr)
	}
	p.Error = models.PublicMessage(err)
	return s.render(c, fiber.StatusBadRequest, "post", p)
}

// NewPostPage handles GET /add_new_post
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "make-post", s.page(c, "New Post"))
}

// CreatePost handles POST /add_new_post
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var form validation.PostForm
	if err := c.BodyParser(&form); err != nil {
		return s.postFormFailed(c, form, nil, models.NewValidationError("Invalid form submission"))
	}
	form.Normalize()

	if err := validation.Struct(&form); err != nil {
		return s.postFormFailed(c, form, nil, err)
	}

	_, err := s.postService.CreatePost(c.UserContext(), currentUser(c), postInput(form))
	if err != nil {
		return s.postFormFailed(c, form, nil, err)
	}

	middleware.ContentWrites.WithLabelValues("post", "create").Inc()
	return c.Redirect("/")
}

// EditPostPage handles GET /edit_post/:id
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.renderError(c, err)
	}

	p := s.page(c, "Edit Post")
	p.IsEdit = true
	p.Post = post
	p.Form["title"] = post.Title
	p.Form["subtitle"] = post.Subtitle
	p.Form["img_url"] = post.ImageURL
	p.Form["author"] = post.Byline()
	p.Form["body"] = post.Body
	return s.render(c, fiber.StatusOK, "make-post", p)
}

// UpdatePost handles POST /edit_post/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	target := &models.Post{ID: id}

	var form validation.PostForm
	if err := c.BodyParser(&form); err != nil {
		return s.postFormFailed(c, form, target, models.NewValidationError("Invalid form submission"))
	}
	form.Normalize()

	if err := validation.Struct(&form); err != nil {
		return s.postFormFailed(c, form, target, err)
	}

	if _, err := s.postService.UpdatePost(c.UserContext(), currentUser(c), id, postInput(form)); err != nil {
		return s.postFormFailed(c, form, target, err)
	}

	middleware.ContentWrites.WithLabelValues("post", "update").Inc()
	return c.Redirect(fmt.Sprintf("/show_post/%d", id))
}

// DeletePost handles GET /delete_post. Deletion is not offered yet.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).SendString("Not implemented")
}

// Placeholder serves a page that has no content yet.
func (s *Server) Placeholder(title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := s.page(c, title)
		p.Error = "Not implemented"
		return s.render(c, fiber.StatusNotImplemented, "placeholder", p)
	}
}

// postPage loads the comment thread under post and builds its page data.
func (s *Server) postPage(c *fiber.Ctx, post *models.Post) (*views.Page, error) {
	comments, err := s.commentService.ListComments(c.UserContext(), post.ID)
	if err != nil {
		return nil, err
	}
	post.Comments = comments

	p := s.page(c, post.Title)
	p.Post = post
	return p, nil
}

// postFormFailed re-renders the post form for validation and duplicate-title
// errors. edit is nil when creating.
func (s *Server) postFormFailed(c *fiber.Ctx, form validation.PostForm, edit *models.Post, err error) error {
	if !models.HasCode(err, models.CodeValidation) && !models.HasCode(err, models.CodeDuplicate) {
		return s.renderError(c, err)
	}

	p := s.page(c, "New Post")
	if edit != nil {
		p.Title = "Edit Post"
		p.IsEdit = true
		p.Post = edit
	}
	p.Error = models.PublicMessage(err)
	p.Form["title"] = form.Title
	p.Form["subtitle"] = form.Subtitle
	p.Form["img_url"] = form.ImageURL
	p.Form["author"] = form.Author
	p.Form["body"] = form.Body
	return s.render(c, models.StatusFor(err), "make-post", p)
}

func postInput(form validation.PostForm) service.PostInput {
	return service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImageURL: form.ImageURL,
		Author:   form.Author,
		Body:     form.Body,
	}
}
