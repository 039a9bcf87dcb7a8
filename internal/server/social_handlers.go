package server

import (
	"socialmedia/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SaveUserRequest is the body of POST /social/users. Every field is optional.
type SaveUserRequest struct {
	Name string `json:"name" example:"alice"`
}

// SetProfileRequest is the body of PUT /social/users/{id}/profile.
type SetProfileRequest struct {
	Description string `json:"description" example:"Gopher since 2012"`
}

// CreatePostRequest is the body of POST /social/users/{id}/posts.
type CreatePostRequest struct {
	Content string `json:"content" example:"Hello, world"`
}

// CreateGroupRequest is the body of POST /social/groups.
type CreateGroupRequest struct {
	Name string `json:"name" example:"gophers"`
}

// GroupResponse is a group together with its member list.
type GroupResponse struct {
	*models.Group
	Members []*models.User `json:"members"`
}

func toGroupResponse(g *models.Group) GroupResponse {
	return GroupResponse{Group: g, Members: g.Members()}
}

// GetAllUsers handles GET /social/users
// @Summary List users
// @Description List every user. Relations are not expanded.
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx, cancel := handlerContext(c)
	defer cancel()

	users, err := s.socialSvc().GetAllUsers(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(users)
}

// SaveUser handles POST /social/users
// @Summary Create user
// @Description Store a user and return it with its assigned ID.
// @Tags users
// @Accept json
// @Produce json
// @Param request body SaveUserRequest false "User fields"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) SaveUser(c *fiber.Ctx) error {
	var req SaveUserRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	user, err := s.socialSvc().SaveUser(ctx, &models.User{Name: req.Name})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /social/users/:id
// @Summary Get user
// @Description Get a user with its profile, posts and groups.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserDetail
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	detail, err := s.socialSvc().GetUser(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// DeleteUser handles DELETE /social/users/:id
// @Summary Delete user
// @Description Delete a user, its profile and its memberships. Its posts are kept without an author.
// @Tags users
// @Produce plain
// @Param id path int true "User ID"
// @Success 200 {string} string "Deleted Successfully"
// @Failure 400 {string} string "User not found"
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	if err := s.socialSvc().DeleteUser(ctx, id); err != nil {
		if models.IsNotFound(err) {
			return c.Status(fiber.StatusBadRequest).SendString("User not found")
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).SendString("Deleted Successfully")
}

// SetProfile handles PUT /social/users/:id/profile
// @Summary Set profile
// @Description Create or replace the user's profile description.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body SetProfileRequest true "Profile"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/profile [put]
func (s *Server) SetProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req SetProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	profile, err := s.socialSvc().SetProfile(ctx, id, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// CreatePost handles POST /social/users/:id/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Author ID"
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	post, err := s.socialSvc().CreatePost(ctx, id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /social/posts
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx, cancel := handlerContext(c)
	defer cancel()

	posts, err := s.socialSvc().ListPosts(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(posts)
}

// GetGroups handles GET /social/groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Router /groups [get]
func (s *Server) GetGroups(c *fiber.Ctx) error {
	ctx, cancel := handlerContext(c)
	defer cancel()

	groups, err := s.socialSvc().ListGroups(ctx)
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}
	return c.JSON(resp)
}

// CreateGroup handles POST /social/groups
// @Summary Create group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /groups [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	group, err := s.socialSvc().CreateGroup(ctx, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toGroupResponse(group))
}

// JoinGroup handles PUT /social/groups/:id/members/:userId
// @Summary Add member
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} GroupResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id}/members/{userId} [put]
func (s *Server) JoinGroup(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	group, err := s.socialSvc().JoinGroup(ctx, userID, groupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGroupResponse(group))
}

// LeaveGroup handles DELETE /social/groups/:id/members/:userId
// @Summary Remove member
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} GroupResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{id}/members/{userId} [delete]
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	ctx, cancel := handlerContext(c)
	defer cancel()

	group, err := s.socialSvc().LeaveGroup(ctx, userID, groupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGroupResponse(group))
}
