package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"civictrack/middlewares"
	"civictrack/models"
	"civictrack/repository"
	"civictrack/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MapPinLimit caps the number of issues returned for the public map.
const MapPinLimit = 50

type IssueController struct {
	Issues         repository.IssueRepository
	Users          repository.UserRepository
	Images         storage.ImageStore
	MaxUploadBytes int64
	Now            func() time.Time
}

// IssueView is an issue as returned to clients. The creator is always
// expanded; the assignee only appears in the admin projection.
type IssueView struct {
	models.Issue
	CreatedBy  models.UserSummary  `json:"createdBy"`
	AssignedTo *models.UserSummary `json:"assignedTo,omitempty"`
}

// MapPin is the reduced form of an issue used by the public map.
type MapPin struct {
	ID        primitive.ObjectID   `json:"id"`
	Title     string               `json:"title"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Address   string               `json:"address,omitempty"`
	Category  models.IssueCategory `json:"category"`
	Status    models.IssueStatus   `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

type createIssueInput struct {
	Title       string                `form:"title" binding:"required,max=200"`
	Description string                `form:"description" binding:"required,max=2000"`
	Category    string                `form:"category" binding:"required,issuecategory"`
	Latitude    *float64              `form:"latitude" binding:"required,min=-90,max=90"`
	Longitude   *float64              `form:"longitude" binding:"required,min=-180,max=180"`
	Address     string                `form:"address" binding:"max=300"`
	Image       *multipart.FileHeader `form:"image" binding:"required"`
}

type transitionInput struct {
	Status          string  `json:"status" binding:"required,issuestatus"`
	ResolutionNotes string  `json:"resolutionNotes" binding:"max=2000"`
	AssignedTo      *string `json:"assignedTo"`
}

func (h *IssueController) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// views expands creators and, for admins, assignees. A failed user lookup
// degrades to id-only summaries rather than failing the request.
func (h *IssueController) views(ctx context.Context, c *gin.Context, issues []models.Issue, admin bool) []IssueView {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, len(issues))
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, issue := range issues {
		add(issue.CreatedBy)
		if admin && issue.AssignedTo != nil {
			add(*issue.AssignedTo)
		}
	}

	users := map[primitive.ObjectID]models.User{}
	if len(ids) > 0 {
		found, err := h.Users.FindByIDs(ctx, ids)
		if err != nil {
			middlewares.Logger(c).Warn().Err(err).Msg("failed to expand issue users")
		} else {
			users = found
		}
	}
	summary := func(id primitive.ObjectID) models.UserSummary {
		if u, ok := users[id]; ok {
			return u.Summary()
		}
		return models.UserSummary{ID: id}
	}

	out := make([]IssueView, 0, len(issues))
	for _, issue := range issues {
		v := IssueView{Issue: issue, CreatedBy: summary(issue.CreatedBy)}
		if admin && issue.AssignedTo != nil {
			s := summary(*issue.AssignedTo)
			v.AssignedTo = &s
		}
		out = append(out, v)
	}
	return out
}

func (h *IssueController) view(ctx context.Context, c *gin.Context, issue *models.Issue) IssueView {
	admin := middlewares.CurrentRole(c).IsAdmin()
	return h.views(ctx, c, []models.Issue{*issue}, admin)[0]
}

func issueIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateIssue handles a multipart issue report with its photo
func (h *IssueController) CreateIssue(c *gin.Context) {
	createdByID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if h.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	var input createIssueInput
	if err := c.ShouldBind(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return
		}
		respondValidation(c, err)
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	details := map[string]string{}
	if input.Title == "" {
		details["title"] = "required"
	}
	if input.Description == "" {
		details["description"] = "required"
	}
	contentType := input.Image.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		details["image"] = "image"
	}
	if len(details) > 0 {
		respondFieldErrors(c, details)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	file, err := input.Image.Open()
	if err != nil {
		respondServerError(c, err, "Failed to read image")
		return
	}
	defer file.Close()

	imageURL, err := h.Images.Save(ctx, input.Image.Filename, contentType, file, input.Image.Size)
	if err != nil {
		respondServerError(c, err, "Failed to store image")
		return
	}

	issue := models.NewIssue(
		createdByID,
		input.Title,
		input.Description,
		models.IssueCategory(input.Category),
		models.Location{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
			Address:   strings.TrimSpace(input.Address),
		},
		imageURL,
	)

	if err := h.Issues.Create(ctx, &issue); err != nil {
		if derr := h.Images.Delete(ctx, imageURL); derr != nil {
			middlewares.Logger(c).Warn().Err(derr).Str("image", imageURL).Msg("failed to remove orphaned image")
		}
		respondServerError(c, err, "Failed to create issue")
		return
	}

	middlewares.Logger(c).Info().Str("issue_id", issue.ID.Hex()).Str("category", string(issue.Category)).Msg("issue reported")
	c.JSON(http.StatusCreated, h.view(ctx, c, &issue))
}

// GetAllIssues lists issues matching the status, category and title
// search query parameters
func (h *IssueController) GetAllIssues(c *gin.Context) {
	filter := repository.IssueFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   repository.NormalizeSort(c.Query("sort")),
	}

	if s := c.Query("status"); s != "" && s != "all" {
		status := models.IssueStatus(s)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		filter.Status = status
	}
	if s := c.Query("category"); s != "" && s != "all" {
		category := models.IssueCategory(s)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		filter.Category = category
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := h.Issues.List(ctx, filter)
	if err != nil {
		respondServerError(c, err, "Failed to retrieve issues")
		return
	}

	c.JSON(http.StatusOK, h.views(ctx, c, issues, middlewares.CurrentRole(c).IsAdmin()))
}

// GetMyIssues lists the caller's own reports, newest first
func (h *IssueController) GetMyIssues(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := h.Issues.List(ctx, repository.IssueFilter{CreatedBy: &userID, Sort: repository.SortLatest})
	if err != nil {
		respondServerError(c, err, "Failed to retrieve issues")
		return
	}

	c.JSON(http.StatusOK, h.views(ctx, c, issues, middlewares.CurrentRole(c).IsAdmin()))
}

// GetMapIssues returns pins for the most recent reports
func (h *IssueController) GetMapIssues(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := h.Issues.Recent(ctx, MapPinLimit)
	if err != nil {
		respondServerError(c, err, "Failed to retrieve issues")
		return
	}

	pins := make([]MapPin, 0, len(issues))
	for _, issue := range issues {
		pins = append(pins, MapPin{
			ID:        issue.ID,
			Title:     issue.Title,
			Latitude:  issue.Location.Latitude,
			Longitude: issue.Location.Longitude,
			Address:   issue.Location.Address,
			Category:  issue.Category,
			Status:    issue.Status,
			CreatedAt: issue.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, pins)
}

// GetIssueStats returns dashboard counts
func (h *IssueController) GetIssueStats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.Issues.Stats(ctx, h.now())
	if err != nil {
		respondServerError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetIssue handles retrieving a single issue by ID
func (h *IssueController) GetIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := h.Issues.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		respondServerError(c, err, "Failed to retrieve issue")
		return
	}

	c.JSON(http.StatusOK, h.view(ctx, c, issue))
}

// UpdateIssue writes an admin transition: status, resolution notes and
// assignee are replaced together.
func (h *IssueController) UpdateIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input transitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	t := models.Transition{
		Status:          models.IssueStatus(input.Status),
		ResolutionNotes: input.ResolutionNotes,
	}
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		assignee, err := h.resolveAssignee(ctx, *input.AssignedTo)
		if err != nil {
			if errors.Is(err, errInvalidAssignee) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee must be an admin"})
				return
			}
			respondServerError(c, err, "Failed to update issue")
			return
		}
		t.AssignedTo = &assignee
	}

	issue, err := h.Issues.ApplyTransition(ctx, id, t)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		respondServerError(c, err, "Failed to update issue")
		return
	}

	middlewares.Logger(c).Info().Str("issue_id", id.Hex()).Str("status", string(issue.Status)).Msg("issue updated")
	c.JSON(http.StatusOK, h.view(ctx, c, issue))
}

var errInvalidAssignee = errors.New("assignee is not an admin")

func (h *IssueController) resolveAssignee(ctx context.Context, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errInvalidAssignee
	}
	user, err := h.Users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, errInvalidAssignee
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !user.Role.IsAdmin() {
		return primitive.NilObjectID, errInvalidAssignee
	}
	return id, nil
}

// DeleteIssue handles deleting an issue and its stored photo
func (h *IssueController) DeleteIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := h.Issues.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		respondServerError(c, err, "Failed to delete issue")
		return
	}

	if err := h.Issues.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		}
		respondServerError(c, err, "Failed to delete issue")
		return
	}

	if issue.ImageURL != "" {
		if err := h.Images.Delete(ctx, issue.ImageURL); err != nil {
			middlewares.Logger(c).Warn().Err(err).Str("image", issue.ImageURL).Msg("failed to remove issue image")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}
