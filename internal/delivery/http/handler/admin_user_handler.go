package handler

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AdminUserHandler runs recommendations and insights on behalf of any user.
type AdminUserHandler struct {
	recs     usecase.RecommendationUsecase
	feedback usecase.FeedbackUsecase
}

type adminRecommendRequest struct {
	Algorithm string     `json:"algorithm"`
	Limit     int        `json:"limit"`
	ProfileID *uuid.UUID `json:"profileId"`
}

func NewAdminUserHandler(recs usecase.RecommendationUsecase, feedback usecase.FeedbackUsecase) *AdminUserHandler {
	return &AdminUserHandler{recs: recs, feedback: feedback}
}

func (h *AdminUserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/users/:user_id")
	grp.Post("/recommendations", h.Recommend)
	grp.Get("/insights", h.Insights)
}

func (h *AdminUserHandler) Recommend(c fiber.Ctx) error {
	userID, err := paramUUID(c, "user_id")
	if err != nil {
		return err
	}
	var req adminRecommendRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest("Bad request", err)
		}
	}

	items, err := h.recs.Recommend(c.Context(), usecase.RecommendRequest{
		UserID:    userID,
		Algorithm: req.Algorithm,
		Limit:     req.Limit,
		ProfileID: req.ProfileID,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationListResponse(userID, items))
}

func (h *AdminUserHandler) Insights(c fiber.Ctx) error {
	userID, err := paramUUID(c, "user_id")
	if err != nil {
		return err
	}
	weeks, err := queryInt(c, "weeks", 0)
	if err != nil {
		return err
	}
	snap, err := h.feedback.SummarizeInsights(c.Context(), userID, weeks)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, snap)
}
