package handler

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	recs     usecase.RecommendationUsecase
	feedback usecase.FeedbackUsecase
}

type feedbackRequest struct {
	Action   string `json:"action"`
	Feedback string `json:"feedback"`
}

func NewRecommendationHandler(recs usecase.RecommendationUsecase, feedback usecase.FeedbackUsecase) *RecommendationHandler {
	return &RecommendationHandler{recs: recs, feedback: feedback}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/recommendations")
	grp.Get("/", h.Recommend)
	grp.Get("/history", h.History)
	grp.Get("/insights", h.Insights)
	grp.Post("/:recommendation_id/feedback", h.Feedback)
}

func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	profileID, err := queryUUID(c, "profile_id")
	if err != nil {
		return err
	}

	items, err := h.recs.Recommend(c.Context(), usecase.RecommendRequest{
		UserID:    userID,
		Algorithm: c.Query("algorithm"),
		Limit:     limit,
		ProfileID: profileID,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationListResponse(userID, items))
}

func (h *RecommendationHandler) History(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	weeks, err := queryInt(c, "weeks", 0)
	if err != nil {
		return err
	}

	items, err := h.feedback.ListRecommendations(c.Context(), userID, weeks)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationListResponse(userID, items))
}

func (h *RecommendationHandler) Insights(c fiber.Ctx) error {
	userID, err := callerID(c)
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

func (h *RecommendationHandler) Feedback(c fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	recID, err := paramUUID(c, "recommendation_id")
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}

	m, err := h.feedback.RecordFeedback(c.Context(), usecase.FeedbackRequest{
		UserID:           userID,
		RecommendationID: recID,
		Action:           req.Action,
		Feedback:         req.Feedback,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationResponse(m))
}
