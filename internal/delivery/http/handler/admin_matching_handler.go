package handler

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminMatchingHandler struct {
	uc usecase.MatchingAdminUsecase
}

func NewAdminMatchingHandler(uc usecase.MatchingAdminUsecase) *AdminMatchingHandler {
	return &AdminMatchingHandler{uc: uc}
}

func (h *AdminMatchingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matching")
	grp.Get("/config", h.GetConfig)
	grp.Put("/config", h.UpdateConfig)
	grp.Put("/weights", h.UpdateWeights)

	profiles := grp.Group("/profiles")
	profiles.Get("/", h.ListProfiles)
	profiles.Post("/", h.CreateProfile)
	profiles.Get("/:profile_id", h.GetProfile)
	profiles.Put("/:profile_id", h.UpdateProfile)
	profiles.Delete("/:profile_id", h.DeleteProfile)
	profiles.Post("/:profile_id/default", h.SetDefaultProfile)
	profiles.Post("/:profile_id/test", h.TestProfile)
}

func (h *AdminMatchingHandler) GetConfig(c fiber.Ctx) error {
	cfg, err := h.uc.GetConfig(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, cfg)
}

func (h *AdminMatchingHandler) UpdateConfig(c fiber.Ctx) error {
	var req usecase.ConfigPatch
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	cfg, err := h.uc.UpdateConfig(c.Context(), middleware.ActorID(c), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, cfg)
}

func (h *AdminMatchingHandler) UpdateWeights(c fiber.Ctx) error {
	var req usecase.WeightsPatch
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	w, err := h.uc.UpdateWeights(c.Context(), middleware.ActorID(c), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, w)
}

func (h *AdminMatchingHandler) ListProfiles(c fiber.Ctx) error {
	out, err := h.uc.ListProfiles(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *AdminMatchingHandler) GetProfile(c fiber.Ctx) error {
	id, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	p, err := h.uc.GetProfile(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *AdminMatchingHandler) CreateProfile(c fiber.Ctx) error {
	var req usecase.ProfileInput
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	p, err := h.uc.CreateProfile(c.Context(), middleware.ActorID(c), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, p)
}

func (h *AdminMatchingHandler) UpdateProfile(c fiber.Ctx) error {
	id, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	var req usecase.ProfilePatch
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	p, err := h.uc.UpdateProfile(c.Context(), middleware.ActorID(c), id, req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, p)
}

func (h *AdminMatchingHandler) DeleteProfile(c fiber.Ctx) error {
	id, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	def, err := h.uc.DeleteProfile(c.Context(), middleware.ActorID(c), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ProfileDeletedResponse{
		DeletedProfileID: id,
		DefaultProfileID: def,
	})
}

func (h *AdminMatchingHandler) SetDefaultProfile(c fiber.Ctx) error {
	id, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	if err := h.uc.SetDefaultProfile(c.Context(), middleware.ActorID(c), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.DefaultProfileResponse{DefaultProfileID: id})
}

func (h *AdminMatchingHandler) TestProfile(c fiber.Ctx) error {
	id, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	var req usecase.SampleJob
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	res, err := h.uc.TestProfile(c.Context(), id, req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
