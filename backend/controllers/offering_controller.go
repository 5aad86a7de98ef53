package controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"learning-platform/backend/config"
	"learning-platform/backend/models"
	"learning-platform/backend/services"
	"learning-platform/backend/utils"
)

type OfferingController struct {
	Svc *services.Services
	Cfg *config.Config
	log *slog.Logger
}

func NewOfferingController(svc *services.Services, cfg *config.Config, log *slog.Logger) *OfferingController {
	return &OfferingController{Svc: svc, Cfg: cfg, log: log.With("controller", "offerings")}
}

type OfferingRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Active      *bool  `json:"active"`
}

func (r OfferingRequest) offering() models.ServiceOffering {
	o := models.ServiceOffering{
		Title:       r.Title,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		ImageURL:    r.ImageURL,
		Active:      true,
	}
	if r.Active != nil {
		o.Active = *r.Active
	}
	return o
}

// ListActive godoc
// @Summary Active service offerings
// @Tags offerings
// @Router /offerings [get]
func (oc *OfferingController) ListActive(c *fiber.Ctx) error {
	return oc.list(c, true)
}

func (oc *OfferingController) ListAll(c *fiber.Ctx) error {
	return oc.list(c, false)
}

func (oc *OfferingController) list(c *fiber.Ctx, activeOnly bool) error {
	offerings, err := oc.Svc.Offerings.List(c.UserContext(), activeOnly)
	if err != nil {
		return respondError(c, oc.log, err)
	}
	return c.JSON(fiber.Map{"offerings": offerings})
}

func (oc *OfferingController) CreateOffering(c *fiber.Ctx) error {
	var input OfferingRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	o, err := oc.Svc.Offerings.Create(c.UserContext(), input.offering())
	if err != nil {
		return respondError(c, oc.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Offering created",
		"offering": o,
	})
}

func (oc *OfferingController) UpdateOffering(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	var input OfferingRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	o, err := oc.Svc.Offerings.Update(c.UserContext(), ids[0], input.offering())
	if err != nil {
		return respondError(c, oc.log, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Offering updated",
		"offering": o,
	})
}

func (oc *OfferingController) DeleteOffering(c *fiber.Ctx) error {
	ids, err := paramIDs(c, "id")
	if ids == nil {
		return err
	}
	if err := oc.Svc.Offerings.Delete(c.UserContext(), ids[0]); err != nil {
		return respondError(c, oc.log, err)
	}
	return utils.NoContent(c)
}
