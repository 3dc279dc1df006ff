package controller

import (
	"erp-featurestore-be/internal/apperror"
	"erp-featurestore-be/internal/dto"
	"erp-featurestore-be/internal/pkg/serverutils"
	"erp-featurestore-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeatureStoreController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	ListDefinitions(ctx *fiber.Ctx) error
	GetDefinition(ctx *fiber.Ctx) error
	RegisterDefinition(ctx *fiber.Ctx) error
	RecordSnapshots(ctx *fiber.Ctx) error
	Latest(ctx *fiber.Ctx) error
	Timeseries(ctx *fiber.Ctx) error
	SyncCapacity(ctx *fiber.Ctx) error
	SyncCapacityForecast(ctx *fiber.Ctx) error
}

type featureStoreController struct {
	service  service.IFeatureStoreService
	sync     service.ICapacitySyncService
	forecast service.ICapacityForecastService
}

func NewFeatureStoreController(
	service service.IFeatureStoreService,
	sync service.ICapacitySyncService,
	forecast service.ICapacityForecastService,
) IFeatureStoreController {
	return &featureStoreController{
		service:  service,
		sync:     sync,
		forecast: forecast,
	}
}

func (c *featureStoreController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/feature-store/v1")

	h.Get("/definitions", c.ListDefinitions)
	h.Get("/definitions/:name", c.GetDefinition)
	h.Post("/definitions", auth, c.RegisterDefinition) // PROTECTED

	h.Post("/features/:name/snapshots", auth, c.RecordSnapshots) // PROTECTED
	h.Get("/features/:name/entities/:entityId/latest", c.Latest)
	h.Get("/features/:name/entities/:entityId/timeseries", c.Timeseries)

	h.Post("/sync/capacity", auth, c.SyncCapacity)                  // PROTECTED
	h.Post("/sync/capacity-forecast", auth, c.SyncCapacityForecast) // PROTECTED
}

func (c *featureStoreController) ListDefinitions(ctx *fiber.Ctx) error {
	res, err := c.service.ListDefinitions(ctx.UserContext(), ctx.Query("entity"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list feature definitions", res))
}

func (c *featureStoreController) GetDefinition(ctx *fiber.Ctx) error {
	res, err := c.service.GetDefinition(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get feature definition", res))
}

func (c *featureStoreController) RegisterDefinition(ctx *fiber.Ctx) error {
	var req dto.RegisterFeatureDefinitionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindInvalid, err, "malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RegisterDefinition(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success register feature definition", res))
}

func (c *featureStoreController) RecordSnapshots(ctx *fiber.Ctx) error {
	var req dto.RecordSnapshotsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindInvalid, err, "malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RecordSnapshots(ctx.UserContext(), ctx.Params("name"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record snapshots", res))
}

func (c *featureStoreController) Latest(ctx *fiber.Ctx) error {
	res, err := c.service.Latest(ctx.UserContext(), ctx.Params("name"), ctx.Params("entityId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get latest snapshot", res))
}

func (c *featureStoreController) Timeseries(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	res, err := c.service.Timeseries(ctx.UserContext(), ctx.Params("name"), ctx.Params("entityId"), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get snapshot timeseries", res))
}

func (c *featureStoreController) SyncCapacity(ctx *fiber.Ctx) error {
	processed, err := c.sync.SyncCapacity(ctx.UserContext())
	return c.runResponse(ctx, service.PipelineCapacitySync, processed, err)
}

func (c *featureStoreController) SyncCapacityForecast(ctx *fiber.Ctx) error {
	processed, err := c.forecast.SyncForecast(ctx.UserContext())
	return c.runResponse(ctx, service.PipelineCapacityForecast, processed, err)
}

// runResponse always carries a processed count, 0 when the run failed.
func (c *featureStoreController) runResponse(ctx *fiber.Ctx, pipeline string, processed int, err error) error {
	if err != nil {
		code := serverutils.StatusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponseWithData(code, err.Error(), dto.SyncRunResponse{
			Pipeline:  pipeline,
			Processed: 0,
			Error:     err.Error(),
		}))
	}

	return ctx.JSON(serverutils.SuccessResponse("Pipeline run completed", dto.SyncRunResponse{
		Pipeline:  pipeline,
		Processed: processed,
	}))
}
