package controllers

import (
	"calibration-app/logging"
	"calibration-app/services"
	"calibration-app/storage"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
)

var (
	log      = logging.GetLogger("controllers")
	validate = validator.New()
)

// errorResponse maps service errors to status codes.
func errorResponse(ctx *fiber.Ctx, err error) error {
	var (
		precondition *services.PreconditionError
		validation   *services.ValidationError
		configErr    *services.ConfigurationError
		quantity     *services.QuantityExceededError
		conflict     *services.ConcurrentUpdateError
		notFound     *services.NotFoundError
		forbidden    *services.ForbiddenError
		fieldErrs    validator.ValidationErrors
	)

	switch {
	case errors.As(err, &precondition):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":  false,
			"message":  err.Error(),
			"code":     "precondition",
			"current":  precondition.Current,
			"required": precondition.Required,
		})
	case errors.As(err, &validation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"code":    "validation",
			"errors":  validation.Fields,
		})
	case errors.As(err, &fieldErrs):
		fields := map[string]string{}
		for _, fe := range fieldErrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "validation failed",
			"code":    "validation",
			"errors":  fields,
		})
	case errors.As(err, &configErr):
		log.Error("configuration error", "path", ctx.Path(), "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"code":    "configuration",
		})
	case errors.As(err, &quantity):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success":            false,
			"message":            err.Error(),
			"code":               "quantity_exceeded",
			"work_order_item_id": quantity.WorkOrderItemID,
			"requested":          quantity.Requested,
			"allowed":            quantity.Allowed,
		})
	case errors.As(err, &conflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"code":    "concurrent_update",
		})
	case errors.As(err, &notFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, storage.ErrEmptyFile):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"code":    "validation",
			"errors":  map[string]string{"file": "empty file"},
		})
	case errors.As(err, &forbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	log.Error("request failed", "method", ctx.Method(), "path", ctx.Path(), "error", err)
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// saveUpload stores fh under dir. An empty upload is a validation error on field.
func saveUpload(files *storage.Local, fh *multipart.FileHeader, field, dir string) (string, error) {
	path, err := files.Save(fh, dir)
	if errors.Is(err, storage.ErrEmptyFile) {
		return "", services.NewValidationError(field, "empty file")
	}
	return path, err
}

func badRequest(ctx *fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msg})
}

func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.NewValidationError(name, "invalid id")
	}
	return uint(id), nil
}

func actorID(ctx *fiber.Ctx) int {
	if id, ok := ctx.Locals("userID").(float64); ok {
		return int(id)
	}
	return 0
}

// transitionOptions reads the optional If-Match header carrying the work
// order version the client last saw.
func transitionOptions(ctx *fiber.Ctx) services.TransitionOptions {
	opts := services.TransitionOptions{ActorID: actorID(ctx)}
	if v := strings.Trim(ctx.Get(fiber.HeaderIfMatch), `" `); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.ExpectedVersion = n
		}
	}
	return opts
}
