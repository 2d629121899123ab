package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-desk/internal/api/dto"
	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/service"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

// DevicesHandler manages device registry endpoints.
type DevicesHandler struct {
	service *service.DeviceService
}

// NewDevicesHandler constructs handler.
func NewDevicesHandler(deviceService *service.DeviceService) *DevicesHandler {
	return &DevicesHandler{service: deviceService}
}

// Check GET /devices/check?serial=. A miss returns 404 with the searched
// serial in the error details so the client can prefill registration.
func (h *DevicesHandler) Check(c *fiber.Ctx) error {
	device, err := h.service.LookupBySerial(c.Context(), c.Query("serial"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceResponse(device)})
}

// Register POST /devices.
func (h *DevicesHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	device, err := h.service.Register(c.Context(), service.DeviceRegisterInput{
		SerialNumber: req.SerialNumber,
		DeviceType:   req.DeviceType,
		Model:        req.Model,
		Location:     req.Location,
		OS:           req.OS,
		IssuedAt:     req.IssuedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": deviceResponse(device)})
}

func deviceResponse(device *domain.Device) dto.DeviceResponse {
	return dto.DeviceResponse{
		ID:           device.ID,
		SerialNumber: device.SerialNumber,
		DeviceType:   device.DeviceType,
		Model:        device.Model,
		Location:     device.Location,
		OS:           device.OS,
		IssuedAt:     device.IssuedAt,
		CreatedAt:    device.CreatedAt,
	}
}
