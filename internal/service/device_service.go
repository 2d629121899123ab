package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/repair-desk/internal/domain"
	"github.com/spec-kit/repair-desk/internal/events"
	"github.com/spec-kit/repair-desk/internal/repository"
	apperrors "github.com/spec-kit/repair-desk/pkg/util/errorutil"
)

const pgUniqueViolation = "23505"

// DeviceService implements the device registry: lookup by serial and
// registration of new devices.
type DeviceService struct {
	devices    repository.DeviceRepository
	dispatcher events.Dispatcher
}

// DeviceDependencies bundles repositories for the device service.
type DeviceDependencies struct {
	DeviceRepo repository.DeviceRepository
	Dispatcher events.Dispatcher
}

// DeviceRegisterInput describes registration payload.
type DeviceRegisterInput struct {
	SerialNumber string
	DeviceType   string
	Model        string
	Location     string
	OS           string
	IssuedAt     *time.Time
}

// NewDeviceService constructs the service.
func NewDeviceService(deps DeviceDependencies) *DeviceService {
	return &DeviceService{
		devices:    deps.DeviceRepo,
		dispatcher: deps.Dispatcher,
	}
}

// LookupBySerial finds a device by exact serial number. The NotFound error
// carries the searched serial so the client can hand it to registration
// without any server-side pending state.
func (s *DeviceService) LookupBySerial(ctx context.Context, serial string) (*domain.Device, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, apperrors.NewValidationError("serial number required", nil)
	}

	device, err := s.devices.GetBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("device", map[string]any{"pending_serial": serial})
		}
		return nil, apperrors.MapError(err)
	}
	return device, nil
}

// Register stores a new device. Fails with Conflict when the serial number
// already exists; nothing is written in that case.
func (s *DeviceService) Register(ctx context.Context, input DeviceRegisterInput) (*domain.Device, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	deviceType := strings.TrimSpace(input.DeviceType)
	if serial == "" || deviceType == "" {
		return nil, apperrors.NewValidationError("serial number and device type required", nil)
	}

	if _, err := s.devices.GetBySerial(ctx, serial); err == nil {
		return nil, apperrors.NewConflict("device already registered", map[string]any{"serial_number": serial})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	device := &domain.Device{
		SerialNumber: serial,
		DeviceType:   deviceType,
		Model:        strings.TrimSpace(input.Model),
		Location:     strings.TrimSpace(input.Location),
		OS:           strings.TrimSpace(input.OS),
		IssuedAt:     input.IssuedAt,
	}
	if err := s.devices.Create(ctx, device); err != nil {
		// The unique constraint closes the race between the existence
		// check and the insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.NewConflict("device already registered", map[string]any{"serial_number": serial})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventDeviceRegistered,
		Payload: events.DeviceRegisteredPayload{
			DeviceID:     device.ID,
			SerialNumber: device.SerialNumber,
			DeviceType:   device.DeviceType,
		},
	})
	return device, nil
}

func (s *DeviceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
