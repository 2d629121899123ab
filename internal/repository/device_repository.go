package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repair-desk/internal/domain"
)

// DeviceRepository encapsulates device persistence. Devices are immutable
// after registration, so no update or delete is exposed.
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	GetByID(ctx context.Context, id string) (*domain.Device, error)
	GetBySerial(ctx context.Context, serial string) (*domain.Device, error)
}

type deviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository instantiates repository.
func NewDeviceRepository(pool *pgxpool.Pool) DeviceRepository {
	return &deviceRepository{pool: pool}
}

func (r *deviceRepository) Create(ctx context.Context, device *domain.Device) error {
	const query = `
        INSERT INTO devices (serial_number, device_type, model, location, os, issued_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		device.SerialNumber,
		device.DeviceType,
		device.Model,
		device.Location,
		device.OS,
		device.IssuedAt,
	).Scan(&device.ID, &device.CreatedAt)
}

func (r *deviceRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	const query = `
        SELECT id, serial_number, device_type, model, location, os, issued_at, created_at
        FROM devices WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *deviceRepository) GetBySerial(ctx context.Context, serial string) (*domain.Device, error) {
	const query = `
        SELECT id, serial_number, device_type, model, location, os, issued_at, created_at
        FROM devices WHERE serial_number=$1`
	return r.fetchSingle(ctx, query, serial)
}

func (r *deviceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Device, error) {
	var device domain.Device
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&device.ID,
		&device.SerialNumber,
		&device.DeviceType,
		&device.Model,
		&device.Location,
		&device.OS,
		&device.IssuedAt,
		&device.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &device, nil
}
