package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates the service when it has no ID, otherwise updates it
func (a *ServiceAdapter) Upsert(ctx context.Context, service *entities.Service) error {
	now := time.Now()
	service.UpdatedAt = now

	if service.ID == "" {
		service.ID = uuid.New().String()
		service.CreatedAt = now

		query, args, err := a.db.Insert("services").Rows(goqu.Record{
			"id":               service.ID,
			"name":             service.Name,
			"description":      service.Description,
			"duration_minutes": service.DurationMinutes,
			"price":            service.Price,
			"currency":         service.Currency,
			"is_active":        service.IsActive,
			"created_at":       service.CreatedAt,
			"updated_at":       service.UpdatedAt,
		}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}

		if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create service", err)
		}
		return nil
	}

	query, args, err := a.db.Update("services").
		Set(goqu.Record{
			"name":             service.Name,
			"description":      service.Description,
			"duration_minutes": service.DurationMinutes,
			"price":            service.Price,
			"currency":         service.Currency,
			"is_active":        service.IsActive,
			"updated_at":       service.UpdatedAt,
		}).
		Where(goqu.Ex{"id": service.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update service", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", service.ID))
	}

	return nil
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := a.db.Select(
		"id", "name", "description", "duration_minutes", "price", "currency",
		"is_active", "created_at", "updated_at",
	).From("services").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service, err := scanService(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}

	return service, nil
}

// List retrieves all services, newest first
func (a *ServiceAdapter) List(ctx context.Context) ([]*entities.Service, error) {
	query, args, err := a.db.Select(
		"id", "name", "description", "duration_minutes", "price", "currency",
		"is_active", "created_at", "updated_at",
	).From("services").
		Order(goqu.I("created_at").Desc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	var services []*entities.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
	}

	return services, nil
}

// Delete removes a service
func (a *ServiceAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("services").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isForeignKeyViolation(err) {
		return apperrors.NewConflictError("service is referenced by existing bookings")
	}
	if err != nil {
		return apperrors.NewInternalError("failed to delete service", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*entities.Service, error) {
	service := &entities.Service{}
	var description sql.NullString

	err := row.Scan(
		&service.ID,
		&service.Name,
		&description,
		&service.DurationMinutes,
		&service.Price,
		&service.Currency,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.Description = description.String
	return service, nil
}
