package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/polaris-studio/booking-backend/internal/application/services"
	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// Mocks

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateIfSlotFree(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, reference string) (*entities.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Upsert(ctx context.Context, service *entities.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

func (m *MockServiceRepository) List(ctx context.Context) ([]*entities.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Service), args.Error(1)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBusinessHourRepository struct {
	mock.Mock
}

func (m *MockBusinessHourRepository) Upsert(ctx context.Context, hour *entities.BusinessHour) error {
	args := m.Called(ctx, hour)
	return args.Error(0)
}

func (m *MockBusinessHourRepository) GetByDay(ctx context.Context, dayOfWeek int) (*entities.BusinessHour, error) {
	args := m.Called(ctx, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BusinessHour), args.Error(1)
}

func (m *MockBusinessHourRepository) List(ctx context.Context) ([]*entities.BusinessHour, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.BusinessHour), args.Error(1)
}

func (m *MockBusinessHourRepository) DeleteByDay(ctx context.Context, dayOfWeek int) error {
	args := m.Called(ctx, dayOfWeek)
	return args.Error(0)
}

type MockBlockedDateRepository struct {
	mock.Mock
}

func (m *MockBlockedDateRepository) Upsert(ctx context.Context, blocked *entities.BlockedDate) error {
	args := m.Called(ctx, blocked)
	return args.Error(0)
}

func (m *MockBlockedDateRepository) GetByDate(ctx context.Context, date string) (*entities.BlockedDate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BlockedDate), args.Error(1)
}

func (m *MockBlockedDateRepository) List(ctx context.Context) ([]*entities.BlockedDate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.BlockedDate), args.Error(1)
}

func (m *MockBlockedDateRepository) DeleteByDate(ctx context.Context, date string) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

// Fixtures

// 2026-02-02 is a Monday
const mondayDate = "2026-02-02"

type bookingFixture struct {
	bookings *MockBookingRepository
	catalog  *MockServiceRepository
	hours    *MockBusinessHourRepository
	blocked  *MockBlockedDateRepository
	service  *services.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: new(MockBookingRepository),
		catalog:  new(MockServiceRepository),
		hours:    new(MockBusinessHourRepository),
		blocked:  new(MockBlockedDateRepository),
	}
	f.service = services.NewBookingService(f.bookings, f.catalog, f.hours, f.blocked)
	return f
}

func (f *bookingFixture) withService() *bookingFixture {
	f.catalog.On("GetByID", mock.Anything, "svc-1").
		Return(&entities.Service{ID: "svc-1", Name: "Haircut", IsActive: true}, nil)
	return f
}

func (f *bookingFixture) withOpenMonday() *bookingFixture {
	f.blocked.On("GetByDate", mock.Anything, mondayDate).
		Return(nil, apperrors.NewNotFoundError("date is not blocked"))
	f.hours.On("GetByDay", mock.Anything, 1).
		Return(&entities.BusinessHour{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsOpen: true}, nil)
	return f
}

func candidateBooking(bookingTime string) *entities.Booking {
	return &entities.Booking{
		ClientName:  "Jane Doe",
		ClientEmail: "jane@example.com",
		ClientPhone: "555-0100",
		ServiceID:   "svc-1",
		BookingDate: mondayDate,
		BookingTime: bookingTime,
	}
}

func assertRejected(t *testing.T, err error, reason services.RejectionReason) {
	t.Helper()
	rejection, ok := services.AsRejection(err)
	assert.True(t, ok, "expected an admission rejection, got %v", err)
	assert.Equal(t, reason, rejection.Reason)
}

// Tests

func TestBookingService_AdmitBooking(t *testing.T) {
	t.Run("admits booking inside business hours", func(t *testing.T) {
		f := newBookingFixture().withService().withOpenMonday()
		f.bookings.On("CreateIfSlotFree", mock.Anything, mock.Anything).Return(nil)

		booking := candidateBooking("10:00")
		err := f.service.AdmitBooking(context.Background(), booking)

		assert.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, entities.BookingStatusPending, booking.Status)
		assert.Equal(t, entities.PaymentStatusPending, booking.PaymentStatus)
		assert.Regexp(t, `^BK-20260202-[0-9A-F]{6}$`, booking.BookingReference)
		f.bookings.AssertExpectations(t)
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		for _, tc := range []string{"09:00", "17:00"} {
			f := newBookingFixture().withService().withOpenMonday()
			f.bookings.On("CreateIfSlotFree", mock.Anything, mock.Anything).Return(nil)

			err := f.service.AdmitBooking(context.Background(), candidateBooking(tc))

			assert.NoError(t, err, "time %s should be admitted", tc)
		}
	})

	t.Run("rejects one minute outside the window", func(t *testing.T) {
		for _, tc := range []string{"08:59", "17:01"} {
			f := newBookingFixture().withService().withOpenMonday()

			err := f.service.AdmitBooking(context.Background(), candidateBooking(tc))

			assertRejected(t, err, services.RejectionOutsideHours)
		}
	})

	t.Run("rejects unknown service", func(t *testing.T) {
		f := newBookingFixture()
		f.catalog.On("GetByID", mock.Anything, "svc-1").
			Return(nil, apperrors.NewNotFoundError("service not found"))

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assertRejected(t, err, services.RejectionInvalidService)
		// Admission short-circuits before any schedule lookups
		f.blocked.AssertNotCalled(t, "GetByDate", mock.Anything, mock.Anything)
	})

	t.Run("blocked date wins over open hours", func(t *testing.T) {
		f := newBookingFixture().withService()
		f.blocked.On("GetByDate", mock.Anything, mondayDate).
			Return(&entities.BlockedDate{Date: mondayDate, Reason: "holiday"}, nil)

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assertRejected(t, err, services.RejectionDateBlocked)
		f.hours.AssertNotCalled(t, "GetByDay", mock.Anything, mock.Anything)
	})

	t.Run("rejects day without hours row", func(t *testing.T) {
		f := newBookingFixture().withService()
		f.blocked.On("GetByDate", mock.Anything, mondayDate).
			Return(nil, apperrors.NewNotFoundError("date is not blocked"))
		f.hours.On("GetByDay", mock.Anything, 1).
			Return(nil, apperrors.NewNotFoundError("no business hours"))

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assertRejected(t, err, services.RejectionClosed)
	})

	t.Run("rejects day marked closed", func(t *testing.T) {
		f := newBookingFixture().withService()
		f.blocked.On("GetByDate", mock.Anything, mondayDate).
			Return(nil, apperrors.NewNotFoundError("date is not blocked"))
		f.hours.On("GetByDay", mock.Anything, 1).
			Return(&entities.BusinessHour{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsOpen: false}, nil)

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assertRejected(t, err, services.RejectionClosed)
	})

	t.Run("maps slot conflict to SLOT_TAKEN", func(t *testing.T) {
		f := newBookingFixture().withService().withOpenMonday()
		f.bookings.On("CreateIfSlotFree", mock.Anything, mock.Anything).
			Return(apperrors.NewConflictError("booking already exists for slot"))

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assertRejected(t, err, services.RejectionSlotTaken)
	})

	t.Run("maps racing service deletion to INVALID_SERVICE", func(t *testing.T) {
		f := newBookingFixture().withService().withOpenMonday()
		f.bookings.On("CreateIfSlotFree", mock.Anything, mock.Anything).
			Return(apperrors.NewNotFoundError("service not found"))

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assertRejected(t, err, services.RejectionInvalidService)
	})

	t.Run("propagates infrastructure errors untyped", func(t *testing.T) {
		f := newBookingFixture()
		f.catalog.On("GetByID", mock.Anything, "svc-1").
			Return(nil, apperrors.NewInternalError("db down", nil))

		err := f.service.AdmitBooking(context.Background(), candidateBooking("10:00"))

		assert.Error(t, err)
		_, ok := services.AsRejection(err)
		assert.False(t, ok)
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	t.Run("updates and returns the booking", func(t *testing.T) {
		f := newBookingFixture()
		updated := &entities.Booking{ID: "bk-1", Status: entities.BookingStatusConfirmed}

		f.bookings.On("UpdateStatus", mock.Anything, "bk-1", entities.BookingStatusConfirmed).Return(nil)
		f.bookings.On("GetByID", mock.Anything, "bk-1").Return(updated, nil)

		booking, err := f.service.UpdateStatus(context.Background(), "bk-1", entities.BookingStatusConfirmed)

		assert.NoError(t, err)
		assert.Equal(t, entities.BookingStatusConfirmed, booking.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.service.UpdateStatus(context.Background(), "bk-1", "ARCHIVED")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown booking surfaces as not found", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("UpdateStatus", mock.Anything, "missing", entities.BookingStatusCancelled).
			Return(apperrors.NewNotFoundError("booking not found"))

		_, err := f.service.UpdateStatus(context.Background(), "missing", entities.BookingStatusCancelled)

		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancelling sets CANCELLED", func(t *testing.T) {
		f := newBookingFixture()
		cancelled := &entities.Booking{ID: "bk-1", Status: entities.BookingStatusCancelled}

		f.bookings.On("UpdateStatus", mock.Anything, "bk-1", entities.BookingStatusCancelled).Return(nil)
		f.bookings.On("GetByID", mock.Anything, "bk-1").Return(cancelled, nil)

		booking, err := f.service.Cancel(context.Background(), "bk-1")

		assert.NoError(t, err)
		assert.Equal(t, entities.BookingStatusCancelled, booking.Status)
		assert.False(t, booking.Active())
	})
}
