package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit("Service").Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForUpdate(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}

	if err := r.db.WithContext(ctx).First(&b.Service, b.ServiceID).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingDetail(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments").
		Preload("Commissions").
		Preload("StatusEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).Preload("Service")

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if filter.Unassigned {
		q = q.Where("assigned_email IS NULL")
	}
	if filter.From != nil {
		q = q.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_time < ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var out []models.Booking
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) HasAssigneeConflict(
	ctx context.Context,
	email string,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"assigned_email = ? AND status IN ? AND start_time < ? AND end_time > ? AND id <> ?",
			email,
			[]string{string(domain.StatusScheduled), string(domain.StatusConfirmed)},
			end,
			start,
			excludeID,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *BookingGormRepository) AppendStatusEvent(
	ctx context.Context,
	ev *models.BookingStatusEvent,
) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

// --------------------------------------------------
// Completion
// --------------------------------------------------

func (r *BookingGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BookingGormRepository) CreateCommission(
	ctx context.Context,
	c *models.Commission,
) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *BookingGormRepository) ListDoneBookings(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var out []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Payments").
		Preload("Commissions").
		Where(
			"status = ? AND start_time >= ? AND start_time < ?",
			string(domain.StatusDone),
			start,
			end,
		).
		Order("start_time ASC").
		Find(&out).Error

	if err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Assignment
// --------------------------------------------------

func (r *BookingGormRepository) CreateAssignment(
	ctx context.Context,
	a *models.Assignment,
) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *BookingGormRepository) GetAssignment(
	ctx context.Context,
	id uint,
) (*models.Assignment, error) {

	var a models.Assignment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *BookingGormRepository) GetAssignmentByToken(
	ctx context.Context,
	token string,
) (*models.Assignment, error) {

	var a models.Assignment
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *BookingGormRepository) ListAssignments(
	ctx context.Context,
	bookingID uint,
) ([]models.Assignment, error) {

	var out []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) DeclinePending(
	ctx context.Context,
	bookingID uint,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("booking_id = ? AND status = ?", bookingID, string(assignment.StatusPending)).
		Updates(map[string]any{
			"status":       string(assignment.StatusDeclined),
			"responded_at": now,
			"updated_at":   now,
		})

	return res.RowsAffected, res.Error
}

func (r *BookingGormRepository) TransitionAssignment(
	ctx context.Context,
	id uint,
	from string,
	to string,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":       to,
			"responded_at": now,
			"updated_at":   now,
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) ListExpiredPending(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Assignment, error) {

	var out []models.Assignment
	q := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", string(assignment.StatusPending), now).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
