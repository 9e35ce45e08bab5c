// Package testutil holds in-memory fakes for use case and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type memState struct {
	nextID      uint
	services    map[uint]models.Service
	bookings    map[uint]models.Booking
	assignments map[uint]models.Assignment
	payments    []models.Payment
	commissions []models.Commission
	events      []models.BookingStatusEvent
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:      s.nextID,
		services:    make(map[uint]models.Service, len(s.services)),
		bookings:    make(map[uint]models.Booking, len(s.bookings)),
		assignments: make(map[uint]models.Assignment, len(s.assignments)),
		payments:    append([]models.Payment(nil), s.payments...),
		commissions: append([]models.Commission(nil), s.commissions...),
		events:      append([]models.BookingStatusEvent(nil), s.events...),
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = copyBooking(v)
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	return c
}

func copyBooking(b models.Booking) models.Booking {
	b.InvitedEmails = append(pq.StringArray(nil), b.InvitedEmails...)
	b.Assignments, b.Payments, b.Commissions, b.StatusEvents = nil, nil, nil, nil
	return b
}

// MemoryRepository is a booking.Repository kept in maps. Transactions
// snapshot the state and restore it when fn fails.
type MemoryRepository struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *memState

	failures map[string]error

	// interleaved writes committed by another party while a transaction runs
	hooks map[string]func()
	ran   []func()
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		st: &memState{
			services:    map[uint]models.Service{},
			bookings:    map[uint]models.Booking{},
			assignments: map[uint]models.Assignment{},
		},
		failures: map[string]error{},
		hooks:    map[string]func(){},
	}
}

// FailOn makes the named method return err on its next call.
func (r *MemoryRepository) FailOn(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[method] = err
}

func (r *MemoryRepository) fail(method string) error {
	if err, ok := r.failures[method]; ok {
		delete(r.failures, method)
		return err
	}
	return nil
}

// Interleave runs fn right before the next call of method, as if another
// connection committed it. A rollback of the surrounding transaction keeps it.
func (r *MemoryRepository) Interleave(method string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[method] = fn
}

func (r *MemoryRepository) interleave(method string) {
	r.mu.Lock()
	fn, ok := r.hooks[method]
	delete(r.hooks, method)
	r.mu.Unlock()
	if !ok {
		return
	}

	fn()
	r.mu.Lock()
	r.ran = append(r.ran, fn)
	r.mu.Unlock()
}

func (r *MemoryRepository) id() uint {
	r.st.nextID++
	return r.st.nextID
}

// AddService seeds the catalog and returns the stored row.
func (r *MemoryRepository) AddService(svc models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = r.id()
	}
	r.st.services[svc.ID] = svc
	return svc
}

func (r *MemoryRepository) Payments() []models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Payment(nil), r.st.payments...)
}

func (r *MemoryRepository) Commissions() []models.Commission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Commission(nil), r.st.commissions...)
}

func (r *MemoryRepository) StatusEvents() []models.BookingStatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.BookingStatusEvent(nil), r.st.events...)
}

func (r *MemoryRepository) SetAssignmentStatus(id uint, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.st.assignments[id]
	a.Status = status
	r.st.assignments[id] = a
}

// SetAssignmentExpiry rewinds an invitation clock for expiry tests.
func (r *MemoryRepository) SetAssignmentExpiry(id uint, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.st.assignments[id]
	a.ExpiresAt = at
	r.st.assignments[id] = a
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *MemoryRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := r.st.clone()
	r.ran = nil
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.st = snapshot
		committed := r.ran
		r.ran = nil
		r.mu.Unlock()

		for _, c := range committed {
			c()
		}
		return err
	}
	return nil
}

// --------------------------------------------------
// Service / Booking
// --------------------------------------------------

func (r *MemoryRepository) GetService(_ context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.st.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

func (r *MemoryRepository) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateBooking"); err != nil {
		return err
	}
	now := time.Now()
	b.ID = r.id()
	b.CreatedAt, b.UpdatedAt = now, now
	r.st.bookings[b.ID] = copyBooking(*b)
	return nil
}

func (r *MemoryRepository) loadBooking(id uint) (*models.Booking, error) {
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyBooking(b)
	out.Service = r.st.services[b.ServiceID]
	return &out, nil
}

func (r *MemoryRepository) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadBooking(id)
}

func (r *MemoryRepository) GetBookingForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	return r.GetBooking(ctx, id)
}

func (r *MemoryRepository) GetBookingDetail(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.loadBooking(id)
	if err != nil {
		return nil, err
	}
	b.Assignments = r.assignmentsOf(id)
	for _, p := range r.st.payments {
		if p.BookingID == id {
			b.Payments = append(b.Payments, p)
		}
	}
	for _, c := range r.st.commissions {
		if c.BookingID == id {
			b.Commissions = append(b.Commissions, c)
		}
	}
	for _, ev := range r.st.events {
		if ev.BookingID == id {
			b.StatusEvents = append(b.StatusEvents, ev)
		}
	}
	return b, nil
}

func (r *MemoryRepository) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("UpdateBooking"); err != nil {
		return err
	}
	if _, ok := r.st.bookings[b.ID]; !ok {
		return domain.ErrNotFound
	}
	b.UpdatedAt = time.Now()
	r.st.bookings[b.ID] = copyBooking(*b)
	return nil
}

func (r *MemoryRepository) DeleteBooking(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.st.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.bookings, id)
	for aid, a := range r.st.assignments {
		if a.BookingID == id {
			delete(r.st.assignments, aid)
		}
	}
	r.st.payments = filter(r.st.payments, func(p models.Payment) bool { return p.BookingID != id })
	r.st.commissions = filter(r.st.commissions, func(c models.Commission) bool { return c.BookingID != id })
	r.st.events = filter(r.st.events, func(ev models.BookingStatusEvent) bool { return ev.BookingID != id })
	return nil
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (r *MemoryRepository) ListBookings(_ context.Context, f domain.ListFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for id, b := range r.st.bookings {
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, b.Status) {
			continue
		}
		if f.Unassigned && b.AssignedEmail != nil {
			continue
		}
		if f.From != nil && b.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.StartTime.Before(*f.To) {
			continue
		}
		full, _ := r.loadBooking(id)
		out = append(out, *full)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func hasStatus(set []domain.Status, s string) bool {
	for _, v := range set {
		if string(v) == s {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) HasAssigneeConflict(
	_ context.Context,
	email string,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.st.bookings {
		if id == excludeID || b.AssignedEmail == nil || *b.AssignedEmail != email {
			continue
		}
		if b.Status != string(domain.StatusScheduled) && b.Status != string(domain.StatusConfirmed) {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) AppendStatusEvent(_ context.Context, ev *models.BookingStatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = r.id()
	ev.CreatedAt = time.Now()
	r.st.events = append(r.st.events, *ev)
	return nil
}

// --------------------------------------------------
// Completion
// --------------------------------------------------

func (r *MemoryRepository) CreatePayment(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreatePayment"); err != nil {
		return err
	}
	p.ID = r.id()
	p.CreatedAt = time.Now()
	r.st.payments = append(r.st.payments, *p)
	return nil
}

func (r *MemoryRepository) CreateCommission(_ context.Context, c *models.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateCommission"); err != nil {
		return err
	}
	c.ID = r.id()
	c.CreatedAt = time.Now()
	r.st.commissions = append(r.st.commissions, *c)
	return nil
}

func (r *MemoryRepository) ListDoneBookings(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	rows, err := r.ListBookings(ctx, domain.ListFilter{
		Statuses: []domain.Status{domain.StatusDone},
		From:     &start,
		To:       &end,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range rows {
		for _, p := range r.st.payments {
			if p.BookingID == rows[i].ID {
				rows[i].Payments = append(rows[i].Payments, p)
			}
		}
		for _, c := range r.st.commissions {
			if c.BookingID == rows[i].ID {
				rows[i].Commissions = append(rows[i].Commissions, c)
			}
		}
	}
	return rows, nil
}

// --------------------------------------------------
// Assignment
// --------------------------------------------------

func (r *MemoryRepository) CreateAssignment(_ context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateAssignment"); err != nil {
		return err
	}
	a.ID = r.id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt
	r.st.assignments[a.ID] = *a
	return nil
}

func (r *MemoryRepository) GetAssignment(_ context.Context, id uint) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.st.assignments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetAssignmentByToken(_ context.Context, token string) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.st.assignments {
		if a.Token == token {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryRepository) assignmentsOf(bookingID uint) []models.Assignment {
	var out []models.Assignment
	for _, a := range r.st.assignments {
		if a.BookingID == bookingID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryRepository) ListAssignments(_ context.Context, bookingID uint) ([]models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assignmentsOf(bookingID), nil
}

func (r *MemoryRepository) DeclinePending(_ context.Context, bookingID uint, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.st.assignments {
		if a.BookingID != bookingID || a.Status != string(assignment.StatusPending) {
			continue
		}
		a.Status = string(assignment.StatusDeclined)
		a.RespondedAt = &now
		a.UpdatedAt = now
		r.st.assignments[id] = a
		n++
	}
	return n, nil
}

func (r *MemoryRepository) TransitionAssignment(
	_ context.Context,
	id uint,
	from string,
	to string,
	now time.Time,
) (bool, error) {
	r.interleave("TransitionAssignment")

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.st.assignments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	a.RespondedAt = &now
	a.UpdatedAt = now
	r.st.assignments[id] = a
	return true, nil
}

func (r *MemoryRepository) ListExpiredPending(_ context.Context, now time.Time, limit int) ([]models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Assignment
	for _, a := range r.st.assignments {
		if a.Status == string(assignment.StatusPending) && a.ExpiresAt.Before(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ domain.Repository = (*MemoryRepository)(nil)
