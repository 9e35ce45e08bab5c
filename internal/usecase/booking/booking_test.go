package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testutil"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const owner = "owner@salon.com"

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	deps    Deps
	repo    *testutil.MemoryRepository
	events  *events.Recorder
	service models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := testutil.NewMemoryRepository()
	rec := &events.Recorder{}
	svc := repo.AddService(models.Service{Name: "Manicure", Price: 250, DurationMin: 45, Active: true})

	return &fixture{
		deps: Deps{
			Repo:   repo,
			Events: rec,
			Zone:   timezone.NewZone("America/Mexico_City"),
			Now:    func() time.Time { return fixedNow },
		},
		repo:    repo,
		events:  rec,
		service: svc,
	}
}

func (f *fixture) create(t *testing.T, start string) *models.Booking {
	t.Helper()
	b, err := NewCreateBooking(f.deps).Execute(context.Background(), CreateBookingInput{
		ClientName: "Ana",
		ServiceID:  f.service.ID,
		StartTime:  start,
		Actor:      owner,
	})
	require.NoError(t, err)
	return b
}

func ptr(v float64) *float64 { return &v }

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b := f.create(t, "2024-06-10T10:00")

	assert.Equal(t, string(domain.StatusScheduled), b.Status)
	assert.Equal(t, time.Date(2024, 6, 10, 16, 0, 0, 0, time.UTC), b.StartTime.UTC())
	assert.Equal(t, b.StartTime.Add(45*time.Minute), b.EndTime)
	assert.Equal(t, string(domain.SourceDashboard), b.Source)
	assert.Equal(t, []string{events.BookingCreated}, f.events.Keys())

	history := f.repo.StatusEvents()
	require.Len(t, history, 1)
	assert.Equal(t, "", history[0].FromStatus)
	assert.Equal(t, "scheduled", history[0].ToStatus)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	inactive := f.repo.AddService(models.Service{Name: "Old", Price: 1, DurationMin: 10})

	cases := []struct {
		name string
		in   CreateBookingInput
		code string
	}{
		{"missing name", CreateBookingInput{ServiceID: f.service.ID, StartTime: "2024-06-10T10:00"}, "client_name_required"},
		{"unknown service", CreateBookingInput{ClientName: "Ana", ServiceID: 999, StartTime: "2024-06-10T10:00"}, "service_not_found"},
		{"inactive service", CreateBookingInput{ClientName: "Ana", ServiceID: inactive.ID, StartTime: "2024-06-10T10:00"}, "service_unavailable"},
		{"no service", CreateBookingInput{ClientName: "Ana", StartTime: "2024-06-10T10:00"}, "service_required"},
		{"bad start", CreateBookingInput{ClientName: "Ana", ServiceID: f.service.ID, StartTime: "tomorrow"}, "invalid_start_time"},
		{"bad email", CreateBookingInput{ClientName: "Ana", ServiceID: f.service.ID, StartTime: "2024-06-10T10:00", ClientEmail: "ana@"}, "invalid_email"},
		{"bad source", CreateBookingInput{ClientName: "Ana", ServiceID: f.service.ID, StartTime: "2024-06-10T10:00", Source: "fax"}, "invalid_source"},
		{"past on public channel", CreateBookingInput{ClientName: "Ana", ServiceID: f.service.ID, StartTime: "2024-05-01T10:00", RejectPast: true}, "start_time_in_past"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCreateBooking(f.deps).Execute(context.Background(), tc.in)
			assert.True(t, httperr.IsKind(err, httperr.KindValidation), "%v", err)
			assert.True(t, httperr.IsBusiness(err, tc.code), "%v", err)
		})
	}
}

func TestSetBookingStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewSetBookingStatus(f.deps)
	b := f.create(t, "2024-06-10T10:00")

	got, err := uc.Execute(ctx, b.ID, "confirmed", owner)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)

	for _, target := range []string{"scheduled", "confirmed", "done"} {
		_, err = uc.Execute(ctx, b.ID, target, owner)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), target)
	}

	_, err = uc.Execute(ctx, b.ID, "bogus", owner)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	_, err = uc.Execute(ctx, 999, "confirmed", owner)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestSetStatusCanceledBehavesAsCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, "2024-06-10T10:00")

	inv, err := assignment.New(b.ID, "a@x.com", fixedNow)
	require.NoError(t, err)
	require.NoError(t, f.repo.CreateAssignment(ctx, inv))

	got, err := NewSetBookingStatus(f.deps).Execute(ctx, b.ID, "canceled", owner)
	require.NoError(t, err)
	assert.Equal(t, "canceled", got.Status)
	assert.NotNil(t, got.CanceledAt)

	stored, _ := f.repo.GetAssignment(ctx, inv.ID)
	assert.Equal(t, string(assignment.StatusDeclined), stored.Status)

	_, err = NewCancelBooking(f.deps).Execute(ctx, b.ID, owner)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestCompleteBookingSettlesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewCompleteBooking(f.deps, 50)
	b := f.create(t, "2024-06-10T10:00")

	res, err := uc.Execute(ctx, CompleteBookingInput{
		BookingID:  b.ID,
		Amount:     ptr(300),
		Method:     "cash",
		Percentage: ptr(50),
		Actor:      owner,
	})
	require.NoError(t, err)

	assert.Equal(t, "done", res.Booking.Status)
	assert.Equal(t, owner, *res.Booking.CompletedBy)
	assert.Equal(t, 300.0, res.Payment.Amount)
	assert.Equal(t, "cash", res.Payment.Method)
	assert.Equal(t, 150.0, res.Commission.Amount)
	assert.Nil(t, res.Commission.AssigneeEmail)

	_, err = uc.Execute(ctx, CompleteBookingInput{BookingID: b.ID, Amount: ptr(300), Method: "cash", Percentage: ptr(50)})
	assert.True(t, httperr.IsKind(err, httperr.KindAlreadyCompleted))

	assert.Len(t, f.repo.Payments(), 1)
	assert.Len(t, f.repo.Commissions(), 1)
}

func TestCompleteBookingDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, "2024-06-10T10:00")

	_, err := NewSetPriceOverride(f.deps).Execute(ctx, b.ID, ptr(280), owner)
	require.NoError(t, err)

	res, err := NewCompleteBooking(f.deps, 40).Execute(ctx, CompleteBookingInput{BookingID: b.ID, Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, 280.0, res.Payment.Amount)
	assert.Equal(t, 40.0, res.Commission.Percentage)
	assert.Equal(t, 112.0, res.Commission.Amount)
}

func TestCompleteBookingRoundsToStoredPrecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, "2024-06-10T10:00")

	res, err := NewCompleteBooking(f.deps, 50).Execute(ctx, CompleteBookingInput{
		BookingID:  b.ID,
		Amount:     ptr(300.004),
		Method:     "cash",
		Percentage: ptr(33.333),
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, res.Payment.Amount)
	assert.Equal(t, 33.33, res.Commission.Percentage)
	assert.Equal(t, 99.99, res.Commission.Amount)
}

func TestSubCentPriceOverrideRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewSetPriceOverride(f.deps)
	b := f.create(t, "2024-06-10T10:00")

	_, err := uc.Execute(ctx, b.ID, ptr(0.004), owner)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	got, err := uc.Execute(ctx, b.ID, ptr(199.999), owner)
	require.NoError(t, err)
	require.NotNil(t, got.AmountOverride)
	assert.Equal(t, 200.0, *got.AmountOverride)

	res, err := NewCompleteBooking(f.deps, 50).Execute(ctx, CompleteBookingInput{BookingID: b.ID, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.Payment.Amount)
	assert.Equal(t, 100.0, res.Commission.Amount)
}

func TestCompleteBookingRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t, "2024-06-10T10:00")

	f.repo.FailOn("CreateCommission", errors.New("db down"))
	_, err := NewCompleteBooking(f.deps, 50).Execute(ctx, CompleteBookingInput{BookingID: b.ID, Amount: ptr(300), Method: "cash"})
	require.Error(t, err)

	assert.Empty(t, f.repo.Payments())
	assert.Empty(t, f.repo.Commissions())
	stored, _ := f.repo.GetBooking(ctx, b.ID)
	assert.Equal(t, "scheduled", stored.Status)
}

func TestCompleteBookingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewCompleteBooking(f.deps, 50)
	b := f.create(t, "2024-06-10T10:00")

	cases := []CompleteBookingInput{
		{BookingID: b.ID, Amount: ptr(0), Method: "cash"},
		{BookingID: b.ID, Amount: ptr(0.004), Method: "cash"},
		{BookingID: b.ID, Amount: ptr(-10), Method: "cash"},
		{BookingID: b.ID, Amount: ptr(100), Method: "card"},
		{BookingID: b.ID, Amount: ptr(100), Method: "cash", Percentage: ptr(101)},
		{BookingID: b.ID, Amount: ptr(100), Method: "cash", Percentage: ptr(-1)},
		{BookingID: b.ID, Amount: ptr(100), Method: "cash", Percentage: ptr(100.006)},
	}
	for _, in := range cases {
		_, err := uc.Execute(ctx, in)
		assert.True(t, httperr.IsKind(err, httperr.KindValidation), "%+v", in)
	}
	assert.Empty(t, f.repo.Payments())
	assert.Empty(t, f.repo.Commissions())

	_, err := NewCancelBooking(f.deps).Execute(ctx, b.ID, owner)
	require.NoError(t, err)
	_, err = uc.Execute(ctx, CompleteBookingInput{BookingID: b.ID, Amount: ptr(100), Method: "cash"})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))
}

func TestSetPriceOverrideLockedAfterDone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewSetPriceOverride(f.deps)
	b := f.create(t, "2024-06-10T10:00")

	got, err := uc.Execute(ctx, b.ID, ptr(300), owner)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.EffectivePrice())

	got, err = uc.Execute(ctx, b.ID, nil, owner)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.EffectivePrice())

	_, err = NewCompleteBooking(f.deps, 50).Execute(ctx, CompleteBookingInput{BookingID: b.ID, Method: "cash"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, b.ID, ptr(100), owner)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidState))
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := NewListBookings(f.deps)

	late := f.create(t, "2024-06-11T15:00")
	early := f.create(t, "2024-06-10T10:00")
	confirmed := f.create(t, "2024-06-10T12:00")
	canceled := f.create(t, "2024-06-10T13:00")

	_, err := NewSetBookingStatus(f.deps).Execute(ctx, confirmed.ID, "confirmed", owner)
	require.NoError(t, err)
	_, err = NewCancelBooking(f.deps).Execute(ctx, canceled.ID, owner)
	require.NoError(t, err)

	upcoming, err := list.Upcoming(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, confirmed.ID, late.ID}, ids(upcoming))

	unassigned, err := list.Unassigned(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID}, ids(unassigned))

	day, err := list.ByDate(ctx, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, confirmed.ID, canceled.ID}, ids(day))

	_, err = list.ByDate(ctx, "June 10")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	detail, err := list.Get(ctx, canceled.ID)
	require.NoError(t, err)
	assert.Len(t, detail.StatusEvents, 2)

	_, err = list.Get(ctx, 999)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestDeleteBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewDeleteBooking(f.deps)

	open := f.create(t, "2024-06-10T10:00")
	require.NoError(t, uc.Execute(ctx, open.ID, owner))
	_, err := f.repo.GetBooking(ctx, open.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	done := f.create(t, "2024-06-10T11:00")
	_, err = NewCompleteBooking(f.deps, 50).Execute(ctx, CompleteBookingInput{BookingID: done.ID, Method: "cash"})
	require.NoError(t, err)
	assert.True(t, httperr.IsKind(uc.Execute(ctx, done.ID, owner), httperr.KindInvalidState))
}

func ids(list []models.Booking) []uint {
	out := make([]uint, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}
