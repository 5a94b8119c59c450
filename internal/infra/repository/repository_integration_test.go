//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	dbpkg "github.com/BruksfildServices01/barbershop-booking/internal/db"
	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	sched "github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/testutil"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
	ucappointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	ucbarber "github.com/BruksfildServices01/barbershop-booking/internal/usecase/barber"
	ucrating "github.com/BruksfildServices01/barbershop-booking/internal/usecase/rating"
	ucschedule "github.com/BruksfildServices01/barbershop-booking/internal/usecase/schedule"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgDB       = "barber_test"
)

type RepositorySuite struct {
	suite.Suite
	container testcontainers.Container
	db        *gorm.DB
	uow       *repository.GormUnitOfWork
	clock     *timeutil.FixedClock
	barber    models.Barber
	client    models.User
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err, "start postgres container")
	s.container = c

	host, err := c.Host(ctx)
	s.Require().NoError(err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDB)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.Require().NoError(dbpkg.Migrate(db))

	s.db = db
	s.uow = repository.NewGormUnitOfWork(db)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *RepositorySuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE audit_logs, reviews, appointments, barber_schedules, barbers, users RESTART IDENTITY CASCADE",
	).Error)

	s.clock = timeutil.NewFixedClock(time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC))

	barberUser := models.User{Username: "bob", PasswordHash: "x", Role: models.RoleBarber}
	s.Require().NoError(s.db.Create(&barberUser).Error)
	s.barber = models.Barber{UserID: barberUser.ID, FullName: "Bob"}
	s.Require().NoError(s.db.Omit("User").Create(&s.barber).Error)

	s.client = models.User{Username: "ann", PasswordHash: "x", Phone: "+15550001", Role: models.RoleClient}
	s.Require().NoError(s.db.Create(&s.client).Error)
}

func (s *RepositorySuite) createSlot(day time.Time, start, end string) *models.BarberSchedule {
	uc := ucschedule.NewCreateSlot(s.uow, s.clock, audit.NewDispatcher(zap.NewNop()), zap.NewNop())
	slot, err := uc.Execute(context.Background(), ucschedule.CreateSlotInput{
		ActorID:  s.barber.UserID,
		BarberID: s.barber.ID,
		Date:     day,
		Start:    timeutil.MustTimeOfDay(start),
		End:      timeutil.MustTimeOfDay(end),
	})
	s.Require().NoError(err)
	return slot
}

func (s *RepositorySuite) TestDateRoundTripAndDayListing() {
	ctx := context.Background()
	day := time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)
	s.createSlot(day, "10:00", "11:00")
	s.createSlot(day, "09:00", "10:00")
	s.createSlot(day.AddDate(0, 0, 1), "09:00", "10:00")

	slots, err := s.uow.Reader().Schedules().ListSlotsForDay(ctx, s.barber.ID, day)
	s.Require().NoError(err)
	s.Require().Len(slots, 2)
	s.Equal("09:00", slots[0].StartTime)
	s.True(slots[0].Date.Equal(day), "date column must read back as midnight UTC, got %s", slots[0].Date)
}

func (s *RepositorySuite) TestOverlapRejectedAgainstPostgres() {
	day := time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)
	s.createSlot(day, "10:00", "11:00")

	uc := ucschedule.NewCreateSlot(s.uow, s.clock, audit.NewDispatcher(zap.NewNop()), zap.NewNop())
	_, err := uc.Execute(context.Background(), ucschedule.CreateSlotInput{
		ActorID:  s.barber.UserID,
		BarberID: s.barber.ID,
		Date:     day,
		Start:    timeutil.MustTimeOfDay("10:30"),
		End:      timeutil.MustTimeOfDay("11:30"),
	})
	s.ErrorIs(err, sched.ErrSlotOverlaps)
}

func (s *RepositorySuite) TestConcurrentOverlappingSlotsHaveOneWinner() {
	day := time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)
	create := ucschedule.NewCreateSlot(s.uow, s.clock, audit.NewDispatcher(zap.NewNop()), zap.NewNop())
	windows := [][2]string{{"10:00", "11:00"}, {"10:30", "11:30"}}

	const n = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(w [2]string) {
			defer wg.Done()
			<-start
			_, err := create.Execute(context.Background(), ucschedule.CreateSlotInput{
				ActorID:  s.barber.UserID,
				BarberID: s.barber.ID,
				Date:     day,
				Start:    timeutil.MustTimeOfDay(w[0]),
				End:      timeutil.MustTimeOfDay(w[1]),
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(s.T(), err, sched.ErrSlotOverlaps)
		}(windows[i%len(windows)])
	}
	close(start)
	wg.Wait()

	s.Equal(1, wins)
	var count int64
	s.Require().NoError(s.db.Model(&models.BarberSchedule{}).Where("barber_id = ?", s.barber.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *RepositorySuite) TestDeleteBarberRemovesBookedSlots() {
	ctx := context.Background()
	slot := s.createSlot(time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC), "10:00", "11:00")
	s.createSlot(time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC), "11:00", "12:00")
	book := ucappointment.NewBookAppointment(
		s.uow, &testutil.RecordingNotifier{}, s.clock,
		audit.NewDispatcher(zap.NewNop()), zap.NewNop(), appt.ReminderLead,
	)
	_, err := book.Execute(ctx, ucappointment.BookInput{SlotID: slot.ID, Booker: appt.Authenticated(s.client.ID)})
	s.Require().NoError(err)
	s.Require().NoError(s.uow.Reader().Reviews().CreateReview(ctx, &models.Review{
		ClientID: s.client.ID, BarberID: s.barber.ID, Rating: 5, IsApproved: true,
	}))

	agg := ucrating.NewAggregator(cache.NewRatingMemory(s.clock), s.uow.Reader().Reviews(), rating.DefaultTTL, zap.NewNop())
	manage := ucbarber.NewManage(s.uow, agg, storage.DisabledStore{}, s.clock, audit.NewDispatcher(zap.NewNop()), zap.NewNop())

	removed, err := manage.Delete(ctx, 1, s.barber.ID)
	s.Require().NoError(err)
	s.Equal(1, removed.Upcoming)

	for _, m := range []any{&models.Barber{}, &models.BarberSchedule{}, &models.Appointment{}, &models.Review{}} {
		var count int64
		s.Require().NoError(s.db.Model(m).Count(&count).Error)
		s.Zero(count, "%T left behind", m)
	}

	var user models.User
	s.Require().NoError(s.db.First(&user, s.barber.UserID).Error)
	s.Equal(models.RoleClient, user.Role)
}

func (s *RepositorySuite) TestSlotDeleteCascadesToAppointment() {
	ctx := context.Background()
	slot := s.createSlot(time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC), "10:00", "11:00")
	book := ucappointment.NewBookAppointment(
		s.uow, &testutil.RecordingNotifier{}, s.clock,
		audit.NewDispatcher(zap.NewNop()), zap.NewNop(), appt.ReminderLead,
	)
	ap, err := book.Execute(ctx, ucappointment.BookInput{SlotID: slot.ID, Booker: appt.Authenticated(s.client.ID)})
	s.Require().NoError(err)

	s.Require().NoError(s.uow.Reader().Schedules().DeleteSlot(ctx, slot.ID))

	gone, err := s.uow.Reader().Appointments().GetAppointment(ctx, ap.ID)
	s.Require().NoError(err)
	s.Nil(gone)
}

func (s *RepositorySuite) TestUpcomingFilter() {
	ctx := context.Background()
	today := timeutil.DateOf(s.clock.Now())
	s.createSlot(today, "09:00", "10:00")
	s.createSlot(today.AddDate(0, 0, 1), "07:00", "08:00")
	s.clock.Set(time.Date(2030, 3, 1, 9, 30, 0, 0, time.UTC))

	now := s.clock.Now()
	slots, err := s.uow.Reader().Schedules().ListSlots(ctx, sched.Filter{UpcomingFrom: &now, OnlyActive: true})
	s.Require().NoError(err)
	s.Require().Len(slots, 1)
	s.Equal("07:00", slots[0].StartTime)
}

func (s *RepositorySuite) TestConcurrentBookingHasOneWinner() {
	slot := s.createSlot(time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC), "10:00", "11:00")
	book := ucappointment.NewBookAppointment(
		s.uow, &testutil.RecordingNotifier{}, s.clock,
		audit.NewDispatcher(zap.NewNop()), zap.NewNop(), appt.ReminderLead,
	)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := book.Execute(context.Background(), ucappointment.BookInput{
				SlotID: slot.ID,
				Booker: appt.Anonymous(fmt.Sprintf("guest %d", i), "+1555000"),
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(s.T(), err, appt.ErrSlotUnavailable)
		}(i)
	}
	wg.Wait()

	s.Equal(1, wins)
	var count int64
	s.Require().NoError(s.db.Model(&models.Appointment{}).Where("schedule_id = ?", slot.ID).Count(&count).Error)
	s.Equal(int64(1), count)

	stored, err := s.uow.Reader().Schedules().GetSlot(context.Background(), slot.ID)
	s.Require().NoError(err)
	s.False(stored.IsActive)
}

func (s *RepositorySuite) TestCancelReactivatesSlot() {
	ctx := context.Background()
	slot := s.createSlot(time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC), "10:00", "11:00")
	book := ucappointment.NewBookAppointment(
		s.uow, &testutil.RecordingNotifier{}, s.clock,
		audit.NewDispatcher(zap.NewNop()), zap.NewNop(), appt.ReminderLead,
	)
	ap, err := book.Execute(ctx, ucappointment.BookInput{SlotID: slot.ID, Booker: appt.Authenticated(s.client.ID)})
	s.Require().NoError(err)
	s.Equal("ann", ap.ClientName)

	cancel := ucappointment.NewCancelAppointment(s.uow, audit.NewDispatcher(zap.NewNop()), zap.NewNop())
	s.Require().NoError(cancel.Execute(ctx, ucappointment.CancelInput{ActorID: 1, AppointmentID: ap.ID}))

	stored, err := s.uow.Reader().Schedules().GetSlot(ctx, slot.ID)
	s.Require().NoError(err)
	s.True(stored.IsActive)

	gone, err := s.uow.Reader().Appointments().GetAppointment(ctx, ap.ID)
	s.Require().NoError(err)
	s.Nil(gone)
}

func (s *RepositorySuite) TestApprovedStats() {
	ctx := context.Background()
	reviews := s.uow.Reader().Reviews()

	empty, err := reviews.ApprovedStats(ctx, s.barber.ID)
	s.Require().NoError(err)
	s.Equal(rating.Rating{}, empty)

	for _, r := range []struct {
		value    int
		approved bool
	}{{5, true}, {4, true}, {1, false}} {
		rv := &models.Review{ClientID: s.client.ID, BarberID: s.barber.ID, Rating: r.value, IsApproved: r.approved}
		s.Require().NoError(reviews.CreateReview(ctx, rv))
	}

	stats, err := reviews.ApprovedStats(ctx, s.barber.ID)
	s.Require().NoError(err)
	s.InDelta(4.5, stats.Avg, 1e-9)
	s.Equal(int64(2), stats.Count)

	listed, err := reviews.ListReviews(ctx, review.ListFilter{OnlyUnapproved: true})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal("ann", listed[0].Client.Username)
}

func (s *RepositorySuite) TestMissingRowsReturnNil() {
	ctx := context.Background()
	r := s.uow.Reader()

	slot, err := r.Schedules().GetSlot(ctx, 9999)
	s.NoError(err)
	s.Nil(slot)

	u, err := r.Users().GetUserByUsername(ctx, "nobody")
	s.NoError(err)
	s.Nil(u)

	ok, err := r.Schedules().LockBarber(ctx, 9999)
	s.NoError(err)
	s.False(ok)
}

func (s *RepositorySuite) TestReviewRatingCheckConstraint() {
	err := s.uow.Reader().Reviews().CreateReview(context.Background(), &models.Review{
		ClientID: s.client.ID, BarberID: s.barber.ID, Rating: 6,
	})
	require.Error(s.T(), err)
}
