// Package testutil holds in-memory implementations of the persistence
// ports for use-case and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
)

// MemStore is a domain.UnitOfWork over maps. Transactions are serialized
// and a failing transaction restores the snapshot taken when it began.
type MemStore struct {
	txMu sync.Mutex

	mu      sync.Mutex
	data    *memData
	failure error
}

type memData struct {
	nextID  uint
	users   map[uint]models.User
	barbers map[uint]models.Barber
	slots   map[uint]models.BarberSchedule
	appts   map[uint]models.Appointment
	reviews map[uint]models.Review
}

var _ domain.UnitOfWork = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{data: &memData{
		users:   map[uint]models.User{},
		barbers: map[uint]models.Barber{},
		slots:   map[uint]models.BarberSchedule{},
		appts:   map[uint]models.Appointment{},
		reviews: map[uint]models.Review{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:  d.nextID,
		users:   make(map[uint]models.User, len(d.users)),
		barbers: make(map[uint]models.Barber, len(d.barbers)),
		slots:   make(map[uint]models.BarberSchedule, len(d.slots)),
		appts:   make(map[uint]models.Appointment, len(d.appts)),
		reviews: make(map[uint]models.Review, len(d.reviews)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.barbers {
		c.barbers[k] = v
	}
	for k, v := range d.slots {
		c.slots[k] = v
	}
	for k, v := range d.appts {
		c.appts[k] = v
	}
	for k, v := range d.reviews {
		c.reviews[k] = v
	}
	return c
}

func (d *memData) id() uint {
	d.nextID++
	return d.nextID
}

// SetFailure makes every repository call return err until cleared with nil.
func (s *MemStore) SetFailure(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
}

func (s *MemStore) Within(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, memTx{s: s}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemStore) Reader() domain.Tx {
	return memTx{s: s}
}

// lock acquires the data lock and reports the injected failure, if any.
func (s *MemStore) lock() error {
	s.mu.Lock()
	if s.failure != nil {
		err := s.failure
		s.mu.Unlock()
		return err
	}
	return nil
}

type memTx struct{ s *MemStore }

func (t memTx) Schedules() schedule.Repository       { return memSchedules(t) }
func (t memTx) Appointments() appointment.Repository { return memAppointments(t) }
func (t memTx) Reviews() review.Repository           { return memReviews(t) }
func (t memTx) Barbers() barber.Repository           { return memBarbers(t) }
func (t memTx) Users() identity.Repository           { return memUsers(t) }

// ==============================
// Seeding and inspection
// ==============================

func (s *MemStore) AddUser(username, phone, role string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: s.data.id(), Username: username, Phone: phone, Role: role, PasswordHash: "x"}
	s.data.users[u.ID] = u
	return &u
}

func (s *MemStore) AddBarber(fullName string) *models.Barber {
	u := s.AddUser(fullName, "+10000000", models.RoleBarber)
	s.mu.Lock()
	defer s.mu.Unlock()
	b := models.Barber{ID: s.data.id(), UserID: u.ID, FullName: fullName}
	s.data.barbers[b.ID] = b
	return &b
}

func (s *MemStore) AddSlot(barberID uint, date time.Time, start, end string, active bool) *models.BarberSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := models.BarberSchedule{
		ID:        s.data.id(),
		BarberID:  barberID,
		Date:      timeutil.DateOf(date),
		StartTime: start,
		EndTime:   end,
		IsActive:  active,
	}
	s.data.slots[sl.ID] = sl
	return &sl
}

func (s *MemStore) AddReview(clientID, barberID uint, value int, approved bool) *models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := models.Review{
		ID:         s.data.id(),
		ClientID:   clientID,
		BarberID:   barberID,
		Rating:     value,
		IsApproved: approved,
		CreatedAt:  time.Now().UTC(),
	}
	s.data.reviews[r.ID] = r
	return &r
}

func (s *MemStore) Slot(id uint) (models.BarberSchedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.data.slots[id]
	return sl, ok
}

func (s *MemStore) Slots() []models.BarberSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BarberSchedule, 0, len(s.data.slots))
	for _, sl := range s.data.slots {
		out = append(out, sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemStore) Appointment(id uint) (models.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap, ok := s.data.appts[id]
	return ap, ok
}

func (s *MemStore) AllAppointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Appointment, 0, len(s.data.appts))
	for _, ap := range s.data.appts {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemStore) Review(id uint) (models.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reviews[id]
	return r, ok
}

func (s *MemStore) Barber(id uint) (models.Barber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.barbers[id]
	return b, ok
}

// ==============================
// Schedules
// ==============================

type memSchedules memTx

func (r memSchedules) LockBarber(_ context.Context, barberID uint) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()
	_, ok := r.s.data.barbers[barberID]
	return ok, nil
}

func (r memSchedules) GetSlot(_ context.Context, id uint) (*models.BarberSchedule, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	sl, ok := r.s.data.slots[id]
	if !ok {
		return nil, nil
	}
	return &sl, nil
}

func (r memSchedules) GetSlotForUpdate(ctx context.Context, id uint) (*models.BarberSchedule, error) {
	return r.GetSlot(ctx, id)
}

func (r memSchedules) ListSlotsForDay(_ context.Context, barberID uint, date time.Time) ([]models.BarberSchedule, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	day := timeutil.DateOf(date)
	var out []models.BarberSchedule
	for _, sl := range r.s.data.slots {
		if sl.BarberID == barberID && sl.Date.Equal(day) {
			out = append(out, sl)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r memSchedules) ListSlots(_ context.Context, f schedule.Filter) ([]models.BarberSchedule, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	var out []models.BarberSchedule
	for _, sl := range r.s.data.slots {
		if f.BarberID != nil && sl.BarberID != *f.BarberID {
			continue
		}
		if f.StartDate != nil && sl.Date.Before(timeutil.DateOf(*f.StartDate)) {
			continue
		}
		if f.EndDate != nil && sl.Date.After(timeutil.DateOf(*f.EndDate)) {
			continue
		}
		if f.OnlyActive && !sl.IsActive {
			continue
		}
		if f.UpcomingFrom != nil {
			from := *f.UpcomingFrom
			day := timeutil.DateOf(from)
			if sl.Date.Before(day) {
				continue
			}
			if sl.Date.Equal(day) && sl.StartTime < timeutil.TimeOfDayOf(from).String() {
				continue
			}
		}
		out = append(out, sl)
	}
	sortSlots(out)
	return out, nil
}

func sortSlots(s []models.BarberSchedule) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Date.Equal(s[j].Date) {
			return s[i].Date.Before(s[j].Date)
		}
		if s[i].StartTime != s[j].StartTime {
			return s[i].StartTime < s[j].StartTime
		}
		return s[i].ID < s[j].ID
	})
}

func (r memSchedules) CreateSlot(_ context.Context, sl *models.BarberSchedule) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	sl.ID = r.s.data.id()
	r.s.data.slots[sl.ID] = *sl
	return nil
}

func (r memSchedules) SaveSlot(_ context.Context, sl *models.BarberSchedule) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.data.slots[sl.ID] = *sl
	return nil
}

func (r memSchedules) DeleteSlot(_ context.Context, id uint) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	delete(r.s.data.slots, id)
	return nil
}

func (r memSchedules) DeactivateSlot(_ context.Context, id uint) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()
	sl, ok := r.s.data.slots[id]
	if !ok || !sl.IsActive {
		return false, nil
	}
	sl.IsActive = false
	r.s.data.slots[id] = sl
	return true, nil
}

func (r memSchedules) ActivateSlot(_ context.Context, id uint) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if sl, ok := r.s.data.slots[id]; ok {
		sl.IsActive = true
		r.s.data.slots[id] = sl
	}
	return nil
}

// ==============================
// Appointments
// ==============================

type memAppointments memTx

func (r memAppointments) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, other := range r.s.data.appts {
		if other.ScheduleID == ap.ScheduleID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_schedule_id"}
		}
	}
	ap.ID = r.s.data.id()
	ap.CreatedAt = time.Now().UTC()
	r.s.data.appts[ap.ID] = *ap
	return nil
}

func (r memAppointments) DeleteAppointment(_ context.Context, id uint) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	delete(r.s.data.appts, id)
	return nil
}

func (r memAppointments) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	ap, ok := r.s.data.appts[id]
	if !ok {
		return nil, nil
	}
	return &ap, nil
}

func (r memAppointments) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return r.GetAppointment(ctx, id)
}

func (r memAppointments) GetAppointmentBySlot(_ context.Context, slotID uint) (*models.Appointment, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, ap := range r.s.data.appts {
		if ap.ScheduleID == slotID {
			return &ap, nil
		}
	}
	return nil, nil
}

func (r memAppointments) ListAppointments(_ context.Context, f appointment.ListFilter) ([]models.Appointment, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.s.data.appts {
		if f.ClientID != nil && (ap.ClientID == nil || *ap.ClientID != *f.ClientID) {
			continue
		}
		if f.BarberID != nil && ap.BarberID != *f.BarberID {
			continue
		}
		if f.UpcomingFrom != nil && ap.AppointmentTime.Before(*f.UpcomingFrom) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentTime.Equal(out[j].AppointmentTime) {
			return out[i].AppointmentTime.Before(out[j].AppointmentTime)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r memAppointments) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.data.appts[ap.ID] = *ap
	return nil
}

func page[T any](in []T, offset, limit int) []T {
	if offset > len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// ==============================
// Reviews
// ==============================

type memReviews memTx

func (r memReviews) ApprovedStats(_ context.Context, barberID uint) (rating.Rating, error) {
	if err := r.s.lock(); err != nil {
		return rating.Rating{}, err
	}
	defer r.s.mu.Unlock()
	var sum, n int64
	for _, rv := range r.s.data.reviews {
		if rv.BarberID == barberID && rv.IsApproved {
			sum += int64(rv.Rating)
			n++
		}
	}
	if n == 0 {
		return rating.Rating{}, nil
	}
	return rating.Rating{Avg: float64(sum) / float64(n), Count: n}, nil
}

func (r memReviews) CreateReview(_ context.Context, rv *models.Review) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	rv.ID = r.s.data.id()
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	r.s.data.reviews[rv.ID] = *rv
	return nil
}

func (r memReviews) GetReview(_ context.Context, id uint) (*models.Review, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	rv, ok := r.s.data.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r memReviews) GetReviewForUpdate(ctx context.Context, id uint) (*models.Review, error) {
	return r.GetReview(ctx, id)
}

func (r memReviews) SaveReview(_ context.Context, rv *models.Review) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.data.reviews[rv.ID] = *rv
	return nil
}

func (r memReviews) DeleteReview(_ context.Context, id uint) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	delete(r.s.data.reviews, id)
	return nil
}

func (r memReviews) ListReviews(_ context.Context, f review.ListFilter) ([]models.Review, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	var out []models.Review
	for _, rv := range r.s.data.reviews {
		if f.ClientID != nil && rv.ClientID != *f.ClientID {
			continue
		}
		if f.BarberID != nil && rv.BarberID != *f.BarberID {
			continue
		}
		if f.OnlyApproved && !rv.IsApproved {
			continue
		}
		if f.OnlyUnapproved && rv.IsApproved {
			continue
		}
		rv.Client = r.s.data.users[rv.ClientID]
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

// ==============================
// Barbers
// ==============================

type memBarbers memTx

func (r memBarbers) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	b, ok := r.s.data.barbers[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r memBarbers) GetBarberByUserID(_ context.Context, userID uint) (*models.Barber, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.barbers {
		if b.UserID == userID {
			return &b, nil
		}
	}
	return nil, nil
}

func (r memBarbers) ListBarbers(_ context.Context) ([]models.Barber, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	out := make([]models.Barber, 0, len(r.s.data.barbers))
	for _, b := range r.s.data.barbers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBarbers) CreateBarber(_ context.Context, b *models.Barber) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	b.ID = r.s.data.id()
	r.s.data.barbers[b.ID] = *b
	return nil
}

func (r memBarbers) SaveBarber(_ context.Context, b *models.Barber) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.data.barbers[b.ID] = *b
	return nil
}

func (r memBarbers) DeleteBarber(_ context.Context, id uint) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for k, ap := range r.s.data.appts {
		if ap.BarberID == id {
			delete(r.s.data.appts, k)
		}
	}
	for k, rv := range r.s.data.reviews {
		if rv.BarberID == id {
			delete(r.s.data.reviews, k)
		}
	}
	for k, sl := range r.s.data.slots {
		if sl.BarberID == id {
			delete(r.s.data.slots, k)
		}
	}
	delete(r.s.data.barbers, id)
	return nil
}

// ==============================
// Users
// ==============================

type memUsers memTx

func (r memUsers) GetUser(_ context.Context, id uint) (*models.User, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) CreateUser(_ context.Context, u *models.User) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, other := range r.s.data.users {
		if other.Username == u.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}
		}
	}
	u.ID = r.s.data.id()
	r.s.data.users[u.ID] = *u
	return nil
}

func (r memUsers) SaveUser(_ context.Context, u *models.User) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.data.users[u.ID] = *u
	return nil
}
