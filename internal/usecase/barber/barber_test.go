package barber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	domainbarber "github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/rating"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/testutil"
	"github.com/BruksfildServices01/barbershop-booking/internal/timeutil"
	ucrating "github.com/BruksfildServices01/barbershop-booking/internal/usecase/rating"
)

var now = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func newDirectory(store *testutil.MemStore) *Directory {
	clock := timeutil.NewFixedClock(now)
	agg := ucrating.NewAggregator(cache.NewRatingMemory(clock), store.Reader().Reviews(), rating.DefaultTTL, zap.NewNop())
	return NewDirectory(store, agg, clock)
}

func TestListWithRatings(t *testing.T) {
	store := testutil.NewMemStore()
	bob := store.AddBarber("Bob")
	carl := store.AddBarber("Carl")
	ann := store.AddUser("ann", "1", models.RoleClient)
	store.AddReview(ann.ID, bob.ID, 5, true)
	store.AddReview(ann.ID, bob.ID, 3, true)
	store.AddReview(ann.ID, carl.ID, 1, false)

	got, err := newDirectory(store).List(context.Background())
	require.NoError(t, err)

	want := map[string]rating.Rating{
		"Bob":  {Avg: 4, Count: 2},
		"Carl": {},
	}
	have := map[string]rating.Rating{}
	for _, b := range got {
		have[b.Barber.FullName] = b.Rating
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("ratings mismatch (-want +got):\n%s", diff)
	}
}

func TestDetailsShowsApprovedReviewsOnly(t *testing.T) {
	store := testutil.NewMemStore()
	bob := store.AddBarber("Bob")
	ann := store.AddUser("ann", "1", models.RoleClient)
	approved := store.AddReview(ann.ID, bob.ID, 5, true)
	store.AddReview(ann.ID, bob.ID, 1, false)

	d, err := newDirectory(store).Details(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, approved.ID, d.Reviews[0].ID)
	assert.Equal(t, "ann", d.Reviews[0].Client.Username)
	assert.Equal(t, rating.Rating{Avg: 5, Count: 1}, d.Rating)

	_, err = newDirectory(store).Details(context.Background(), 999)
	assert.ErrorIs(t, err, domainbarber.ErrBarberNotFound)
}

func TestAvailableSkipsPastInactiveAndEmpty(t *testing.T) {
	store := testutil.NewMemStore()
	bob := store.AddBarber("Bob")
	carl := store.AddBarber("Carl")
	dana := store.AddBarber("Dana")
	day := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	store.AddSlot(bob.ID, day, "10:00", "11:00", true) // already started
	open := store.AddSlot(bob.ID, day, "13:00", "14:00", true)
	store.AddSlot(carl.ID, day.AddDate(0, 0, 1), "10:00", "11:00", false) // booked
	tomorrow := store.AddSlot(dana.ID, day.AddDate(0, 0, 1), "09:00", "10:00", true)

	got, err := newDirectory(store).Available(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, bob.ID, got[0].Barber.ID)
	require.Len(t, got[0].Slots, 1)
	assert.Equal(t, open.ID, got[0].Slots[0].ID)

	assert.Equal(t, dana.ID, got[1].Barber.ID)
	assert.Equal(t, tomorrow.ID, got[1].Slots[0].ID)
}

func TestPromote(t *testing.T) {
	store := testutil.NewMemStore()
	user := store.AddUser("eve", "1", models.RoleClient)
	uc := NewPromote(store, audit.NewDispatcher(zap.NewNop()))
	ctx := context.Background()

	b, err := uc.Execute(ctx, 1, user.ID, "Eve Smith")
	require.NoError(t, err)
	assert.Equal(t, user.ID, b.UserID)

	u, _ := store.Reader().Users().GetUser(ctx, user.ID)
	assert.Equal(t, models.RoleBarber, u.Role)

	_, err = uc.Execute(ctx, 1, user.ID, "Eve Again")
	assert.ErrorIs(t, err, domainbarber.ErrAlreadyBarber)

	_, err = uc.Execute(ctx, 1, 999, "Ghost")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)

	_, err = uc.Execute(ctx, 1, user.ID, "  ")
	assert.True(t, httperr.IsBusiness(err, "full_name_required"))
}

type fakeAvatars struct {
	puts    int
	removed []string
	err     error
}

func (f *fakeAvatars) Put(_ context.Context, barberID uint, img io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(img); err != nil {
		return "", err
	}
	f.puts++
	return fmt.Sprintf("https://cdn.example/avatars/%d-%d.webp", barberID, f.puts), nil
}

func (f *fakeAvatars) Remove(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func TestAvatarReplaceAndRemove(t *testing.T) {
	store := testutil.NewMemStore()
	bob := store.AddBarber("Bob")
	files := &fakeAvatars{}
	uc := NewAvatar(store, files, zap.NewNop())
	ctx := context.Background()

	_, err := uc.Upload(ctx, bob.UserID, "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, domainbarber.ErrInvalidImageType)

	first, err := uc.Upload(ctx, bob.UserID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	second, err := uc.Upload(ctx, bob.UserID, "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarURL, second.AvatarURL)
	assert.Equal(t, []string{first.AvatarURL}, files.removed)

	cleared, err := uc.Remove(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, cleared.AvatarURL)

	_, err = uc.Remove(ctx, bob.UserID)
	assert.ErrorIs(t, err, domainbarber.ErrNoAvatar)
}

func TestAvatarStoreFailureIsInfrastructure(t *testing.T) {
	store := testutil.NewMemStore()
	bob := store.AddBarber("Bob")
	uc := NewAvatar(store, &fakeAvatars{err: errors.New("s3 timeout")}, zap.NewNop())

	_, err := uc.Upload(context.Background(), bob.UserID, "image/png", strings.NewReader("png"))
	assert.True(t, httperr.IsInfrastructure(err))
}

func TestProfileRequiresBarber(t *testing.T) {
	store := testutil.NewMemStore()
	user := store.AddUser("ann", "1", models.RoleClient)
	_, err := NewGetProfile(store).Execute(context.Background(), user.ID)
	assert.ErrorIs(t, err, domainbarber.ErrNoBarberProfile)
}

func TestAvatarForNamedBarber(t *testing.T) {
	store := testutil.NewMemStore()
	bob := store.AddBarber("Bob")
	files := &fakeAvatars{}
	uc := NewAvatar(store, files, zap.NewNop())
	ctx := context.Background()

	b, err := uc.UploadFor(ctx, bob.ID, "image/webp", strings.NewReader("webp"))
	require.NoError(t, err)
	stored, _ := store.Barber(bob.ID)
	assert.Equal(t, b.AvatarURL, stored.AvatarURL)

	_, err = uc.RemoveFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.AvatarURL}, files.removed)

	_, err = uc.RemoveFor(ctx, bob.ID)
	assert.ErrorIs(t, err, domainbarber.ErrNoAvatar)

	_, err = uc.UploadFor(ctx, 999, "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, domainbarber.ErrBarberNotFound)
}

type manageFixture struct {
	store  *testutil.MemStore
	cache  *cache.RatingMemory
	agg    *ucrating.Aggregator
	files  *fakeAvatars
	manage *Manage
}

func newManageFixture() *manageFixture {
	clock := timeutil.NewFixedClock(now)
	store := testutil.NewMemStore()
	mem := cache.NewRatingMemory(clock)
	agg := ucrating.NewAggregator(mem, store.Reader().Reviews(), rating.DefaultTTL, zap.NewNop())
	files := &fakeAvatars{}
	return &manageFixture{
		store:  store,
		cache:  mem,
		agg:    agg,
		files:  files,
		manage: NewManage(store, agg, files, clock, audit.NewDispatcher(zap.NewNop()), zap.NewNop()),
	}
}

func TestRenameBarber(t *testing.T) {
	f := newManageFixture()
	bob := f.store.AddBarber("Bob")
	ctx := context.Background()

	b, err := f.manage.Rename(ctx, 1, bob.ID, "  Robert  ")
	require.NoError(t, err)
	assert.Equal(t, "Robert", b.FullName)
	stored, _ := f.store.Barber(bob.ID)
	assert.Equal(t, "Robert", stored.FullName)

	_, err = f.manage.Rename(ctx, 1, bob.ID, " ")
	assert.True(t, httperr.IsBusiness(err, "full_name_required"))

	_, err = f.manage.Rename(ctx, 1, 999, "Ghost")
	assert.ErrorIs(t, err, domainbarber.ErrBarberNotFound)

	_, err = f.manage.Get(ctx, 999)
	assert.ErrorIs(t, err, domainbarber.ErrBarberNotFound)
}

func TestDeleteBarberTakesLiveAppointmentsWithIt(t *testing.T) {
	f := newManageFixture()
	ctx := context.Background()
	bob := f.store.AddBarber("Bob")
	carl := f.store.AddBarber("Carl")
	ann := f.store.AddUser("ann", "1", models.RoleClient)
	day := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)

	booked := f.store.AddSlot(bob.ID, day, "10:00", "11:00", false)
	past := f.store.AddSlot(bob.ID, day.AddDate(0, 0, -2), "10:00", "11:00", false)
	f.store.AddSlot(bob.ID, day, "11:00", "12:00", true)
	kept := f.store.AddSlot(carl.ID, day, "10:00", "11:00", true)

	appts := f.store.Reader().Appointments()
	for _, sl := range []*models.BarberSchedule{booked, past} {
		require.NoError(t, appts.CreateAppointment(ctx, &models.Appointment{
			ScheduleID:      sl.ID,
			BarberID:        bob.ID,
			ClientID:        &ann.ID,
			ClientName:      "ann",
			ClientPhone:     "1",
			AppointmentTime: sl.Date.Add(10 * time.Hour),
			Status:          "scheduled",
		}))
	}
	f.store.AddReview(ann.ID, bob.ID, 5, true)

	_, err := f.agg.RatingFor(ctx, bob.ID)
	require.NoError(t, err)
	withAvatar, err := NewAvatar(f.store, f.files, zap.NewNop()).UploadFor(ctx, bob.ID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	removed, err := f.manage.Delete(ctx, 1, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed.Upcoming)
	assert.Equal(t, bob.ID, removed.Barber.ID)

	_, ok := f.store.Barber(bob.ID)
	assert.False(t, ok)
	assert.Empty(t, f.store.AllAppointments())

	slots := f.store.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, kept.ID, slots[0].ID)

	reviews, err := f.store.Reader().Reviews().ListReviews(ctx, review.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, reviews)

	u, _ := f.store.Reader().Users().GetUser(ctx, bob.UserID)
	assert.Equal(t, models.RoleClient, u.Role)

	_, cached, err := f.cache.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Contains(t, f.files.removed, withAvatar.AvatarURL)

	_, err = f.manage.Delete(ctx, 1, bob.ID)
	assert.ErrorIs(t, err, domainbarber.ErrBarberNotFound)
}

func TestDeleteBarberKeepsAdminRole(t *testing.T) {
	f := newManageFixture()
	ctx := context.Background()
	root := f.store.AddUser("root", "1", models.RoleAdmin)
	b, err := NewPromote(f.store, audit.NewDispatcher(zap.NewNop())).Execute(ctx, root.ID, root.ID, "Root Cutter")
	require.NoError(t, err)

	removed, err := f.manage.Delete(ctx, root.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, removed.Upcoming)

	u, _ := f.store.Reader().Users().GetUser(ctx, root.ID)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestDeleteBarberStoreFailureIsInfrastructure(t *testing.T) {
	f := newManageFixture()
	bob := f.store.AddBarber("Bob")
	f.store.AddSlot(bob.ID, now, "13:00", "14:00", true)
	f.store.SetFailure(errors.New("connection reset"))

	_, err := f.manage.Delete(context.Background(), 1, bob.ID)
	assert.True(t, httperr.IsInfrastructure(err))

	f.store.SetFailure(nil)
	_, ok := f.store.Barber(bob.ID)
	assert.True(t, ok)
	assert.Len(t, f.store.Slots(), 1)
}
