package sessions

import (
	"context"
	"testing"
	"time"

	"screenly/internal/theatres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	sessions map[uuid.UUID]*Session
	blocked  map[uuid.UUID][]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: make(map[uuid.UUID]*Session),
		blocked:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeRepo) Create(ctx context.Context, session *Session) error {
	session.ID = uuid.New()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (r *fakeRepo) ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, after time.Time) ([]Session, error) {
	var result []Session
	for _, s := range r.sessions {
		if s.MovieID == movieID && s.StartsAt.After(after) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *fakeRepo) ListUpcoming(ctx context.Context, after time.Time) ([]Session, error) {
	var result []Session
	for _, s := range r.sessions {
		if s.StartsAt.After(after) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *fakeRepo) ActiveTicketSeatIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	return r.blocked[sessionID], nil
}

type fakeMovieDir struct {
	existing map[uuid.UUID]bool
}

func (d *fakeMovieDir) MovieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return d.existing[id], nil
}

type fakeSeatDir struct {
	halls map[uuid.UUID]*theatres.Hall
	seats map[uuid.UUID][]theatres.Seat
}

func (d *fakeSeatDir) GetHall(ctx context.Context, id uuid.UUID) (*theatres.Hall, error) {
	hall, ok := d.halls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return hall, nil
}

func (d *fakeSeatDir) GetHallSeats(ctx context.Context, hallID uuid.UUID) ([]theatres.Seat, error) {
	return d.seats[hallID], nil
}

func newTestService(t *testing.T) (*service, *fakeRepo, uuid.UUID, uuid.UUID, []theatres.Seat, time.Time) {
	t.Helper()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	movieID := uuid.New()
	hallID := uuid.New()

	seats := []theatres.Seat{
		{ID: uuid.New(), HallID: hallID, Row: 1, Number: 1},
		{ID: uuid.New(), HallID: hallID, Row: 1, Number: 2},
		{ID: uuid.New(), HallID: hallID, Row: 2, Number: 1},
	}

	repo := newFakeRepo()
	movieDir := &fakeMovieDir{existing: map[uuid.UUID]bool{movieID: true}}
	seatDir := &fakeSeatDir{
		halls: map[uuid.UUID]*theatres.Hall{hallID: {ID: hallID, Number: 1, Rows: 2, SeatsPerRow: 2}},
		seats: map[uuid.UUID][]theatres.Seat{hallID: seats},
	}

	svc := NewService(repo, movieDir, seatDir).(*service)
	svc.now = func() time.Time { return now }

	return svc, repo, movieID, hallID, seats, now
}

func TestScheduleSession(t *testing.T) {
	svc, repo, movieID, hallID, _, now := newTestService(t)

	session, err := svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  movieID.String(),
		HallID:   hallID.String(),
		StartsAt: now.Add(4 * time.Hour),
		Is3D:     true,
	})
	require.NoError(t, err)

	assert.True(t, session.Is3D)
	assert.Contains(t, repo.sessions, session.ID)
}

func TestScheduleSessionUnknownMovie(t *testing.T) {
	svc, _, _, hallID, _, now := newTestService(t)

	_, err := svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  uuid.NewString(),
		HallID:   hallID.String(),
		StartsAt: now.Add(4 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestScheduleSessionUnknownHall(t *testing.T) {
	svc, _, movieID, _, _, now := newTestService(t)

	_, err := svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  movieID.String(),
		HallID:   uuid.NewString(),
		StartsAt: now.Add(4 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrHallNotFound)
}

func TestScheduleSessionInPastRejected(t *testing.T) {
	svc, _, movieID, hallID, _, now := newTestService(t)

	_, err := svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  movieID.String(),
		HallID:   hallID.String(),
		StartsAt: now.Add(-time.Minute),
	})
	assert.ErrorIs(t, err, ErrPastSession)

	// starting exactly now is also too late
	_, err = svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  movieID.String(),
		HallID:   hallID.String(),
		StartsAt: now,
	})
	assert.ErrorIs(t, err, ErrPastSession)
}

func TestGetSeatMapMarksBlockedSeats(t *testing.T) {
	svc, repo, movieID, hallID, seats, now := newTestService(t)

	session, err := svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  movieID.String(),
		HallID:   hallID.String(),
		StartsAt: now.Add(4 * time.Hour),
	})
	require.NoError(t, err)

	repo.blocked[session.ID] = []uuid.UUID{seats[1].ID}

	seatMap, err := svc.GetSeatMap(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, seatMap.Seats, 3)

	byID := make(map[uuid.UUID]bool, len(seatMap.Seats))
	for _, sa := range seatMap.Seats {
		byID[sa.Seat.ID] = sa.Available
	}
	assert.True(t, byID[seats[0].ID])
	assert.False(t, byID[seats[1].ID])
	assert.True(t, byID[seats[2].ID])
}

func TestGetSeatMapReflectsReleasedSeats(t *testing.T) {
	svc, repo, movieID, hallID, seats, now := newTestService(t)

	session, err := svc.ScheduleSession(context.Background(), uuid.New(), ScheduleSessionRequest{
		MovieID:  movieID.String(),
		HallID:   hallID.String(),
		StartsAt: now.Add(4 * time.Hour),
	})
	require.NoError(t, err)

	repo.blocked[session.ID] = []uuid.UUID{seats[0].ID}
	first, err := svc.GetSeatMap(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, first.Seats[0].Available)

	// availability is recomputed per call, not cached
	repo.blocked[session.ID] = nil
	second, err := svc.GetSeatMap(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, second.Seats[0].Available)
}

func TestGetSeatMapUnknownSession(t *testing.T) {
	svc, _, _, _, _, _ := newTestService(t)

	_, err := svc.GetSeatMap(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
