package theatres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	theatres  map[uuid.UUID]*Theatre
	seatTypes map[uuid.UUID]*SeatType
	halls     map[uuid.UUID]*Hall
	seats     map[uuid.UUID][]Seat
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		theatres:  make(map[uuid.UUID]*Theatre),
		seatTypes: make(map[uuid.UUID]*SeatType),
		halls:     make(map[uuid.UUID]*Hall),
		seats:     make(map[uuid.UUID][]Seat),
	}
}

func (r *fakeRepo) CreateTheatre(ctx context.Context, theatre *Theatre) error {
	theatre.ID = uuid.New()
	r.theatres[theatre.ID] = theatre
	return nil
}

func (r *fakeRepo) GetTheatreByID(ctx context.Context, id uuid.UUID) (*Theatre, error) {
	theatre, ok := r.theatres[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return theatre, nil
}

func (r *fakeRepo) ListTheatres(ctx context.Context) ([]Theatre, error) {
	var result []Theatre
	for _, t := range r.theatres {
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeRepo) CreateHallWithSeats(ctx context.Context, hall *Hall, seats []Seat) error {
	hall.ID = uuid.New()
	for i := range seats {
		seats[i].ID = uuid.New()
		seats[i].HallID = hall.ID
	}
	r.halls[hall.ID] = hall
	r.seats[hall.ID] = seats
	return nil
}

func (r *fakeRepo) GetHallByID(ctx context.Context, id uuid.UUID) (*Hall, error) {
	hall, ok := r.halls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return hall, nil
}

func (r *fakeRepo) CreateSeatType(ctx context.Context, seatType *SeatType) error {
	seatType.ID = uuid.New()
	r.seatTypes[seatType.ID] = seatType
	return nil
}

func (r *fakeRepo) GetSeatTypeByID(ctx context.Context, id uuid.UUID) (*SeatType, error) {
	seatType, ok := r.seatTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return seatType, nil
}

func (r *fakeRepo) ListSeatTypes(ctx context.Context) ([]SeatType, error) {
	var result []SeatType
	for _, st := range r.seatTypes {
		result = append(result, *st)
	}
	return result, nil
}

func (r *fakeRepo) GetSeatsByHallID(ctx context.Context, hallID uuid.UUID) ([]Seat, error) {
	return r.seats[hallID], nil
}

func (r *fakeRepo) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var result []Seat
	for _, seats := range r.seats {
		for _, seat := range seats {
			for _, id := range ids {
				if seat.ID == id {
					result = append(result, seat)
				}
			}
		}
	}
	return result, nil
}

func TestCreateHallMaterializesSeatGrid(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	theatre, err := svc.CreateTheatre(context.Background(), CreateTheatreRequest{Name: "Downtown"})
	require.NoError(t, err)

	seatType, err := svc.CreateSeatType(context.Background(), CreateSeatTypeRequest{
		Name: "Standard", Cost2D: 10, Cost3D: 13,
	})
	require.NoError(t, err)

	hall, err := svc.CreateHall(context.Background(), theatre.ID, CreateHallRequest{
		Number: 1, Rows: 3, SeatsPerRow: 4, SeatTypeID: seatType.ID.String(),
	})
	require.NoError(t, err)

	seats, err := svc.GetHallSeats(context.Background(), hall.ID)
	require.NoError(t, err)
	require.Len(t, seats, 12)

	// every (row, number) pair appears exactly once
	seen := make(map[[2]int]bool)
	for _, seat := range seats {
		key := [2]int{seat.Row, seat.Number}
		assert.False(t, seen[key], "duplicate seat %v", key)
		seen[key] = true
		assert.Equal(t, seatType.ID, seat.TypeID)
	}
	assert.True(t, seen[[2]int{3, 4}])
}

func TestCreateHallUnknownTheatre(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.CreateHall(context.Background(), uuid.New(), CreateHallRequest{
		Number: 1, Rows: 2, SeatsPerRow: 2, SeatTypeID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, ErrTheatreNotFound)
}

func TestCreateHallUnknownSeatType(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	theatre, err := svc.CreateTheatre(context.Background(), CreateTheatreRequest{Name: "Downtown"})
	require.NoError(t, err)

	_, err = svc.CreateHall(context.Background(), theatre.ID, CreateHallRequest{
		Number: 1, Rows: 2, SeatsPerRow: 2, SeatTypeID: uuid.NewString(),
	})
	assert.Error(t, err)
}
