package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Eursukkul/homestay-service/internal/dto"
	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock RoomService ---

type mockRoomService struct {
	setDirtyFn  func(ctx context.Context, id uint, dirty bool) (*models.Room, error)
	markFn      func(ctx context.Context, id uint, status string) (*models.Room, service.ReconcileReport, error)
	roomMapFn   func(ctx context.Context, filter service.RoomMapFilter) (*service.RoomMap, error)
	statsFn     func(ctx context.Context, houseIDs []uint) (*service.RoomStats, error)
	availableFn func(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error)
	createFn    func(ctx context.Context, in service.CreateRoomInput) (*models.Room, error)
	getFn       func(ctx context.Context, id uint) (*models.Room, error)
	listFn      func(ctx context.Context, houseIDs []uint) ([]models.Room, error)
	deleteFn    func(ctx context.Context, id uint) error
}

func (m *mockRoomService) Reconcile(ctx context.Context) (service.ReconcileReport, error) {
	return service.ReconcileReport{}, nil
}
func (m *mockRoomService) SetDirty(ctx context.Context, id uint, dirty bool) (*models.Room, error) {
	return m.setDirtyFn(ctx, id, dirty)
}
func (m *mockRoomService) MarkStatus(ctx context.Context, id uint, status string) (*models.Room, service.ReconcileReport, error) {
	return m.markFn(ctx, id, status)
}
func (m *mockRoomService) RoomMap(ctx context.Context, filter service.RoomMapFilter) (*service.RoomMap, error) {
	return m.roomMapFn(ctx, filter)
}
func (m *mockRoomService) Stats(ctx context.Context, houseIDs []uint) (*service.RoomStats, error) {
	return m.statsFn(ctx, houseIDs)
}
func (m *mockRoomService) Available(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error) {
	return m.availableFn(ctx, houseID, window)
}
func (m *mockRoomService) CreateRoom(ctx context.Context, in service.CreateRoomInput) (*models.Room, error) {
	return m.createFn(ctx, in)
}
func (m *mockRoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	return m.getFn(ctx, id)
}
func (m *mockRoomService) ListRooms(ctx context.Context, houseIDs []uint) ([]models.Room, error) {
	return m.listFn(ctx, houseIDs)
}
func (m *mockRoomService) DeleteRoom(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Tests ---

func TestSetDirty_Handler_Success(t *testing.T) {
	var gotDirty bool
	svc := &mockRoomService{
		setDirtyFn: func(ctx context.Context, id uint, dirty bool) (*models.Room, error) {
			gotDirty = dirty
			return &models.Room{ID: id, IsDirty: dirty}, nil
		},
	}
	c, rec := newContext(http.MethodPatch, "/api/v1/rooms/4/dirty", `{"isDirty":true}`, "4")

	err := NewRoomHandler(svc).SetDirty(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotDirty)
	var resp dto.DirtyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.DirtyResponse{ID: 4, IsDirty: true}, resp)
}

func TestSetDirty_Handler_InvalidInput(t *testing.T) {
	cases := []struct {
		name string
		id   string
		body string
	}{
		{"bad id", "x", `{"isDirty":true}`},
		{"zero id", "0", `{"isDirty":true}`},
		{"missing flag", "4", `{}`},
		{"non boolean", "4", `{"isDirty":"yes"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPatch, "/api/v1/rooms/"+tc.id+"/dirty", tc.body, tc.id)

			err := NewRoomHandler(&mockRoomService{}).SetDirty(c)

			assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
		})
	}
}

func TestSetDirty_Handler_NotFound(t *testing.T) {
	svc := &mockRoomService{
		setDirtyFn: func(ctx context.Context, id uint, dirty bool) (*models.Room, error) {
			return nil, service.ErrRoomNotFound
		},
	}
	c, _ := newContext(http.MethodPatch, "/api/v1/rooms/9/dirty", `{"isDirty":false}`, "9")

	err := NewRoomHandler(svc).SetDirty(c)

	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestMarkStatus_Handler(t *testing.T) {
	svc := &mockRoomService{
		markFn: func(ctx context.Context, id uint, status string) (*models.Room, service.ReconcileReport, error) {
			return &models.Room{ID: id, IsOccupied: true, IsDirty: status == "dirty"}, service.ReconcileReport{Rooms: 5, Updated: 1}, nil
		},
	}
	c, rec := newContext(http.MethodPut, "/api/v1/rooms/2/status", `{"status":"dirty"}`, "2")

	err := NewRoomHandler(svc).MarkStatus(c)

	require.NoError(t, err)
	var resp dto.RoomStatusResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []occupancy.Tag{occupancy.TagOccupied, occupancy.TagDirty}, resp.Room.Status)
	assert.Equal(t, occupancy.OccupancyOccupied, resp.Room.Occupancy)
	assert.True(t, resp.Room.IsDirty)
	assert.Equal(t, 5, resp.Reconcile.Rooms)
}

func TestMarkStatus_Handler_BadInput(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/api/v1/rooms/abc/status", `{"status":"dirty"}`, "abc")
	err := NewRoomHandler(&mockRoomService{}).MarkStatus(c)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	svc := &mockRoomService{
		markFn: func(ctx context.Context, id uint, status string) (*models.Room, service.ReconcileReport, error) {
			return nil, service.ReconcileReport{}, &service.ValidationError{FieldErrors: map[string]string{"status": "must be dirty or clean"}}
		},
	}
	c, _ = newContext(http.MethodPut, "/api/v1/rooms/2/status", `{"status":"shiny"}`, "2")
	err = NewRoomHandler(svc).MarkStatus(c)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestRoomMap_Handler_ParsesFilters(t *testing.T) {
	var got service.RoomMapFilter
	svc := &mockRoomService{
		roomMapFn: func(ctx context.Context, filter service.RoomMapFilter) (*service.RoomMap, error) {
			got = filter
			return &service.RoomMap{
				Houses: []service.HouseRooms{{
					House:  models.House{ID: 1, Code: "H1"},
					Rooms:  []models.Room{{ID: 3, HouseID: 1, IsBooked: true}},
					Counts: service.StatusCounts{Total: 2, Booked: 1, Available: 1},
				}},
				Counts: service.StatusCounts{Total: 2, Booked: 1, Available: 1},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/v1/rooms/room-map?houseIds=1,2&status=booked&isDirty=0", "")

	err := NewRoomHandler(svc).RoomMap(c)

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, got.HouseIDs)
	require.NotNil(t, got.Status)
	assert.Equal(t, occupancy.TagBooked, *got.Status)
	require.NotNil(t, got.IsDirty)
	assert.False(t, *got.IsDirty)

	var resp dto.RoomMapResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Houses, 1)
	assert.Equal(t, 2, resp.Counts.Total)
	assert.Equal(t, []occupancy.Tag{occupancy.TagBooked}, resp.Houses[0].Rooms[0].Status)
}

func TestRoomMap_Handler_BadFilters(t *testing.T) {
	for _, q := range []string{"houseIds=a", "status=haunted", "isDirty=maybe"} {
		c, _ := newContext(http.MethodGet, "/api/v1/rooms/room-map?"+q, "")

		err := NewRoomHandler(&mockRoomService{}).RoomMap(c)

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err), q)
	}
}

func TestRoomStats_Handler(t *testing.T) {
	svc := &mockRoomService{
		statsFn: func(ctx context.Context, houseIDs []uint) (*service.RoomStats, error) {
			return &service.RoomStats{
				StatusCounts: service.StatusCounts{Total: 4, Available: 2, Booked: 1, Occupied: 1, Dirty: 2},
				Reconcile:    service.ReconcileReport{Rooms: 4},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/v1/rooms/room-stats", "")

	err := NewRoomHandler(svc).RoomStats(c)

	require.NoError(t, err)
	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(4), resp["total"])
	assert.Equal(t, float64(2), resp["dirty"])
}

func TestAvailableRooms_Handler(t *testing.T) {
	var gotWindow occupancy.Window
	svc := &mockRoomService{
		availableFn: func(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error) {
			gotWindow = window
			return []models.Room{{ID: 1, HouseID: houseID}}, nil
		},
	}
	body := `{"houseId":1,"checkIn":"2026-01-10T14:00:00Z","checkOut":"2026-01-12T12:00:00Z"}`
	c, rec := newContext(http.MethodPost, "/api/v1/rooms/available", body)

	err := NewRoomHandler(svc).AvailableRooms(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotWindow.Nights())
}

func TestAvailableRooms_Handler_InvertedWindow(t *testing.T) {
	body := `{"houseId":1,"checkIn":"2026-01-12T12:00:00Z","checkOut":"2026-01-10T14:00:00Z"}`
	c, _ := newContext(http.MethodPost, "/api/v1/rooms/available", body)

	err := NewRoomHandler(&mockRoomService{}).AvailableRooms(c)

	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestCreateRoom_Handler_Duplicate(t *testing.T) {
	svc := &mockRoomService{
		createFn: func(ctx context.Context, in service.CreateRoomInput) (*models.Room, error) {
			return nil, service.ErrDuplicateRoomCode
		},
	}
	c, _ := newContext(http.MethodPost, "/api/v1/rooms", `{"houseId":1,"code":"A1"}`)

	err := NewRoomHandler(svc).CreateRoom(c)

	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestDeleteRoom_Handler(t *testing.T) {
	svc := &mockRoomService{
		deleteFn: func(ctx context.Context, id uint) error { return nil },
	}
	c, rec := newContext(http.MethodDelete, "/api/v1/rooms/1", "", "1")

	err := NewRoomHandler(svc).DeleteRoom(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
