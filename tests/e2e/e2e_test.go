package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"roombooking/internal/database"
	"roombooking/internal/domain"
	"roombooking/internal/middleware"
	"roombooking/internal/modules/booking"
	"roombooking/internal/modules/catalog"
	"roombooking/internal/modules/live"
	jwtsvc "roombooking/internal/pkg/jwt"
	"roombooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const loginURL = "/accounts/login/"

// The whole suite runs against a frozen server-local clock:
// today is 2024-01-10, the time is 12:00.
var frozenNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

type TestResponse struct {
	Success  bool                   `json:"success"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *ErrorDetail           `json:"error,omitempty"`
	Redirect string                 `json:"redirect,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Suite struct {
	router      *gin.Engine
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	roomRepo    *repository.RoomRepository

	room1 domain.Room // R101, available
	room2 domain.Room // R102, hidden from the catalog
	room3 domain.Room // R103, available

	userToken  string // testuser, id 1
	staffToken string // staffuser, id 2

	existingBookingID int64 // staffuser, R101, today 14:00
}

func setupSuite(t *testing.T) *Suite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// A pooled in-memory SQLite means one database per connection; pin the
	// pool to a single connection so every request sees the same data.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	require.NoError(t, roomRepo.Migrate())
	require.NoError(t, bookingRepo.Migrate())

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	hub := live.NewHub()

	catalogService := catalog.NewService(roomRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	clock := booking.FixedClock{Instant: frozenNow}
	bookingService := booking.NewService(bookingRepo, roomRepo, hub, clock)
	bookingHandler := booking.NewHandler(bookingService)

	liveHandler := live.NewHandler(hub, jwtService, bookingService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	root := r.Group("/")
	catalogHandler.RegisterPublicRoutes(root)
	liveHandler.RegisterRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.JWTAuth(jwtService, loginURL))
	bookingHandler.RegisterRoutes(protected)

	staff := protected.Group("")
	staff.Use(middleware.StaffOnly())
	catalogHandler.RegisterAdminRoutes(staff)

	s := &Suite{
		router:      r,
		db:          db,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
	}

	ctx := context.Background()

	s.room1 = domain.Room{Code: "R101", Name: "Test Room 1", Capacity: 10, MaxBookingHours: 1, IsAvailable: true}
	s.room2 = domain.Room{Code: "R102", Name: "Test Room 2", Capacity: 5, MaxBookingHours: 1, IsAvailable: false}
	s.room3 = domain.Room{Code: "R103", Name: "Test Room 3", Capacity: 2, MaxBookingHours: 1, IsAvailable: true}
	require.NoError(t, roomRepo.Create(ctx, &s.room1))
	require.NoError(t, roomRepo.Create(ctx, &s.room2))
	require.NoError(t, roomRepo.Create(ctx, &s.room3))

	s.userToken, err = jwtService.GenerateToken(1, "testuser", false)
	require.NoError(t, err)
	s.staffToken, err = jwtService.GenerateToken(2, "staffuser", true)
	require.NoError(t, err)

	existing := domain.Booking{
		UserID:      2,
		RoomID:      s.room1.ID,
		BookingDate: "2024-01-10",
		StartTime:   "14:00",
		EndTime:     "15:00",
	}
	require.NoError(t, bookingRepo.Create(ctx, &existing))
	s.existingBookingID = existing.ID

	return s
}

func (s *Suite) get(t *testing.T, token, path string) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w, decode(t, w)
}

func (s *Suite) postForm(t *testing.T, token, path string, form url.Values) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w, decode(t, w)
}

func (s *Suite) sendJSON(t *testing.T, method, token, path string, payload interface{}) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w, decode(t, w)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	if w.Code == http.StatusFound {
		return nil
	}
	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *Suite) roomPath(roomID int64) string {
	return "/room/" + strconv.FormatInt(roomID, 10) + "/"
}

func bookingForm(date, start string) url.Values {
	form := url.Values{}
	if date != "" {
		form.Set("booking_date", date)
	}
	if start != "" {
		form.Set("start_time", start)
	}
	return form
}

func TestRoomListShowsOnlyAvailableRooms(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.get(t, "", "/")

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	rooms := resp.Data["rooms"].([]interface{})
	codes := make([]string, 0, len(rooms))
	for _, r := range rooms {
		codes = append(codes, r.(map[string]interface{})["code"].(string))
	}
	assert.Equal(t, []string{"R101", "R103"}, codes)
}

func TestUnauthenticatedRequestRedirectsToLogin(t *testing.T) {
	s := setupSuite(t)

	w, _ := s.get(t, "", "/my_bookings/")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, loginURL+"?next=%2Fmy_bookings%2F", w.Header().Get("Location"))
}

func TestRoomDetailSlotBoard(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.get(t, s.userToken, s.roomPath(s.room1.ID)+"?date=2024-01-10")

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	slots := resp.Data["slots"].([]interface{})
	require.Len(t, slots, 9)

	statuses := make(map[string]string, len(slots))
	for _, raw := range slots {
		slot := raw.(map[string]interface{})
		statuses[slot["time"].(string)] = slot["status"].(string)
	}
	assert.Equal(t, "past", statuses["08:00"])
	assert.Equal(t, "booked", statuses["14:00"])
	assert.Equal(t, "available", statuses["15:00"])

	// Regular users never see the room's booking ledger.
	assert.Nil(t, resp.Data["room_bookings"])
}

func TestRoomDetailStaffSeesLedger(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.get(t, s.staffToken, s.roomPath(s.room1.ID))

	require.Equal(t, http.StatusOK, w.Code)
	ledger := resp.Data["room_bookings"].([]interface{})
	require.Len(t, ledger, 1)
}

func TestUnavailableRoomStillRetrievableByID(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.get(t, s.userToken, s.roomPath(s.room2.ID))

	require.Equal(t, http.StatusOK, w.Code)
	room := resp.Data["room"].(map[string]interface{})
	assert.Equal(t, "R102", room["code"])
}

func TestBookingTakenSlotRejected(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("2024-01-10", "14:00"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SLOT_TAKEN", resp.Error.Code)
	assert.Equal(t, s.roomPath(s.room1.ID)+"?date=2024-01-10", resp.Redirect)
}

func TestAdvanceBookingForbiddenForRegularUser(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("2024-01-11", "09:00"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ADVANCE_BOOKING_FORBIDDEN", resp.Error.Code)
}

func TestStaffMayBookFutureDate(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.postForm(t, s.staffToken, s.roomPath(s.room1.ID), bookingForm("2024-01-11", "16:00"))

	require.Equal(t, http.StatusCreated, w.Code)
	b := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "2024-01-11", b["booking_date"])
	assert.Equal(t, "16:00", b["start_time"])
	assert.Equal(t, "17:00", b["end_time"])
	assert.Equal(t, "/my_bookings/", resp.Redirect)
}

func TestPastTimeRejectedForEveryRole(t *testing.T) {
	s := setupSuite(t)

	for _, token := range []string{s.userToken, s.staffToken} {
		w, resp := s.postForm(t, token, s.roomPath(s.room1.ID), bookingForm("2024-01-09", "14:00"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "PAST_TIME", resp.Error.Code)
	}
}

func TestMissingTimeSlotDistinctFromMalformed(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("2024-01-10", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_TIME_SLOT", resp.Error.Code)

	w, resp = s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("bad-date", "15:00"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestUserCannotBookTwoRoomsAtSameTime(t *testing.T) {
	s := setupSuite(t)

	w, _ := s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("2024-01-10", "15:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.postForm(t, s.userToken, s.roomPath(s.room3.ID), bookingForm("2024-01-10", "15:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_ALREADY_BOOKED", resp.Error.Code)
}

func TestMyBookingsOrderedMostRecentFirst(t *testing.T) {
	s := setupSuite(t)

	w, _ := s.postForm(t, s.staffToken, s.roomPath(s.room1.ID), bookingForm("2024-01-11", "16:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.postForm(t, s.staffToken, s.roomPath(s.room3.ID), bookingForm("2024-01-11", "08:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.get(t, s.staffToken, "/my_bookings/")
	require.Equal(t, http.StatusOK, w.Code)

	bookings := resp.Data["bookings"].([]interface{})
	require.Len(t, bookings, 3)

	first := bookings[0].(map[string]interface{})
	second := bookings[1].(map[string]interface{})
	third := bookings[2].(map[string]interface{})
	assert.Equal(t, "2024-01-11", first["booking_date"])
	assert.Equal(t, "16:00", first["start_time"])
	assert.Equal(t, "2024-01-11", second["booking_date"])
	assert.Equal(t, "08:00", second["start_time"])
	assert.Equal(t, "2024-01-10", third["booking_date"])
}

func TestCancelBookingFlow(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("2024-01-10", "15:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	cancelPath := "/booking/cancel/" + strconv.FormatInt(bookingID, 10) + "/"

	// Another user's cancel is indistinguishable from a missing booking.
	w, resp = s.postForm(t, s.staffToken, cancelPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	w, resp = s.postForm(t, s.userToken, cancelPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/my_bookings/", resp.Redirect)

	w, resp = s.get(t, s.userToken, "/my_bookings/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data["bookings"])

	// Repeat cancel reports not found again.
	w, resp = s.postForm(t, s.userToken, cancelPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelingPastBookingAllowed(t *testing.T) {
	s := setupSuite(t)

	past := domain.Booking{
		UserID:      1,
		RoomID:      s.room1.ID,
		BookingDate: "2024-01-09",
		StartTime:   "10:00",
		EndTime:     "11:00",
	}
	require.NoError(t, s.bookingRepo.Create(context.Background(), &past))

	w, _ := s.postForm(t, s.userToken, "/booking/cancel/"+strconv.FormatInt(past.ID, 10)+"/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUniqueIndexClosesBookingRace(t *testing.T) {
	s := setupSuite(t)
	ctx := context.Background()

	first := domain.Booking{UserID: 1, RoomID: s.room3.ID, BookingDate: "2024-01-10", StartTime: "15:00", EndTime: "16:00"}
	require.NoError(t, s.bookingRepo.Create(ctx, &first))

	// A second writer for the same (room, date, start) loses at the index,
	// no matter what its existence check saw.
	second := domain.Booking{UserID: 2, RoomID: s.room3.ID, BookingDate: "2024-01-10", StartTime: "15:00", EndTime: "16:00"}
	err := s.bookingRepo.Create(ctx, &second)
	require.Error(t, err)
	assert.True(t, database.IsDuplicateKey(err), "expected a unique-constraint violation, got: %v", err)
}

func TestAdminRoomManagement(t *testing.T) {
	s := setupSuite(t)

	payload := map[string]interface{}{
		"code":     "R301",
		"name":     "Workshop Room",
		"capacity": 12,
	}

	w, _ := s.sendJSON(t, http.MethodPost, s.userToken, "/admin/rooms/", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.sendJSON(t, http.MethodPost, s.staffToken, "/admin/rooms/", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	room := resp.Data["room"].(map[string]interface{})
	roomID := int64(room["id"].(float64))
	assert.Equal(t, true, room["is_available"])

	hide := map[string]interface{}{
		"code":         "R301",
		"name":         "Workshop Room",
		"capacity":     12,
		"is_available": false,
	}
	w, _ = s.sendJSON(t, http.MethodPut, s.staffToken, "/admin/rooms/"+strconv.FormatInt(roomID, 10)+"/", hide)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.get(t, "", "/")
	require.Equal(t, http.StatusOK, w.Code)
	for _, raw := range resp.Data["rooms"].([]interface{}) {
		assert.NotEqual(t, "R301", raw.(map[string]interface{})["code"])
	}
}

func TestLiveBoardPushOnBooking(t *testing.T) {
	s := setupSuite(t)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"/room/" + strconv.FormatInt(s.room1.ID, 10) + "/live?token=" + s.userToken + "&date=2024-01-10"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	type wsBoard struct {
		Type   string `json:"type"`
		RoomID int64  `json:"room_id"`
		Date   string `json:"date"`
		Slots  []struct {
			Time   string `json:"time"`
			Status string `json:"status"`
		} `json:"slots"`
	}

	var initial wsBoard
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "slot_board", initial.Type)
	require.Len(t, initial.Slots, 9)

	w, _ := s.postForm(t, s.userToken, s.roomPath(s.room1.ID), bookingForm("2024-01-10", "13:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	var pushed wsBoard
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&pushed))

	statuses := make(map[string]string)
	for _, slot := range pushed.Slots {
		statuses[slot.Time] = slot.Status
	}
	assert.Equal(t, "booked", statuses["13:00"])
	assert.Equal(t, "booked", statuses["14:00"])
}
