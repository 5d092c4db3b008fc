package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/models"
	"github.com/playmatatu/billiards/internal/table"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Player1Name:         "Player 1",
		Player2Name:         "Player 2",
		JWTSecret:           "test-secret",
		SeatTokenTTLMinutes: 60,
		SnapshotTTLSeconds:  60,
	}
}

func newTestManager(t *testing.T) *table.Manager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m := table.NewManager(ctx, testConfig(), nil, nil, nil)
	t.Cleanup(func() {
		m.Shutdown()
		cancel()
	})
	return m
}

func perform(r *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type createResponse struct {
	TableID  string        `json:"table_id"`
	HotSeat  bool          `json:"hot_seat"`
	Seats    []seatGrant   `json:"seats"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type fakeMirror struct {
	snaps map[string]game.Snapshot
	err   error
}

func (f *fakeMirror) LoadSnapshot(ctx context.Context, tableID string) (*game.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap, ok := f.snaps[tableID]
	if !ok {
		return nil, table.ErrTableNotFound
	}
	return &snap, nil
}

type fakeRacks struct {
	gotTable string
	gotLimit int
	records  []models.RackRecord
}

func (f *fakeRacks) ListRacks(ctx context.Context, tableID string, limit, offset int) ([]models.RackRecord, error) {
	f.gotTable = tableID
	f.gotLimit = limit
	return f.records, nil
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck)

	w := perform(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "billiards-api") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestGetGeometry(t *testing.T) {
	r := gin.New()
	r.GET("/geometry", GetGeometry)

	w := perform(r, http.MethodGet, "/geometry", "", nil)
	var geo game.TableGeometry
	if err := json.Unmarshal(w.Body.Bytes(), &geo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(geo.Pockets) != 6 || geo.Width != game.TableWidth {
		t.Errorf("geometry = %+v", geo)
	}
}

func TestCreateTableIssuesSeatTokens(t *testing.T) {
	m := newTestManager(t)
	cfg := testConfig()
	r := gin.New()
	r.POST("/table", CreateTable(m, cfg))

	w := perform(r, http.MethodPost, "/table", `{"player1":"Ann","player2":"Ben"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp createResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TableID == "" || w.Header().Get("X-Table-ID") != resp.TableID {
		t.Fatalf("table id missing: %+v", resp)
	}
	if !resp.HotSeat {
		t.Error("hot seat should default to true")
	}
	if len(resp.Seats) != 2 || resp.Seats[0].Player != "Ann" || resp.Seats[1].Player != "Ben" {
		t.Fatalf("seats = %+v", resp.Seats)
	}

	for i, grant := range resp.Seats {
		seat, err := auth.AuthorizeSeat(cfg.JWTSecret, grant.Token, resp.TableID)
		if err != nil {
			t.Fatalf("seat %d token rejected: %v", i, err)
		}
		if seat.Seat != i {
			t.Errorf("token %d carries seat %d", i, seat.Seat)
		}
	}
	if resp.Snapshot.State != game.StateStart {
		t.Errorf("new table state = %v, want start", resp.Snapshot.State)
	}
}

func TestCreateTableDefaultsAndHotSeatFlag(t *testing.T) {
	m := newTestManager(t)
	r := gin.New()
	r.POST("/table", CreateTable(m, testConfig()))

	w := perform(r, http.MethodPost, "/table", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("empty body status = %d, want 201", w.Code)
	}
	var resp createResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Seats[0].Player != "Player 1" || resp.Seats[1].Player != "Player 2" {
		t.Errorf("default names = %q, %q", resp.Seats[0].Player, resp.Seats[1].Player)
	}

	w = perform(r, http.MethodPost, "/table", `{"hot_seat":false}`, nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.HotSeat {
		t.Error("hot_seat false was ignored")
	}

	w = perform(r, http.MethodPost, "/table", `{"player1":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", w.Code)
	}
}

func TestGetTable(t *testing.T) {
	m := newTestManager(t)
	tbl, err := m.Create("Ann", "Ben", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	remote := game.NewGame("Cy", "Di").Snapshot()
	mirror := &fakeMirror{snaps: map[string]game.Snapshot{"table_remote": remote}}

	r := gin.New()
	r.GET("/table/:id", GetTable(m, mirror))

	w := perform(r, http.MethodGet, "/table/"+tbl.ID, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"live":true`) {
		t.Errorf("live table: %d %s", w.Code, w.Body.String())
	}

	w = perform(r, http.MethodGet, "/table/table_remote", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"live":false`) {
		t.Errorf("mirrored table: %d %s", w.Code, w.Body.String())
	}

	w = perform(r, http.MethodGet, "/table/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing table status = %d, want 404", w.Code)
	}

	mirror.err = errors.New("redis down")
	w = perform(r, http.MethodGet, "/table/table_remote", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("mirror failure status = %d, want 404", w.Code)
	}
}

func TestGetTableWithoutMirror(t *testing.T) {
	m := newTestManager(t)
	r := gin.New()
	r.GET("/table/:id", GetTable(m, nil))

	if w := perform(r, http.MethodGet, "/table/nope", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResetTable(t *testing.T) {
	m := newTestManager(t)
	cfg := testConfig()
	tbl, _ := m.Create("Ann", "Ben", true)
	other, _ := m.Create("Cy", "Di", true)

	r := gin.New()
	r.POST("/table/:id/reset", ResetTable(m, cfg))
	path := "/table/" + tbl.ID + "/reset"

	if w := perform(r, http.MethodPost, path, "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	wrong, _ := auth.IssueSeatToken(cfg.JWTSecret, other.ID, 0, time.Minute)
	if w := perform(r, http.MethodPost, path, "", map[string]string{"Authorization": "Bearer " + wrong}); w.Code != http.StatusForbidden {
		t.Errorf("wrong table status = %d, want 403", w.Code)
	}

	good, _ := auth.IssueSeatToken(cfg.JWTSecret, tbl.ID, 1, time.Minute)
	if w := perform(r, http.MethodPost, path, "", map[string]string{"Authorization": "Bearer " + good}); w.Code != http.StatusAccepted {
		t.Errorf("valid reset status = %d, want 202", w.Code)
	}

	m.Close(tbl.ID, "test")
	if w := perform(r, http.MethodPost, path, "", map[string]string{"Authorization": "Bearer " + good}); w.Code != http.StatusNotFound {
		t.Errorf("closed table status = %d, want 404", w.Code)
	}
}

func TestAdminTables(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Create("Ann", "Ben", true)
	m.Create("Cy", "Di", false)

	r := gin.New()
	r.GET("/admin/tables", GetAdminTables(m))
	r.DELETE("/admin/tables/:id", CloseAdminTable(nil, m))

	w := perform(r, http.MethodGet, "/admin/tables", "", nil)
	if w.Header().Get("X-Table-Count") != "2" {
		t.Errorf("X-Table-Count = %q, want 2", w.Header().Get("X-Table-Count"))
	}

	if w := perform(r, http.MethodDelete, "/admin/tables/"+a.ID, "", nil); w.Code != http.StatusOK {
		t.Errorf("close status = %d, want 200", w.Code)
	}
	if w := perform(r, http.MethodDelete, "/admin/tables/"+a.ID, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("second close status = %d, want 404", w.Code)
	}
	if m.Count() != 1 {
		t.Errorf("tables left = %d, want 1", m.Count())
	}
}

func TestAdminRacks(t *testing.T) {
	r := gin.New()
	r.GET("/unavailable", GetAdminRacks(nil))

	racks := &fakeRacks{records: []models.RackRecord{{ID: 7, TableID: "table_a", Outcome: "won"}}}
	r.GET("/racks", GetAdminRacks(racks))

	if w := perform(r, http.MethodGet, "/unavailable", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("nil store status = %d, want 503", w.Code)
	}

	w := perform(r, http.MethodGet, "/racks?table_id=table_a&limit=1000", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if racks.gotTable != "table_a" || racks.gotLimit != maxPageSize {
		t.Errorf("lister got table=%q limit=%d", racks.gotTable, racks.gotLimit)
	}
	if !strings.Contains(w.Body.String(), `"table_a"`) {
		t.Errorf("body missing record: %s", w.Body.String())
	}
}

func TestTableErrorStatus(t *testing.T) {
	cases := map[error]int{
		table.ErrTableNotFound:                        http.StatusNotFound,
		table.ErrTableClosed:                          http.StatusGone,
		table.ErrNotYourTurn:                          http.StatusConflict,
		table.ErrQueueFull:                            http.StatusTooManyRequests,
		table.ErrInvalidSeat:                          http.StatusBadRequest,
		auth.ErrWrongTable:                            http.StatusForbidden,
		fmt.Errorf("parse: %w", auth.ErrInvalidToken): http.StatusUnauthorized,
		errors.New("boom"):                            http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := tableErrorStatus(err); got != want {
			t.Errorf("tableErrorStatus(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestBearerToken(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", func(c *gin.Context) { got = bearerToken(c) })

	perform(r, http.MethodGet, "/", "", map[string]string{"Authorization": "Bearer abc.def"})
	if got != "abc.def" {
		t.Errorf("bearer = %q", got)
	}
	perform(r, http.MethodGet, "/", "", map[string]string{"Authorization": "Basic xyz"})
	if got != "" {
		t.Errorf("basic auth should not yield a bearer token, got %q", got)
	}
}

func TestCreateTableLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	m := newTestManager(t)
	r := gin.New()
	r.POST("/table", CreateTable(m, testConfig()))
	perform(r, http.MethodPost, "/table", `{"player1":"Ann","player2":"Ben"}`, nil)

	if n := strings.Count(buf.String(), "Created table"); n != 1 {
		t.Errorf("create logged %d times, want 1:\n%s", n, buf.String())
	}
}
