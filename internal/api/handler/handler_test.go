package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/internal/training"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

const (
	testUUID1 = "6f1c4c2e-8a1b-4d3e-9f00-000000000001"
	testUUID2 = "6f1c4c2e-8a1b-4d3e-9f00-000000000002"
	testUUID3 = "6f1c4c2e-8a1b-4d3e-9f00-000000000003"
	testUUID4 = "6f1c4c2e-8a1b-4d3e-9f00-000000000004"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock SessionService ──

type mockSessionService struct {
	checkInResult  *dto.SessionResponse
	checkInErr     error
	checkOutResult *dto.CheckOutResponse
	checkOutErr    error
	activeResult   *dto.SessionResponse
	activeErr      error
	lastCheckIn    *dto.CheckInRequest
	lastReviewer   string
}

func (m *mockSessionService) CheckIn(_ context.Context, req *dto.CheckInRequest) (*dto.SessionResponse, error) {
	m.lastCheckIn = req
	return m.checkInResult, m.checkInErr
}
func (m *mockSessionService) CheckOut(_ context.Context, _ *dto.CheckOutRequest) (*dto.CheckOutResponse, error) {
	return m.checkOutResult, m.checkOutErr
}
func (m *mockSessionService) GetByID(_ context.Context, _ string) (*dto.SessionResponse, error) {
	return m.checkInResult, m.checkInErr
}
func (m *mockSessionService) List(_ context.Context, _ *dto.SessionListRequest) ([]dto.SessionResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockSessionService) Active(_ context.Context, _ string) (*dto.SessionResponse, error) {
	return m.activeResult, m.activeErr
}
func (m *mockSessionService) Review(_ context.Context, _ string, _ *dto.ReviewSessionRequest, reviewerID string) (*dto.SessionResponse, error) {
	m.lastReviewer = reviewerID
	return m.checkInResult, m.checkInErr
}

// ── Mock ProgressService ──

type mockProgressService struct {
	progressResult  *dto.AssignmentProgressResponse
	progressErr     error
	dashboardResult *dto.DashboardResponse
	dashboardErr    error
}

func (m *mockProgressService) AssignmentProgress(_ context.Context, _ string) (*dto.AssignmentProgressResponse, error) {
	return m.progressResult, m.progressErr
}
func (m *mockProgressService) Dashboard(_ context.Context, _ string) (*dto.DashboardResponse, error) {
	return m.dashboardResult, m.dashboardErr
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	result    *dto.BroadcastResponse
	err       error
	createdBy string
}

func (m *mockNotificationService) Broadcast(_ context.Context, _ *dto.BroadcastRequest, createdBy string) (*dto.BroadcastResponse, error) {
	m.createdBy = createdBy
	return m.result, m.err
}
func (m *mockNotificationService) ListBroadcasts(_ context.Context, _ *dto.PaginationRequest) ([]model.NotificationBroadcast, int64, error) {
	return []model.NotificationBroadcast{}, 0, nil
}

// ── Mock MonitoringService ──

type mockMonitoringService struct {
	alert    *model.MachineAlert
	alerts   []model.MachineAlert
	machine  *model.MonitoredMachine
	err      error
	lastList *dto.AlertListRequest
}

func (m *mockMonitoringService) CreateAlert(_ context.Context, _ *dto.CreateAlertRequest) (*model.MachineAlert, error) {
	return m.alert, m.err
}
func (m *mockMonitoringService) ListAlerts(_ context.Context, req *dto.AlertListRequest) ([]model.MachineAlert, int64, error) {
	m.lastList = req
	return m.alerts, int64(len(m.alerts)), m.err
}
func (m *mockMonitoringService) UpdateAlertStatus(_ context.Context, _ string, _ *dto.UpdateAlertStatusRequest) (*model.MachineAlert, error) {
	return m.alert, m.err
}
func (m *mockMonitoringService) CreateMonitoredMachine(_ context.Context, _ *dto.CreateMonitoredMachineRequest) (*model.MonitoredMachine, error) {
	return m.machine, m.err
}
func (m *mockMonitoringService) ListMonitoredMachines(_ context.Context, _ *dto.PaginationRequest) ([]model.MonitoredMachine, int64, error) {
	return nil, 0, m.err
}

// ── Mock UserService ──

type mockUserService struct {
	upsertResult *dto.UpsertDeviceResponse
	upsertErr    error
	lastUpsert   *dto.UpsertDeviceRequest
	importResult *dto.ImportUsersResponse
	parseErr     error
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) GetByID(_ context.Context, _ string) (*dto.UserResponse, error) {
	return nil, service.ErrUserNotFound
}
func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockUserService) Update(_ context.Context, _ string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) Delete(_ context.Context, _ string) error { return nil }
func (m *mockUserService) UpsertDevice(_ context.Context, req *dto.UpsertDeviceRequest) (*dto.UpsertDeviceResponse, error) {
	m.lastUpsert = req
	return m.upsertResult, m.upsertErr
}
func (m *mockUserService) ParseImportFile(_ io.Reader) ([]service.ImportUserRow, error) {
	return nil, m.parseErr
}
func (m *mockUserService) ImportUsers(_ context.Context, _ []service.ImportUserRow) (*dto.ImportUsersResponse, error) {
	return m.importResult, nil
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportAssignmentReport(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", model.RoleAdmin)
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// detailFields 提取 details.fields 并排序
func detailFields(resp response.Response) []string {
	details, ok := resp.Details.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, _ := details["fields"].([]interface{})
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, f.(string))
	}
	sort.Strings(fields)
	return fields
}

// serve 注册单个路由并执行请求；auth=true 时模拟 JWT 中间件注入身份
func serve(method, path, target string, body io.Reader, auth bool, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if auth {
			setAuth(c)
		}
		h(c)
	})
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCheckIn() dto.CheckInRequest {
	return dto.CheckInRequest{UserID: testUUID1, AssignmentID: testUUID2, MachineID: testUUID3, CenterID: testUUID4}
}

// ═══════════════════════════════════════════════════════════
// SessionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSessionHandler_CheckIn_Success(t *testing.T) {
	mock := &mockSessionService{checkInResult: &dto.SessionResponse{ID: "s1", Status: model.SessionStatusInProgress}}
	h := NewSessionHandler(mock, &mockProgressService{})

	w := serve("POST", "/check-in", "/check-in", jsonBody(validCheckIn()), true, h.CheckIn)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mock.lastCheckIn == nil || mock.lastCheckIn.MachineID != testUUID3 {
		t.Errorf("请求未正确绑定: %+v", mock.lastCheckIn)
	}
}

func TestSessionHandler_CheckIn_MissingFields(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{}, &mockProgressService{})

	w := serve("POST", "/check-in", "/check-in", jsonBody(map[string]string{"user_id": testUUID1}), true, h.CheckIn)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
	got := strings.Join(detailFields(resp), ",")
	if got != "assignment_id,center_id,machine_id" {
		t.Errorf("字段列表错误: %s", got)
	}
}

func TestSessionHandler_CheckIn_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"已有进行中训练", service.ErrActiveSessionExists, http.StatusConflict, 16002},
		{"签到处理中", service.ErrCheckInBusy, http.StatusConflict, 16003},
		{"设备不可用", service.ErrMachineUnavailable, http.StatusUnprocessableEntity, 16012},
		{"分配已过期", service.ErrAssignmentExpired, http.StatusUnprocessableEntity, 16009},
		{"用户不存在", service.ErrUserNotFound, http.StatusNotFound, 12001},
		{"设备不存在", service.ErrMachineNotFound, http.StatusNotFound, 13101},
		{"数据库失败", pkgerrors.Dependency(errors.New("connection refused")), http.StatusInternalServerError, 50200},
		{"未分类错误", errors.New("boom"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSessionHandler(&mockSessionService{checkInErr: tt.err}, &mockProgressService{})
			w := serve("POST", "/check-in", "/check-in", jsonBody(validCheckIn()), true, h.CheckIn)
			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestSessionHandler_CheckOut(t *testing.T) {
	mock := &mockSessionService{checkOutResult: &dto.CheckOutResponse{
		Session:        dto.SessionResponse{ID: "s1", HoursCompleted: 1.5},
		CourseProgress: training.ProgressSummary{ProgressPercentage: 30},
	}}
	h := NewSessionHandler(mock, &mockProgressService{})

	w := serve("POST", "/check-out", "/check-out", jsonBody(dto.CheckOutRequest{SessionID: testUUID1}), true, h.CheckOut)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.CheckOutResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Session.HoursCompleted != 1.5 || body.Data.CourseProgress.ProgressPercentage != 30 {
		t.Errorf("响应体错误: %+v", body.Data)
	}

	mock.checkOutErr = service.ErrSessionNotInProgress
	w = serve("POST", "/check-out", "/check-out", jsonBody(dto.CheckOutRequest{SessionID: testUUID1}), true, h.CheckOut)
	if w.Code != http.StatusBadRequest {
		t.Errorf("重复签退期望 400，实际 %d", w.Code)
	}

	mock.checkOutErr = service.ErrSessionNotFound
	w = serve("POST", "/check-out", "/check-out", jsonBody(dto.CheckOutRequest{SessionID: testUUID1}), true, h.CheckOut)
	if w.Code != http.StatusNotFound {
		t.Errorf("记录不存在期望 404，实际 %d", w.Code)
	}
}

func TestSessionHandler_Review_RequiresAuth(t *testing.T) {
	mock := &mockSessionService{checkInResult: &dto.SessionResponse{ID: "s1"}}
	h := NewSessionHandler(mock, &mockProgressService{})

	w := serve("PUT", "/sessions/:id/review", "/sessions/s1/review", jsonBody(dto.ReviewSessionRequest{Action: "approve"}), false, h.Review)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("未认证期望 401，实际 %d", w.Code)
	}

	w = serve("PUT", "/sessions/:id/review", "/sessions/s1/review", jsonBody(dto.ReviewSessionRequest{Action: "approve"}), true, h.Review)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.lastReviewer != "test-user-id" {
		t.Errorf("审核人应取自 JWT，实际 %q", mock.lastReviewer)
	}
}

func TestSessionHandler_ListSessions_InvalidStatus(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{}, &mockProgressService{})

	w := serve("GET", "/sessions", "/sessions?status=paused", nil, true, h.ListSessions)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := detailFields(parseResponse(w)); len(got) != 1 || got[0] != "status" {
		t.Errorf("字段列表错误: %v", got)
	}

	w = serve("GET", "/sessions", "/sessions?status=in-progress", nil, true, h.ListSessions)
	if w.Code != http.StatusOK {
		t.Errorf("合法状态期望 200，实际 %d", w.Code)
	}
}

func TestSessionHandler_Dashboard(t *testing.T) {
	progress := &mockProgressService{dashboardResult: &dto.DashboardResponse{UserID: "u1"}}
	h := NewSessionHandler(&mockSessionService{}, progress)

	w := serve("GET", "/users/:id/dashboard", "/users/u1/dashboard", nil, true, h.Dashboard)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	progress.dashboardErr = service.ErrUserNotFound
	w = serve("GET", "/users/:id/dashboard", "/users/u1/dashboard", nil, true, h.Dashboard)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_Progress(t *testing.T) {
	progress := &mockProgressService{progressResult: &dto.AssignmentProgressResponse{
		Summary: training.ProgressSummary{AssignmentID: "a1", TotalHoursCompleted: 5, TotalHoursRequired: 10, ProgressPercentage: 50},
	}}
	h := NewAssignmentHandler(nil, progress)

	w := serve("GET", "/assignments/:id/progress", "/assignments/a1/progress", nil, true, h.Progress)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.AssignmentProgressResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Summary.ProgressPercentage != 50 {
		t.Errorf("进度错误: %+v", body.Data.Summary)
	}

	progress.progressErr = service.ErrAssignmentNotFound
	w = serve("GET", "/assignments/:id/progress", "/assignments/a1/progress", nil, true, h.Progress)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15001 {
		t.Errorf("expected code 15001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		mock     *mockAuthService
		wantHTTP int
		wantCode int
	}{
		{"成功", &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 1800}}, http.StatusOK, 0},
		{"密码错误", &mockAuthService{loginErr: service.ErrInvalidCredentials}, http.StatusUnauthorized, 11001},
		{"账号停用", &mockAuthService{loginErr: service.ErrAccountDisabled}, http.StatusForbidden, 11002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(tt.mock)
			w := serve("POST", "/auth/login", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@test.com", Password: "Test1234"}), false, h.Login)
			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	w := serve("POST", "/auth/login", "/auth/login", bytes.NewReader([]byte("invalid json")), false, h.Login)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidToken})
	w := serve("POST", "/auth/refresh", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}), false, h.Refresh)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrWrongPassword})
	w := serve("PUT", "/auth/password", "/auth/password",
		jsonBody(dto.ChangePasswordRequest{OldPassword: "bad", NewPassword: "NewPass123"}), true, h.ChangePassword)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := detailFields(parseResponse(w)); len(got) != 1 || got[0] != "old_password" {
		t.Errorf("字段列表错误: %v", got)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{meResult: &dto.UserResponse{ID: "u1"}})
	w := serve("GET", "/auth/me", "/auth/me", nil, false, h.Me)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Notification / Monitoring / User Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_Broadcast(t *testing.T) {
	mock := &mockNotificationService{result: &dto.BroadcastResponse{SentTo: 3, FailedFor: 1}}
	h := NewNotificationHandler(mock)

	w := serve("POST", "/broadcast", "/broadcast", jsonBody(dto.BroadcastRequest{Title: "安全提醒", Body: "请佩戴护目镜"}), true, h.Broadcast)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.BroadcastResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.SentTo != 3 || body.Data.FailedFor != 1 {
		t.Errorf("响应体错误: %+v", body.Data)
	}
	if mock.createdBy != "test-user-id" {
		t.Errorf("createdBy 应取自 JWT，实际 %q", mock.createdBy)
	}

	w = serve("POST", "/broadcast", "/broadcast", jsonBody(map[string]string{"title": "t"}), true, h.Broadcast)
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 body 期望 400，实际 %d", w.Code)
	}
}

func TestMonitoringHandler_CreateAlert(t *testing.T) {
	mock := &mockMonitoringService{alert: &model.MachineAlert{AlertID: "al1", AlertType: "Normal"}}
	h := NewMonitoringHandler(mock)

	w := serve("POST", "/postAlert", "/postAlert", jsonBody(map[string]interface{}{
		"machineName":      "液压泵 P-3",
		"machine_location": "2 号车间",
	}), false, h.CreateAlert)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w = serve("POST", "/postAlert", "/postAlert", jsonBody(map[string]interface{}{
		"machineName":                 "液压泵 P-3",
		"machine_location":            "2 号车间",
		"machine_maintainance_status": "Unknown",
	}), false, h.CreateAlert)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := detailFields(parseResponse(w)); len(got) != 1 || got[0] != "machine_maintainance_status" {
		t.Errorf("字段列表错误: %v", got)
	}
}

func TestMonitoringHandler_ListAlerts_Filter(t *testing.T) {
	mock := &mockMonitoringService{alerts: []model.MachineAlert{{AlertID: "al1"}}}
	h := NewMonitoringHandler(mock)

	w := serve("GET", "/getAlerts", "/getAlerts?status=Resolved&page=2", nil, false, h.ListAlerts)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastList.Status != model.MaintenanceStatusResolved || mock.lastList.GetPage() != 2 {
		t.Errorf("查询参数未绑定: %+v", mock.lastList)
	}
}

func TestMonitoringHandler_InvalidTimeRange(t *testing.T) {
	h := NewMonitoringHandler(&mockMonitoringService{err: service.ErrInvalidTimeRange})

	w := serve("POST", "/machines", "/machines", jsonBody(map[string]interface{}{
		"machineName":      "传送带 C-1",
		"machine_location": "装配线",
		"start_time":       "2026-03-10T10:00:00Z",
		"end_time":         "2026-03-10T09:00:00Z",
	}), false, h.CreateMonitoredMachine)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 18002 {
		t.Errorf("expected code 18002, got %d", resp.Code)
	}
	if got := detailFields(resp); len(got) != 1 || got[0] != "end_time" {
		t.Errorf("字段列表错误: %v", got)
	}
}

func TestUserHandler_UpsertDevice(t *testing.T) {
	mock := &mockUserService{upsertResult: &dto.UpsertDeviceResponse{Exists: true}}
	h := NewUserHandler(mock)

	w := serve("POST", "/upsert-user", "/upsert-user", jsonBody(dto.UpsertDeviceRequest{Email: "a@test.com", FCMToken: "tok"}), false, h.UpsertDevice)
	if w.Code != http.StatusOK {
		t.Errorf("已存在用户期望 200，实际 %d", w.Code)
	}

	mock.upsertResult = &dto.UpsertDeviceResponse{Exists: false}
	w = serve("POST", "/upsert-user", "/upsert-user", jsonBody(dto.UpsertDeviceRequest{Email: "b@test.com", FCMToken: "tok", FullName: "新学员", Password: "Passw0rd!"}), false, h.UpsertDevice)
	if w.Code != http.StatusCreated {
		t.Errorf("新用户期望 201，实际 %d", w.Code)
	}

	mock.upsertErr = service.ErrNewUserIncomplete
	w = serve("POST", "/upsert-user", "/upsert-user", jsonBody(dto.UpsertDeviceRequest{Email: "c@test.com"}), false, h.UpsertDevice)
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少姓名密码期望 400，实际 %d", w.Code)
	}
	if got := strings.Join(detailFields(parseResponse(w)), ","); got != "full_name,password" {
		t.Errorf("字段列表错误: %s", got)
	}
}

func TestUserHandler_UpsertDevice_LegacyBody(t *testing.T) {
	mock := &mockUserService{upsertResult: &dto.UpsertDeviceResponse{Exists: false}}
	h := NewUserHandler(mock)

	body := `{"firstname":"Ravi","lastname":"K","role":"trainer","email":"r@x.io","password":"secret123","verified":true,"FCM_TOKEN":"tok"}`
	w := serve("POST", "/upsert-user", "/upsert-user", strings.NewReader(body), false, h.UpsertDevice)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	req := mock.lastUpsert
	if req == nil {
		t.Fatal("请求未到达 service")
	}
	if req.DisplayName() != "Ravi K" || req.Role != "trainer" || req.FCMToken != "tok" {
		t.Errorf("旧字段未正确绑定: %+v", req)
	}
	if req.Verified == nil || !*req.Verified {
		t.Error("verified 未绑定")
	}

	w = serve("POST", "/upsert-user", "/upsert-user", strings.NewReader(`{"email":"r@x.io","role":"owner"}`), false, h.UpsertDevice)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法角色期望 400，实际 %d", w.Code)
	}
	if got := detailFields(parseResponse(w)); len(got) != 1 || got[0] != "role" {
		t.Errorf("字段列表错误: %v", got)
	}
}

func TestUserHandler_ImportUsers_MissingFile(t *testing.T) {
	h := NewUserHandler(&mockUserService{})
	w := serve("POST", "/users/import", "/users/import", nil, true, h.ImportUsers)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("fake-xlsx"), filename: "培训进度_a1.xlsx"}
	h := NewExportHandler(mock)

	w := serve("GET", "/export/assignments/:id", "/export/assignments/a1", nil, true, h.ExportAssignmentReport)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "filename*=UTF-8''") {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
	if w.Body.String() != "fake-xlsx" {
		t.Errorf("响应体错误: %s", w.Body.String())
	}
}

func TestExportHandler_NotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrAssignmentNotFound})
	w := serve("GET", "/export/assignments/:id", "/export/assignments/a1", nil, true, h.ExportAssignmentReport)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
