package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 测试数据容器 ──

type mockStore struct {
	seq int

	users        *mockUserRepo
	centers      *mockCenterRepo
	machines     *mockMachineRepo
	courses      *mockCourseRepo
	assignments  *mockAssignmentRepo
	sessions     *mockSessionRepo
	certificates *mockCertificateRepo
	alerts       *mockAlertRepo
	monitored    *mockMonitoredMachineRepo
	broadcasts   *mockBroadcastRepo
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// newMockRepository 组装不带数据库连接的 Repository，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *mockStore) {
	store := &mockStore{}
	store.users = &mockUserRepo{store: store, users: make(map[string]*model.User)}
	store.centers = &mockCenterRepo{store: store, centers: make(map[string]*model.TrainingCenter)}
	store.machines = &mockMachineRepo{store: store, machines: make(map[string]*model.TrainingMachine)}
	store.courses = &mockCourseRepo{store: store, courses: make(map[string]*model.CourseModule)}
	store.assignments = &mockAssignmentRepo{store: store, assignments: make(map[string]*model.UserTrainingAssignment)}
	store.sessions = &mockSessionRepo{store: store, sessions: make(map[string]*model.TrainingSession)}
	store.certificates = &mockCertificateRepo{store: store, certs: make(map[string]*model.Certificate)}
	store.alerts = &mockAlertRepo{store: store, alerts: make(map[string]*model.MachineAlert)}
	store.monitored = &mockMonitoredMachineRepo{store: store}
	store.broadcasts = &mockBroadcastRepo{store: store}

	repo := &repository.Repository{
		User:             store.users,
		Center:           store.centers,
		Machine:          store.machines,
		Course:           store.courses,
		Assignment:       store.assignments,
		Session:          store.sessions,
		Certificate:      store.certificates,
		Alert:            store.alerts,
		MonitoredMachine: store.monitored,
		Broadcast:        store.broadcasts,
	}
	return repo, store
}

func paginate[T any](list []T, page repository.Page) []T {
	if page.Limit <= 0 {
		return list
	}
	if page.Offset >= len(list) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Offset:end]
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	store *mockStore
	users map[string]*model.User
	err   error // 非空时所有调用返回该错误
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.UserID == "" {
		user.UserID = m.store.nextID("user")
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateFCMToken(_ context.Context, id string, token *string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FCMToken = token
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.FullName, filter.Keyword) && !strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

func (m *mockUserRepo) ListWithDeviceToken(_ context.Context) ([]model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.User
	for _, u := range m.users {
		if u.FCMToken != nil {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// ── Mock CenterRepository ──

type mockCenterRepo struct {
	store   *mockStore
	centers map[string]*model.TrainingCenter
}

func (m *mockCenterRepo) Create(_ context.Context, center *model.TrainingCenter) error {
	if center.CenterID == "" {
		center.CenterID = m.store.nextID("center")
	}
	m.centers[center.CenterID] = center
	return nil
}

func (m *mockCenterRepo) GetByID(_ context.Context, id string) (*model.TrainingCenter, error) {
	if c, ok := m.centers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCenterRepo) List(_ context.Context, filter repository.CenterFilter) ([]model.TrainingCenter, int64, error) {
	var all []model.TrainingCenter
	for _, c := range m.centers {
		if filter.City != "" && c.City != filter.City {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CenterID < all[j].CenterID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

func (m *mockCenterRepo) Update(_ context.Context, center *model.TrainingCenter) error {
	cp := *center
	m.centers[center.CenterID] = &cp
	return nil
}

func (m *mockCenterRepo) Delete(_ context.Context, id string) error {
	delete(m.centers, id)
	return nil
}

func (m *mockCenterRepo) CountMachines(_ context.Context, centerIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(centerIDs))
	for _, id := range centerIDs {
		for _, machine := range m.store.machines.machines {
			if machine.CenterID == id {
				result[id]++
			}
		}
	}
	return result, nil
}

// ── Mock MachineRepository ──

type mockMachineRepo struct {
	store    *mockStore
	machines map[string]*model.TrainingMachine
}

func (m *mockMachineRepo) Create(_ context.Context, machine *model.TrainingMachine) error {
	if machine.QRCode != nil {
		for _, existing := range m.machines {
			if existing.QRCode != nil && *existing.QRCode == *machine.QRCode {
				return repository.ErrDuplicate
			}
		}
	}
	if machine.MachineID == "" {
		machine.MachineID = m.store.nextID("machine")
	}
	m.machines[machine.MachineID] = machine
	return nil
}

func (m *mockMachineRepo) GetByID(_ context.Context, id string) (*model.TrainingMachine, error) {
	if machine, ok := m.machines[id]; ok {
		cp := *machine
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMachineRepo) List(_ context.Context, filter repository.MachineFilter) ([]model.TrainingMachine, int64, error) {
	var all []model.TrainingMachine
	for _, machine := range m.machines {
		if filter.CenterID != "" && machine.CenterID != filter.CenterID {
			continue
		}
		if filter.Status != "" && machine.Status != filter.Status {
			continue
		}
		if filter.Type != "" && machine.Type != filter.Type {
			continue
		}
		all = append(all, *machine)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MachineID < all[j].MachineID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

func (m *mockMachineRepo) Update(_ context.Context, machine *model.TrainingMachine) error {
	cp := *machine
	m.machines[machine.MachineID] = &cp
	return nil
}

func (m *mockMachineRepo) Delete(_ context.Context, id string) error {
	delete(m.machines, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	store   *mockStore
	courses map[string]*model.CourseModule
	centers []model.CourseCenter
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.CourseModule) error {
	if course.ModuleID == "" {
		course.ModuleID = m.store.nextID("course")
	}
	m.courses[course.ModuleID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.CourseModule, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.CourseModule, int64, error) {
	var all []model.CourseModule
	for _, c := range m.courses {
		if filter.Level != "" && c.Level != filter.Level {
			continue
		}
		if filter.MachineType != "" && c.MachineType != filter.MachineType {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ModuleID < all[j].ModuleID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.CourseModule) error {
	cp := *course
	m.courses[course.ModuleID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) AddCenter(_ context.Context, cc *model.CourseCenter) error {
	for _, existing := range m.centers {
		if existing.ModuleID == cc.ModuleID && existing.CenterID == cc.CenterID {
			return repository.ErrDuplicate
		}
	}
	cc.CourseCenterID = m.store.nextID("cc")
	m.centers = append(m.centers, *cc)
	return nil
}

func (m *mockCourseRepo) RemoveCenter(_ context.Context, moduleID, centerID string) (bool, error) {
	for i, cc := range m.centers {
		if cc.ModuleID == moduleID && cc.CenterID == centerID {
			m.centers = append(m.centers[:i], m.centers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) ListCenters(_ context.Context, moduleID string) ([]model.CourseCenter, error) {
	var result []model.CourseCenter
	for _, cc := range m.centers {
		if cc.ModuleID == moduleID {
			if center, ok := m.store.centers.centers[cc.CenterID]; ok {
				cc.Center = center
			}
			result = append(result, cc)
		}
	}
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	store       *mockStore
	assignments map[string]*model.UserTrainingAssignment
	access      []model.AssignmentCenterAccess
	createErr   error // 非 nil 时 Create 直接返回，模拟并发写入冲突
}

// load 返回副本并按仓储实现预加载课程与中心授权
func (m *mockAssignmentRepo) load(a *model.UserTrainingAssignment) model.UserTrainingAssignment {
	cp := *a
	if course, ok := m.store.courses.courses[a.ModuleID]; ok {
		c := *course
		cp.Module = &c
	}
	cp.CenterAccess = nil
	for _, access := range m.access {
		if access.AssignmentID == a.AssignmentID {
			cp.CenterAccess = append(cp.CenterAccess, access)
		}
	}
	return cp
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.UserTrainingAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if a.AssignmentID == "" {
		a.AssignmentID = m.store.nextID("assignment")
	}
	cp := *a
	m.assignments[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.UserTrainingAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		cp := m.load(a)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]model.UserTrainingAssignment, int64, error) {
	var all []model.UserTrainingAssignment
	for _, a := range m.assignments {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.ModuleID != "" && a.ModuleID != filter.ModuleID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		all = append(all, m.load(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AssignmentID < all[j].AssignmentID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

func (m *mockAssignmentRepo) ListByUser(ctx context.Context, userID string) ([]model.UserTrainingAssignment, error) {
	list, _, err := m.List(ctx, repository.AssignmentFilter{UserID: userID})
	return list, err
}

func (m *mockAssignmentRepo) ExistsActive(_ context.Context, userID, moduleID string) (bool, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.ModuleID == moduleID && a.Status == model.AssignmentStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) CountByModule(_ context.Context, moduleID string) (int64, error) {
	var n int64
	for _, a := range m.assignments {
		if a.ModuleID == moduleID {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id, from, to string, completedAt *time.Time) (bool, error) {
	a, ok := m.assignments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	a.CompletedAt = completedAt
	return true, nil
}

func (m *mockAssignmentRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, a := range m.assignments {
		if a.Status == model.AssignmentStatusActive && a.ExpiryDate.Before(now) {
			a.Status = model.AssignmentStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) AddCenterAccess(_ context.Context, access *model.AssignmentCenterAccess) error {
	for _, existing := range m.access {
		if existing.AssignmentID == access.AssignmentID && existing.CenterID == access.CenterID {
			return repository.ErrDuplicate
		}
	}
	access.AccessID = m.store.nextID("access")
	access.CreatedAt = time.Now()
	m.access = append(m.access, *access)
	return nil
}

func (m *mockAssignmentRepo) RemoveCenterAccess(_ context.Context, assignmentID, centerID string) (bool, error) {
	for i, access := range m.access {
		if access.AssignmentID == assignmentID && access.CenterID == centerID {
			m.access = append(m.access[:i], m.access[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) ListCenterAccess(_ context.Context, assignmentID string) ([]model.AssignmentCenterAccess, error) {
	var result []model.AssignmentCenterAccess
	for _, access := range m.access {
		if access.AssignmentID == assignmentID {
			if center, ok := m.store.centers.centers[access.CenterID]; ok {
				access.Center = center
			}
			result = append(result, access)
		}
	}
	return result, nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	store     *mockStore
	sessions  map[string]*model.TrainingSession
	createErr error // 非 nil 时 Create 直接返回，模拟并发签到在索引上落败
}

// Create 模拟部分唯一索引：每个用户仅一条进行中记录
func (m *mockSessionRepo) Create(_ context.Context, s *model.TrainingSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.sessions {
		if existing.UserID == s.UserID && existing.Status == model.SessionStatusInProgress {
			return repository.ErrDuplicate
		}
	}
	if s.SessionID == "" {
		s.SessionID = m.store.nextID("session")
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.TrainingSession, error) {
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) GetForUpdate(ctx context.Context, id string) (*model.TrainingSession, error) {
	return m.GetByID(ctx, id)
}

func (m *mockSessionRepo) GetActiveByUser(_ context.Context, userID string) (*model.TrainingSession, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && s.Status == model.SessionStatusInProgress {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) filter(match func(s *model.TrainingSession) bool) []model.TrainingSession {
	var result []model.TrainingSession
	for _, s := range m.sessions {
		if match(s) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckInTime.Before(result[j].CheckInTime) })
	return result
}

func (m *mockSessionRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.TrainingSession, error) {
	return m.filter(func(s *model.TrainingSession) bool { return s.AssignmentID == assignmentID }), nil
}

func (m *mockSessionRepo) ListByUser(_ context.Context, userID string) ([]model.TrainingSession, error) {
	return m.filter(func(s *model.TrainingSession) bool { return s.UserID == userID }), nil
}

func (m *mockSessionRepo) List(_ context.Context, f repository.SessionFilter) ([]model.TrainingSession, int64, error) {
	all := m.filter(func(s *model.TrainingSession) bool {
		return (f.UserID == "" || s.UserID == f.UserID) &&
			(f.AssignmentID == "" || s.AssignmentID == f.AssignmentID) &&
			(f.CenterID == "" || s.CenterID == f.CenterID) &&
			(f.Status == "" || s.Status == f.Status)
	})
	return paginate(all, f.Page), int64(len(all)), nil
}

func (m *mockSessionRepo) Close(_ context.Context, s *model.TrainingSession) error {
	stored, ok := m.sessions[s.SessionID]
	if !ok || stored.Status != model.SessionStatusInProgress {
		return pkgerrors.ErrOptimisticLock
	}
	stored.CheckOutTime = s.CheckOutTime
	stored.HoursCompleted = s.HoursCompleted
	stored.Status = s.Status
	stored.Notes = s.Notes
	stored.ClockSkew = s.ClockSkew
	return nil
}

func (m *mockSessionRepo) Review(_ context.Context, id, status, reviewerID string, at time.Time, rating *int) error {
	stored, ok := m.sessions[id]
	if !ok || stored.Status != model.SessionStatusCompleted {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = status
	stored.ApprovedBy = &reviewerID
	stored.ApprovedAt = &at
	if rating != nil {
		stored.Rating = rating
	}
	return nil
}

// ── Mock CertificateRepository ──

type mockCertificateRepo struct {
	store *mockStore
	certs map[string]*model.Certificate
}

func (m *mockCertificateRepo) Create(_ context.Context, cert *model.Certificate) error {
	for _, existing := range m.certs {
		if existing.AssignmentID == cert.AssignmentID || existing.VerificationCode == cert.VerificationCode {
			return repository.ErrDuplicate
		}
	}
	if cert.CertificateID == "" {
		cert.CertificateID = m.store.nextID("cert")
	}
	cp := *cert
	m.certs[cert.CertificateID] = &cp
	return nil
}

func (m *mockCertificateRepo) find(match func(c *model.Certificate) bool) (*model.Certificate, error) {
	for _, c := range m.certs {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCertificateRepo) GetByID(_ context.Context, id string) (*model.Certificate, error) {
	return m.find(func(c *model.Certificate) bool { return c.CertificateID == id })
}

func (m *mockCertificateRepo) GetByAssignment(_ context.Context, assignmentID string) (*model.Certificate, error) {
	return m.find(func(c *model.Certificate) bool { return c.AssignmentID == assignmentID })
}

func (m *mockCertificateRepo) GetByVerificationCode(_ context.Context, code string) (*model.Certificate, error) {
	return m.find(func(c *model.Certificate) bool { return c.VerificationCode == code })
}

func (m *mockCertificateRepo) ListByUser(_ context.Context, userID string) ([]model.Certificate, error) {
	var result []model.Certificate
	for _, c := range m.certs {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock AlertRepository / MonitoredMachineRepository ──

type mockAlertRepo struct {
	store  *mockStore
	alerts map[string]*model.MachineAlert
}

func (m *mockAlertRepo) Create(_ context.Context, alert *model.MachineAlert) error {
	alert.AlertID = m.store.nextID("alert")
	cp := *alert
	m.alerts[alert.AlertID] = &cp
	return nil
}

func (m *mockAlertRepo) GetByID(_ context.Context, id string) (*model.MachineAlert, error) {
	if a, ok := m.alerts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]model.MachineAlert, int64, error) {
	var all []model.MachineAlert
	for _, a := range m.alerts {
		if filter.MaintenanceStatus != "" && a.MachineMaintenanceStatus != filter.MaintenanceStatus {
			continue
		}
		if filter.AlertType != "" && a.AlertType != filter.AlertType {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AlertID < all[j].AlertID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

func (m *mockAlertRepo) Update(_ context.Context, alert *model.MachineAlert) error {
	cp := *alert
	m.alerts[alert.AlertID] = &cp
	return nil
}

type mockMonitoredMachineRepo struct {
	store    *mockStore
	machines []model.MonitoredMachine
}

func (m *mockMonitoredMachineRepo) Create(_ context.Context, machine *model.MonitoredMachine) error {
	machine.MonitoredMachineID = m.store.nextID("monitored")
	m.machines = append(m.machines, *machine)
	return nil
}

func (m *mockMonitoredMachineRepo) List(_ context.Context, page repository.Page) ([]model.MonitoredMachine, int64, error) {
	return paginate(m.machines, page), int64(len(m.machines)), nil
}

// ── Mock BroadcastRepository ──

type mockBroadcastRepo struct {
	store   *mockStore
	records []model.NotificationBroadcast
}

func (m *mockBroadcastRepo) Create(_ context.Context, b *model.NotificationBroadcast) error {
	b.BroadcastID = m.store.nextID("broadcast")
	m.records = append(m.records, *b)
	return nil
}

func (m *mockBroadcastRepo) List(_ context.Context, page repository.Page) ([]model.NotificationBroadcast, int64, error) {
	return paginate(m.records, page), int64(len(m.records)), nil
}

// ── 测试数据构造 ──

func seedUser(store *mockStore, email string) *model.User {
	user := &model.User{
		UserID:   store.nextID("user"),
		Email:    email,
		FullName: "测试学员",
		Role:     model.RoleTrainee,
		Status:   model.UserStatusActive,
	}
	store.users.users[user.UserID] = user
	return user
}

func seedCenter(store *mockStore) *model.TrainingCenter {
	center := &model.TrainingCenter{
		CenterID: store.nextID("center"),
		Name:     "浦那培训中心",
		City:     "Pune",
		Status:   model.StatusActive,
	}
	store.centers.centers[center.CenterID] = center
	return center
}

func seedMachine(store *mockStore, centerID, status string) *model.TrainingMachine {
	machine := &model.TrainingMachine{
		MachineID: store.nextID("machine"),
		Name:      "CNC 车床",
		Type:      "CNC",
		CenterID:  centerID,
		Status:    status,
	}
	store.machines.machines[machine.MachineID] = machine
	return machine
}

func seedCourse(store *mockStore, hours float64) *model.CourseModule {
	course := &model.CourseModule{
		ModuleID:           store.nextID("course"),
		ModuleName:         "CNC 基础操作",
		MachineType:        "CNC",
		TotalHoursRequired: hours,
		Level:              "Beginner",
		Status:             model.StatusActive,
	}
	store.courses.courses[course.ModuleID] = course
	return course
}

func seedAssignment(store *mockStore, userID, moduleID string, assigned, expiry time.Time) *model.UserTrainingAssignment {
	a := &model.UserTrainingAssignment{
		AssignmentID: store.nextID("assignment"),
		UserID:       userID,
		ModuleID:     moduleID,
		AssignedDate: assigned,
		ExpiryDate:   expiry,
		Status:       model.AssignmentStatusActive,
	}
	store.assignments.assignments[a.AssignmentID] = a
	return a
}

func seedSession(store *mockStore, a *model.UserTrainingAssignment, centerID, machineID string, in time.Time, hours float64) *model.TrainingSession {
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	s := &model.TrainingSession{
		SessionID:      store.nextID("session"),
		UserID:         a.UserID,
		AssignmentID:   a.AssignmentID,
		CenterID:       centerID,
		MachineID:      machineID,
		CheckInTime:    in,
		CheckOutTime:   &out,
		HoursCompleted: hours,
		Status:         model.SessionStatusCompleted,
	}
	store.sessions.sessions[s.SessionID] = s
	return s
}
