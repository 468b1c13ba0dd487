package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound      = pkgerrors.New(pkgerrors.KindNotFound, "用户不存在")
	ErrEmailExists       = pkgerrors.New(pkgerrors.KindConflict, "邮箱已被注册")
	ErrNewUserIncomplete = pkgerrors.Validation("新用户必须提供姓名与密码", "full_name", "password")
	ErrAdminSelfRegister = pkgerrors.Validation("设备登记不能创建管理员账号", "role")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
	// UpsertDevice 已存在的邮箱仅更新推送 Token，否则创建新学员
	UpsertDevice(ctx context.Context, req *dto.UpsertDeviceRequest) (*dto.UpsertDeviceResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUsersResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row      int
	FullName string
	Email    string
	Phone    string
	Role     string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if err = notFoundOr(err, nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleTrainee
	}
	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		PhotoURL:     req.PhotoURL,
		Status:       model.UserStatusActive,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.String("email", email), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	s.logger.Info("创建用户", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return toUserResponse(user), nil
}

// ────────────────────── Query ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Role:    req.Role,
		Status:  req.Status,
		Keyword: req.Keyword,
		Page:    toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	if req.Verified != nil {
		user.Verified = *req.Verified
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	return toUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return pkgerrors.Dependency(err)
	}
	return nil
}

// ────────────────────── UpsertDevice ──────────────────────

func (s *userService) UpsertDevice(ctx context.Context, req *dto.UpsertDeviceRequest) (*dto.UpsertDeviceResponse, error) {
	email := normalizeEmail(req.Email)
	var token *string
	if t := strings.TrimSpace(req.FCMToken); t != "" {
		token = &t
	}

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		if err := s.repo.User.UpdateFCMToken(ctx, user.UserID, token); err != nil {
			s.logger.Error("更新推送 Token 失败", zap.String("user_id", user.UserID), zap.Error(err))
			return nil, pkgerrors.Dependency(err)
		}
		user.FCMToken = token
		return &dto.UpsertDeviceResponse{Exists: true, User: *toUserResponse(user)}, nil
	}
	if err = notFoundOr(err, nil); err != nil {
		return nil, err
	}

	name := req.DisplayName()
	if name == "" || req.Password == "" {
		return nil, ErrNewUserIncomplete
	}
	role := model.RoleTrainee
	switch req.Role {
	case "":
	case model.RoleAdmin:
		return nil, ErrAdminSelfRegister
	default:
		role = req.Role
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user = &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		Status:       model.UserStatusActive,
		FCMToken:     token,
	}
	if req.Verified != nil {
		user.Verified = *req.Verified
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.String("email", email), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	s.logger.Info("设备登记新用户", zap.String("user_id", user.UserID))
	return &dto.UpsertDeviceResponse{Exists: false, User: *toUserResponse(user)}, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = pkgerrors.Validation("Excel文件无数据行（第一行为表头）", "file")
	ErrImportTooManyRows = pkgerrors.Validation(fmt.Sprintf("数据行数超过上限 %d 行", maxImportRows), "file")
	ErrImportBadHeader   = pkgerrors.Validation("Excel表头缺少必要列（姓名/邮箱/电话）", "file")
	ErrImportBadFile     = pkgerrors.Validation("无法解析Excel文件", "file")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		s.logger.Debug("解析导入文件失败", zap.Error(err))
		return nil, ErrImportBadFile
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, ErrImportBadFile
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["full_name"] < 0 || colIndex["email"] < 0 || colIndex["phone"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:      i + 1,
			FullName: cell(row, "full_name"),
			Email:    cell(row, "email"),
			Phone:    cell(row, "phone"),
			Role:     strings.ToLower(cell(row, "role")),
		}

		// 跳过全空行
		if item.FullName == "" && item.Email == "" && item.Phone == "" && item.Role == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"full_name": -1,
		"email":     -1,
		"phone":     -1,
		"role":      -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "姓名", "full_name", "name":
			idx["full_name"] = i
		case "邮箱", "email":
			idx["email"] = i
		case "电话", "phone":
			idx["phone"] = i
		case "角色", "role":
			idx["role"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUsersResponse, error) {
	resp := &dto.ImportUsersResponse{Total: len(rows)}
	seen := make(map[string]bool, len(rows))

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row, Reason: reason})
	}

	for _, row := range rows {
		email := normalizeEmail(row.Email)
		if row.FullName == "" || email == "" || row.Phone == "" {
			fail(row.Row, "必填字段为空")
			continue
		}
		if !strings.Contains(email, "@") {
			fail(row.Row, fmt.Sprintf("邮箱格式错误: %s", row.Email))
			continue
		}
		role := row.Role
		switch role {
		case "":
			role = model.RoleTrainee
		case model.RoleTrainee, model.RoleTrainer, model.RoleAdmin:
		default:
			fail(row.Row, fmt.Sprintf("角色无效: %s", row.Role))
			continue
		}
		if seen[email] {
			fail(row.Row, fmt.Sprintf("文件内邮箱重复: %s", email))
			continue
		}
		seen[email] = true

		if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
			fail(row.Row, fmt.Sprintf("邮箱已存在: %s", email))
			continue
		}

		tempPassword, err := generateTempPassword(10)
		if err != nil {
			s.logger.Error("生成临时密码失败", zap.Error(err))
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}

		user := &model.User{
			Email:        email,
			PasswordHash: string(hash),
			FullName:     row.FullName,
			Phone:        row.Phone,
			Role:         role,
			Status:       model.UserStatusActive,
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			s.logger.Warn("导入用户失败", zap.Int("row", row.Row), zap.Error(err))
			fail(row.Row, "写入失败")
			continue
		}

		resp.Created++
		resp.Credentials = append(resp.Credentials, dto.ImportCredential{Email: email, TempPassword: tempPassword})
	}

	s.logger.Info("批量导入用户", zap.Int("total", resp.Total), zap.Int("created", resp.Created), zap.Int("failed", resp.Failed))
	return resp, nil
}

// generateTempPassword 生成临时密码，首位为字母、次位为数字
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"

	if length < 8 {
		length = 8
	}
	head, err := randomString(letters, 1)
	if err != nil {
		return "", err
	}
	second, err := randomString(digits, 1)
	if err != nil {
		return "", err
	}
	rest, err := randomString(letters+digits, length-2)
	if err != nil {
		return "", err
	}
	return head + second + rest, nil
}
