// Package seed 通过业务服务写入一套演示数据（中心、设备、课程、学员与报名）
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
)

// ErrAlreadySeeded 库中已有用户时拒绝写入，避免覆盖真实数据
var ErrAlreadySeeded = errors.New("数据库已有用户，跳过演示数据写入")

// DefaultPassword 演示账号统一密码
const DefaultPassword = "Password@123"

// Result 各类数据写入条数
type Result struct {
	Users       int
	Centers     int
	Machines    int
	Courses     int
	Assignments int
}

// Seeder 只依赖服务层，校验与审计规则与线上请求一致
type Seeder struct {
	svc    *service.Service
	logger *zap.Logger
}

// New 创建 Seeder
func New(svc *service.Service, logger *zap.Logger) *Seeder {
	return &Seeder{svc: svc, logger: logger}
}

type centerSeed struct {
	key string
	req dto.CreateCenterRequest
}

type machineSeed struct {
	center string
	req    dto.CreateMachineRequest
}

type courseSeed struct {
	key     string
	centers []string
	req     dto.CreateCourseRequest
}

type userSeed struct {
	key string
	req dto.CreateUserRequest
}

type enrollSeed struct {
	user    string
	course  string
	centers []string
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

var centers = []centerSeed{
	{key: "malviya", req: dto.CreateCenterRequest{
		Name:            "Malviya Nagar Training Center",
		Address:         "Shop 12, Industrial Area, Malviya Nagar",
		City:            "Jaipur",
		State:           "Rajasthan",
		Pincode:         "302017",
		ContactNumber:   "+91-141-2345678",
		ContactEmail:    "malviya@surakshaschakra.com",
		Specializations: []string{"CNC", "Welding"},
	}},
	{key: "vaishali", req: dto.CreateCenterRequest{
		Name:            "Vaishali Nagar Training Hub",
		Address:         "Plot 45, Vaishali Nagar",
		City:            "Jaipur",
		State:           "Rajasthan",
		Pincode:         "302021",
		ContactNumber:   "+91-141-2345679",
		ContactEmail:    "vaishali@surakshaschakra.com",
		Specializations: []string{"CNC", "Pumps"},
	}},
	{key: "banipark", req: dto.CreateCenterRequest{
		Name:            "Bani Park Training Facility",
		Address:         "Street 5, Bani Park",
		City:            "Jaipur",
		State:           "Rajasthan",
		Pincode:         "302006",
		ContactNumber:   "+91-141-2345680",
		ContactEmail:    "banipark@surakshaschakra.com",
		Specializations: []string{"Welding", "Pumps"},
	}},
}

var machines = []machineSeed{
	{center: "malviya", req: dto.CreateMachineRequest{Name: "CNC Lathe Pro", Type: "CNC Lathe", ModelNumber: "CL-3000", Manufacturer: "Haas Automation", Year: intPtr(2022)}},
	{center: "vaishali", req: dto.CreateMachineRequest{Name: "Heavy Lathe XL", Type: "Heavy Lathe", ModelNumber: "HL-5000", Manufacturer: "DMG Mori", Year: intPtr(2021)}},
	{center: "malviya", req: dto.CreateMachineRequest{Name: "TIG Welder Professional", Type: "TIG Welder", ModelNumber: "TW-200", Manufacturer: "Lincoln Electric", Year: intPtr(2023)}},
	{center: "banipark", req: dto.CreateMachineRequest{Name: "Centrifugal Pump Station", Type: "Centrifugal Pump", ModelNumber: "CP-500", Manufacturer: "Grundfos", Year: intPtr(2022)}},
}

var courses = []courseSeed{
	{key: "cnc", centers: []string{"malviya", "vaishali"}, req: dto.CreateCourseRequest{
		ModuleName: "CNC Lathe Operations", MachineType: "CNC Lathe", Category: strPtr("CNC"),
		TotalHoursRequired: 10, Level: "Intermediate",
		CertificationName: strPtr("CNC Lathe Operator - Level 2"), Price: 5000, Currency: "INR", IconName: strPtr("cog"),
	}},
	{key: "heavy", centers: []string{"vaishali"}, req: dto.CreateCourseRequest{
		ModuleName: "Heavy Lathe Mastery", MachineType: "Heavy Lathe", Category: strPtr("CNC"),
		TotalHoursRequired: 15, Level: "Advanced",
		CertificationName: strPtr("Heavy Lathe Operator - Level 3"), Price: 7500, Currency: "INR", IconName: strPtr("settings"),
	}},
	{key: "tig", centers: []string{"malviya", "banipark"}, req: dto.CreateCourseRequest{
		ModuleName: "TIG Welding Fundamentals", MachineType: "TIG Welder", Category: strPtr("Welding"),
		TotalHoursRequired: 12, Level: "Beginner",
		CertificationName: strPtr("TIG Welder - Level 1"), Price: 4500, Currency: "INR", IconName: strPtr("flame"),
	}},
	{key: "pump", centers: []string{"banipark"}, req: dto.CreateCourseRequest{
		ModuleName: "Pump Maintenance & Operations", MachineType: "Centrifugal Pump", Category: strPtr("Pumps"),
		TotalHoursRequired: 8, Level: "Intermediate",
		CertificationName: strPtr("Pump Operator - Level 2"), Price: 3500, Currency: "INR", IconName: strPtr("droplet"),
	}},
}

var users = []userSeed{
	{key: "rahul", req: dto.CreateUserRequest{Email: "rahul.kumar@example.com", FullName: "Rahul Kumar", Phone: "+91-9876543210", Role: "trainee"}},
	{key: "priya", req: dto.CreateUserRequest{Email: "priya.sharma@example.com", FullName: "Priya Sharma", Phone: "+91-9876543211", Role: "trainee"}},
	{key: "amit", req: dto.CreateUserRequest{Email: "amit.patel@example.com", FullName: "Amit Patel", Phone: "+91-9876543212", Role: "trainer"}},
	{key: "admin", req: dto.CreateUserRequest{Email: "admin@surakshaschakra.com", FullName: "Admin User", Phone: "+91-9876543213", Role: "admin"}},
}

var enrollments = []enrollSeed{
	{user: "rahul", course: "cnc", centers: []string{"malviya"}},
	{user: "rahul", course: "tig"},
	{user: "priya", course: "pump", centers: []string{"banipark"}},
}

// Run 写入演示数据；任一步失败即返回，已写入部分不回滚
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	_, total, err := s.svc.User.List(ctx, &dto.UserListRequest{})
	if err != nil {
		return nil, fmt.Errorf("检查现有用户失败: %w", err)
	}
	if total > 0 {
		return nil, ErrAlreadySeeded
	}

	res := &Result{}
	centerIDs := make(map[string]string, len(centers))
	for _, c := range centers {
		req := c.req
		center, err := s.svc.Center.Create(ctx, &req)
		if err != nil {
			return res, fmt.Errorf("创建中心 %s 失败: %w", c.req.Name, err)
		}
		centerIDs[c.key] = center.CenterID
		res.Centers++
	}

	for _, m := range machines {
		req := m.req
		req.CenterID = centerIDs[m.center]
		if _, err := s.svc.Machine.Create(ctx, &req); err != nil {
			return res, fmt.Errorf("创建设备 %s 失败: %w", m.req.Name, err)
		}
		res.Machines++
	}

	courseIDs := make(map[string]string, len(courses))
	for _, c := range courses {
		req := c.req
		req.CenterIDs = resolve(centerIDs, c.centers)
		course, err := s.svc.Course.Create(ctx, &req)
		if err != nil {
			return res, fmt.Errorf("创建课程 %s 失败: %w", c.req.ModuleName, err)
		}
		courseIDs[c.key] = course.ModuleID
		res.Courses++
	}

	userIDs := make(map[string]string, len(users))
	for _, u := range users {
		req := u.req
		req.Password = DefaultPassword
		user, err := s.svc.User.Create(ctx, &req)
		if err != nil {
			return res, fmt.Errorf("创建用户 %s 失败: %w", u.req.Email, err)
		}
		userIDs[u.key] = user.ID
		res.Users++
	}

	for _, e := range enrollments {
		req := &dto.EnrollRequest{
			UserID:    userIDs[e.user],
			ModuleID:  courseIDs[e.course],
			CenterIDs: resolve(centerIDs, e.centers),
		}
		if _, err := s.svc.Assignment.Enroll(ctx, req, userIDs["admin"]); err != nil {
			return res, fmt.Errorf("报名 %s/%s 失败: %w", e.user, e.course, err)
		}
		res.Assignments++
	}

	s.logger.Info("演示数据写入完成",
		zap.Int("users", res.Users),
		zap.Int("centers", res.Centers),
		zap.Int("machines", res.Machines),
		zap.Int("courses", res.Courses),
		zap.Int("assignments", res.Assignments),
	)
	return res, nil
}

func resolve(ids map[string]string, keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, ids[k])
	}
	return out
}
