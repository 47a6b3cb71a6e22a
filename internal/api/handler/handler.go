package handler

import "github.com/JaganParida/Student-Attendance-Management-System-v2/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Student    *StudentHandler
	Teacher    *TeacherHandler
	Attendance *AttendanceHandler
	Schedule   *ScheduleHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Student:    NewStudentHandler(svc.Student),
		Teacher:    NewTeacherHandler(svc.Teacher),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Export:     NewExportHandler(svc.Export),
	}
}
