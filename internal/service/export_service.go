package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("该区间内没有考勤记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出某门课程在日期区间内的考勤矩阵为 Excel (.xlsx)
//   - 行为学生（学号 + 姓名），列为上课日期
//   - 单元格 P/A/L 对应出勤/缺勤/迟到，无记录为 "-"
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCourseAttendance 导出课程考勤矩阵为 Excel
	ExportCourseAttendance(ctx context.Context, courseID, startDate, endDate string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// statusLetter 考勤状态的单字母缩写
func statusLetter(status string) string {
	switch status {
	case "PRESENT":
		return "P"
	case "ABSENT":
		return "A"
	case "LATE":
		return "L"
	default:
		return "?"
	}
}

func (s *exportService) ExportCourseAttendance(ctx context.Context, courseID, startDate, endDate string) (*bytes.Buffer, string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, "", ErrDateInvalid
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, "", ErrDateInvalid
	}
	if end.Before(start) {
		return nil, "", ErrDateInvalid
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListByCourseAndDateRange(ctx, courseID, start, end)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 1. 构建索引: "studentID:date" → 状态缩写；同时收集学生与日期维度
	type studentRow struct {
		id, name, roll string
	}
	cellIndex := make(map[string]string)
	studentSeen := make(map[string]bool)
	dateSeen := make(map[string]bool)
	var students []studentRow
	var dates []string

	for i := range records {
		r := &records[i]
		day := r.Date.Format(dateLayout)
		cellIndex[r.StudentID+":"+day] = statusLetter(r.Status)

		if !studentSeen[r.StudentID] {
			studentSeen[r.StudentID] = true
			row := studentRow{id: r.StudentID}
			if r.Student != nil {
				row.name = r.Student.Name
				row.roll = r.Student.RollNumber
			}
			students = append(students, row)
		}
		if !dateSeen[day] {
			dateSeen[day] = true
			dates = append(dates, day)
		}
	}
	sort.Strings(dates)
	sort.Slice(students, func(i, j int) bool { return students[i].roll < students[j].roll })

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "考勤表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 18)
	for i := range dates {
		col, _ := excelize.ColumnNumberToName(3 + i)
		f.SetColWidth(sheetName, col, col, 12)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s) — 考勤表 %s ~ %s",
		course.CourseName, course.CourseCode, startDate, endDate))
	f.MergeCell(sheetName, "A1", cell(colName(1+len(dates)), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "学号")
	f.SetCellValue(sheetName, cell("B", row), "姓名")
	for i, day := range dates {
		f.SetCellValue(sheetName, cell(colName(2+i), row), day)
	}

	// 数据行
	row = 3
	for _, st := range students {
		f.SetCellValue(sheetName, cell("A", row), st.roll)
		f.SetCellValue(sheetName, cell("B", row), st.name)
		for i, day := range dates {
			if letter, ok := cellIndex[st.id+":"+day]; ok {
				f.SetCellValue(sheetName, cell(colName(2+i), row), letter)
			} else {
				f.SetCellValue(sheetName, cell(colName(2+i), row), "-")
			}
		}
		row++
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("考勤表_%s_%s_%s.xlsx", course.CourseCode, startDate, endDate)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
