package service

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/JaganParida/Student-Attendance-Management-System-v2/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为课程的每周固定上课时段。
//
// 设计决策：
//   - DTSTART/DTEND 确定星期几与起止时间
//   - 课表按周循环，同一 (星期几, 起止时间) 的多个事件合并为一个时段
//   - LOCATION 映射为教室
//   - 缺失 DTEND 时默认课长 1 小时
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseCourseScheduleICS 解析 ICS 内容并转为 CourseSchedule 列表
func ParseCourseScheduleICS(reader io.Reader, courseID string, loc *time.Location) ([]model.CourseSchedule, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	type slotKey struct {
		DayOfWeek int
		StartTime string
		EndTime   string
	}
	slots := make(map[slotKey]string) // key → room

	for _, evt := range cal.Events() {
		dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			continue
		}
		dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
		if err != nil {
			dtEnd = dtStart.Add(time.Hour)
		}

		key := slotKey{
			DayOfWeek: goWeekdayToISO(dtStart.Weekday()),
			StartTime: dtStart.Format(timeLayout),
			EndTime:   dtEnd.Format(timeLayout),
		}

		room := ""
		if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
			room = strings.TrimSpace(p.Value)
		}
		// 同一时段重复出现时保留首个非空教室
		if existing, ok := slots[key]; !ok || (existing == "" && room != "") {
			slots[key] = room
		}
	}

	result := make([]model.CourseSchedule, 0, len(slots))
	for key, room := range slots {
		result = append(result, model.CourseSchedule{
			CourseID:  courseID,
			DayOfWeek: key.DayOfWeek,
			StartTime: key.StartTime,
			EndTime:   key.EndTime,
			Room:      room,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

// goWeekdayToISO 将 Go 的 time.Weekday (0=Sunday) 转为 ISO 8601 (1=Monday … 7=Sunday)
func goWeekdayToISO(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				return t.In(loc), nil
			}
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
				}
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
