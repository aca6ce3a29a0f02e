package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/model"
	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"
	applogger "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/pkg/logger"
)

// ── export errors ──

var (
	ErrExportNoSlots      = errors.New("timetable has no slots to export")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// ExportService renders one timetable as a spreadsheet or a calendar feed.
//
// Both formats are built from the same resolved, canonically ordered slots
// the timetable endpoint returns, and follow its visibility rules. Files are
// returned as a buffer plus a suggested file name; the handler sets headers.
type ExportService interface {
	// ExportTimetableExcel builds an .xlsx with a "Slots" list sheet and a
	// "Week" grid sheet (windows × days).
	ExportTimetableExcel(ctx context.Context, caller Caller, id string) (*bytes.Buffer, string, error)
	// ExportTimetableICS builds an iCalendar feed with one weekly event per
	// slot, anchored on the week containing now.
	ExportTimetableICS(ctx context.Context, caller Caller, id string, now time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	timetables TimetableService
	loc        *time.Location
	logger     *zap.Logger
}

// NewExportService creates an ExportService; loc is the campus timezone.
func NewExportService(timetables TimetableService, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{timetables: timetables, loc: loc, logger: logger}
}

func (s *exportService) load(ctx context.Context, caller Caller, id string) (*dto.TimetableResponse, error) {
	tt, err := s.timetables.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if len(tt.Slots) == 0 {
		return nil, ErrExportNoSlots
	}
	return tt, nil
}

// ═══════════════════════════════════════════════════════════
// Excel
// ═══════════════════════════════════════════════════════════
//
// Sheet "Slots": | Day | Start | End | Type | Title | Abbr. | Faculty | Room | Batch |
// Sheet "Week":  rows are the distinct windows, columns Monday ~ Sunday,
//                cells list the titles (with batch) scheduled there.

func (s *exportService) ExportTimetableExcel(ctx context.Context, caller Caller, id string) (*bytes.Buffer, string, error) {
	// 1. load resolved slots
	tt, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, "", err
	}
	slots := timetable.Canonicalize(tt.Slots)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	// 2. slot list
	const listSheet = "Slots"
	idx, _ := f.NewSheet(listSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Day", "Start", "End", "Type", "Title", "Abbr.", "Faculty", "Room", "Batch"}
	widths := []float64{12, 10, 10, 14, 32, 10, 24, 12, 10}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(listSheet, col, col, widths[i])
		f.SetCellValue(listSheet, cell(col, 1), h)
	}
	f.SetCellStyle(listSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetPanes(listSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, sl := range slots {
		row := i + 2
		values := []string{
			sl.DayOfWeek,
			timetable.Format12h(sl.StartTime),
			timetable.Format12h(sl.EndTime),
			sl.Type,
			sl.Title,
			sl.Abbreviation,
			sl.Faculty,
			sl.Room,
			sl.BatchName,
		}
		for c, v := range values {
			f.SetCellValue(listSheet, cell(colName(c), row), v)
		}
	}

	// 3. weekly grid
	const gridSheet = "Week"
	f.NewSheet(gridSheet)
	windows := timetable.Windows(slots)

	f.SetColWidth(gridSheet, "A", "A", 20)
	f.SetCellValue(gridSheet, "A1", "Time")
	for d, day := range model.Days {
		col := colName(d + 1)
		f.SetColWidth(gridSheet, col, col, 26)
		f.SetCellValue(gridSheet, cell(col, 1), day)
	}
	f.SetCellStyle(gridSheet, "A1", cell(colName(len(model.Days)), 1), headerStyle)

	cells := make(map[string][]string) // "window|day" → entries
	for _, sl := range slots {
		k := timetable.FormatWindow(timetable.Window{StartTime: sl.StartTime, EndTime: sl.EndTime}) + "|" + sl.DayOfWeek
		cells[k] = append(cells[k], gridEntry(sl))
	}
	for w, win := range windows {
		row := w + 2
		label := timetable.FormatWindow(win)
		f.SetCellValue(gridSheet, cell("A", row), label)
		for d, day := range model.Days {
			if entries, ok := cells[label+"|"+day]; ok {
				f.SetCellValue(gridSheet, cell(colName(d+1), row), strings.Join(entries, "\n"))
			}
		}
	}
	if len(windows) > 0 {
		f.SetCellStyle(gridSheet, "B2", cell(colName(len(model.Days)), len(windows)+1), wrapStyle)
	}

	// 4. write out
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		applogger.FromContext(ctx, s.logger).Error("write excel failed", zap.String("timetable_id", id), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, exportFilename(tt.Name, "xlsx"), nil
}

// gridEntry is the text of one slot inside a week grid cell.
func gridEntry(sl model.Slot) string {
	text := sl.Title
	if sl.Abbreviation != "" {
		text = sl.Abbreviation
	}
	if text == "" {
		text = sl.Type
	}
	if sl.BatchName != "" {
		text += " (" + sl.BatchName + ")"
	}
	if sl.Room != "" {
		text += " @ " + sl.Room
	}
	return text
}

// ═══════════════════════════════════════════════════════════
// iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTimetableICS(ctx context.Context, caller Caller, id string, now time.Time) (*bytes.Buffer, string, error) {
	tt, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//CampusSync//Timetable//EN")
	cal.SetXWRCalName(tt.Name)
	cal.SetXWRTimezone(s.loc.String())

	monday := weekStart(now.In(s.loc))
	stamp := now.UTC()

	for i, sl := range tt.Slots {
		start, okStart := slotTime(monday, sl.DayOfWeek, sl.StartTime)
		end, okEnd := slotTime(monday, sl.DayOfWeek, sl.EndTime)
		if !okStart || !okEnd {
			applogger.FromContext(ctx, s.logger).Warn("skip slot with unusable day or time",
				zap.String("timetable_id", id), zap.Int("index", i))
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%d@campus-sync", tt.ID, i))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(eventSummary(sl))
		if sl.Room != "" {
			event.SetLocation(sl.Room)
		}
		if desc := eventDescription(sl); desc != "" {
			event.SetDescription(desc)
		}
		event.AddRrule("FREQ=WEEKLY")
	}

	return bytes.NewBufferString(cal.Serialize()), exportFilename(tt.Name, "ics"), nil
}

// weekStart is 00:00 on the Monday of t's week, in t's location.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// slotTime places an HH:MM on the given weekday of the week starting at monday.
func slotTime(monday time.Time, day, hhmm string) (time.Time, bool) {
	rank := timetable.DayRank(day)
	if rank >= len(model.Days) || !timetable.ValidClock(hhmm) {
		return time.Time{}, false
	}
	mins := timetable.Minutes(hhmm)
	y, m, d := monday.AddDate(0, 0, rank).Date()
	return time.Date(y, m, d, mins/60, mins%60, 0, 0, monday.Location()), true
}

func eventSummary(sl model.Slot) string {
	title := sl.Title
	if title == "" && sl.Type != "" {
		title = strings.ToUpper(sl.Type[:1]) + sl.Type[1:]
	}
	if sl.BatchName != "" {
		title += " (" + sl.BatchName + ")"
	}
	return title
}

func eventDescription(sl model.Slot) string {
	var parts []string
	parts = append(parts, "Type: "+sl.Type)
	if sl.Faculty != "" {
		parts = append(parts, "Faculty: "+sl.Faculty)
	}
	if sl.Abbreviation != "" {
		parts = append(parts, "Code: "+sl.Abbreviation)
	}
	return strings.Join(parts, "\n")
}

// ── helpers ──

func exportFilename(name, ext string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if clean == "" {
		clean = "timetable"
	}
	return clean + "." + ext
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
