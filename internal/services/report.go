package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/repos"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
)

// ReportService renders per-group attendance sheets for download.
type ReportService interface {
	AttendanceSheet(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) (*excelize.File, string, error)
}

type reportService struct {
	log            *logger.Logger
	groupRepo      repos.GroupRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewReportService(baseLog *logger.Logger, groupRepo repos.GroupRepo, enrollmentRepo repos.EnrollmentRepo) ReportService {
	return &reportService{
		log:            baseLog.With("service", "ReportService"),
		groupRepo:      groupRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// AttendanceSheet builds an xlsx workbook with one row per rostered student
// and their current absence, attendance and payment tallies. Returns the
// workbook and a suggested file name.
func (rs *reportService) AttendanceSheet(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) (*excelize.File, string, error) {
	group, err := rs.groupRepo.GetByID(ctx, nil, groupID)
	if err != nil {
		return nil, "", notFoundOr(err, "group")
	}
	if err := ensureGroupOwned(p, group); err != nil {
		return nil, "", err
	}
	students, err := rs.enrollmentRepo.ListByGroup(ctx, nil, groupID)
	if err != nil {
		return nil, "", apierr.Persistence(fmt.Errorf("list enrollments: %w", err))
	}

	f := excelize.NewFile()
	sheetName := "Attendance"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", apierr.Persistence(fmt.Errorf("create sheet: %w", err))
	}
	f.SetActiveSheet(index)

	headers := []string{"Student", "Phone", "Absences", "Attendances", "Attendance Paid", "Book Payments", "Last Attended"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, student := range students {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), student.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), student.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), len(student.Absences))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), len(student.Attendances))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), student.AttendanceTotalPaid)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), len(student.BookPayments))
		if len(student.Attendances) > 0 {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), student.Attendances[0].Format("2006-01-02 15:04"))
		}
	}

	fileName := fmt.Sprintf("attendance_%s.xlsx", group.Name)
	return f, fileName, nil
}
