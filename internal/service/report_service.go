package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/gigpay/internal/model"
)

const defaultBestClientsLimit = 2

type ReportStore interface {
	BestProfession(ctx context.Context, start, end time.Time) (*model.ProfessionEarnings, error)
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error)
}

type ExcelGenerator interface {
	Generate(report model.BestClientsReport) ([]byte, error)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ReportService answers the time-windowed aggregate queries over paid jobs.
type ReportService struct {
	store ReportStore
	excel ExcelGenerator
}

func NewReportService(store ReportStore, excel ExcelGenerator) *ReportService {
	return &ReportService{store: store, excel: excel}
}

func (s *ReportService) BestProfession(ctx context.Context, start, end time.Time) (*model.ProfessionEarnings, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	result, err := s.store.BestProfession(ctx, start, end)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportEmpty
		}
		return nil, err
	}
	return result, nil
}

func (s *ReportService) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultBestClientsLimit
	}

	clients, err := s.store.BestClients(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, ErrReportEmpty
	}
	for i := range clients {
		clients[i].FullName = clients[i].FirstName + " " + clients[i].LastName
	}
	return clients, nil
}

func (s *ReportService) ExportBestClients(ctx context.Context, start, end time.Time, limit int) (*ExportResult, error) {
	clients, err := s.BestClients(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(model.BestClientsReport{
		Start:   start,
		End:     end,
		Clients: clients,
	})
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("best-clients-%s-%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start must be before or equal to end", ErrInvalidInput)
	}
	return nil
}
