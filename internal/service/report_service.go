package service

import "github.com/fogonims/stock-service/internal/domain"

type ReportRepository interface {
	SpendSummary() ([]*domain.ProductSpend, error)
	RequestVolume() (*domain.RequestVolume, error)
}

// ReportService exposes read-only projections; it never mutates anything.
type ReportService struct {
	reportRepo ReportRepository
}

func NewReportService(reportRepo ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

func (s *ReportService) SpendSummary(caller domain.Caller) ([]*domain.ProductSpend, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}
	return s.reportRepo.SpendSummary()
}

func (s *ReportService) RequestVolume(caller domain.Caller) (*domain.RequestVolume, error) {
	if !caller.IsManager() {
		return nil, domain.Forbidden("Manager role required")
	}
	return s.reportRepo.RequestVolume()
}
