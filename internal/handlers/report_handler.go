package handlers

import (
	"github.com/fogonims/stock-service/internal/httpapi"
	"github.com/fogonims/stock-service/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) SpendSummary(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	summary, err := h.reportService.SpendSummary(caller)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Spend summary retrieved", summary)
}

func (h *ReportHandler) RequestVolume(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	volume, err := h.reportService.RequestVolume(caller)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Request volume retrieved", volume)
}
