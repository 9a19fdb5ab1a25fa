package handler

import (
	"fmt"
	"time"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/export"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves the student balance table as downloadable files.
type ExportHandler struct {
	Exporter *export.Exporter
}

func NewExportHandler(e *export.Exporter) *ExportHandler {
	return &ExportHandler{Exporter: e}
}

// CSV streams the balance table as a CSV download.
func (h *ExportHandler) CSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"students_%s.csv\"",
		time.Now().Format("20060102")))

	if err := h.Exporter.WriteCSV(c.Writer); err != nil {
		util.ServerError(c, "export failed")
	}
}

// XLSX writes the balance table as a workbook download.
func (h *ExportHandler) XLSX(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"students_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := h.Exporter.WriteXLSX(c.Writer); err != nil {
		util.ServerError(c, "export failed")
	}
}
