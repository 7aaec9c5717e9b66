package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
	"github.com/yourusername/trivia-catalog/internal/handler/helper"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

var exportHeaders = []string{"ID", "Question", "Answer", "Category", "Difficulty"}

// ExportQuestions выгружает все вопросы в CSV или Excel
// GET /api/questions/export?format=csv|xlsx
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	questions, categories, err := h.questionService.ExportQuestions(c.Request.Context())
	if err != nil {
		handleError(c, err, "")
		return
	}

	filename := fmt.Sprintf("trivia_questions_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, questions, categories, filename)
	default:
		h.exportCSV(c, questions, categories, filename)
	}
}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *QuestionHandler) exportCSV(c *gin.Context, questions []entity.Question, categories map[uint]string, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, q := range questions {
		writer.Write([]string{
			strconv.FormatUint(uint64(q.ID), 10),
			sanitizeForExcel(q.Question),
			sanitizeForExcel(q.Answer),
			sanitizeForExcel(categoryLabel(categories, q.Category)),
			strconv.Itoa(q.Difficulty),
		})
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, questions []entity.Question, categories map[uint]string, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Questions"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		h.logger.Error("failed to create xlsx stream writer", zap.Error(err))
		helper.AbortWithStatus(c, http.StatusInternalServerError, apperrors.MsgInternal)
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, title := range exportHeaders {
		headers[i] = title
	}
	if err := sw.SetRow("A1", headers); err != nil {
		h.logger.Error("failed to write xlsx headers", zap.Error(err))
	}

	for i, q := range questions {
		cell := fmt.Sprintf("A%d", i+2) // 1 строка: заголовки
		row := []interface{}{
			q.ID,
			sanitizeForExcel(q.Question),
			sanitizeForExcel(q.Answer),
			sanitizeForExcel(categoryLabel(categories, q.Category)),
			q.Difficulty,
		}
		if err := sw.SetRow(cell, row); err != nil {
			h.logger.Error("failed to write xlsx row", zap.Int("row", i+2), zap.Error(err))
		}
	}

	if err := sw.Flush(); err != nil {
		h.logger.Error("failed to flush xlsx", zap.Error(err))
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed to write xlsx response", zap.Error(err))
	}
}

// categoryLabel возвращает название категории; для висячей ссылки: ее id
func categoryLabel(categories map[uint]string, id uint) string {
	if label, ok := categories[id]; ok {
		return label
	}
	return strconv.FormatUint(uint64(id), 10)
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
