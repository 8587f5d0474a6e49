package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalogserver/database"
	"catalogserver/importer"
)

// ImportResponse ответ на загрузку файла импорта.
type ImportResponse struct {
	RunID    string                  `json:"run_id"`
	Summary  *importer.ImportSummary `json:"summary"`
	Inserted int                     `json:"inserted"`
	Updated  int                     `json:"updated"`
}

// handleImportUpload принимает файл каталога поставщика, прогоняет его
// через конвейер импорта и сохраняет принятые товары.
// POST /api/import (multipart/form-data, поле "file", опционально "format")
func (s *Server) handleImportUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > s.config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "file exceeds upload size limit",
			"limit": s.config.MaxUploadBytes,
		})
		return
	}

	// Формат можно задать явно полем формы, иначе он определяется по
	// имени файла и MIME-типу. Неподдерживаемый формат отклоняет весь
	// импорт сразу, без частичного результата.
	hint := importer.FormatHint(c.PostForm("format"))
	if hint == "" {
		hint, err = importer.DetectFormatHint(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	pipeline := importer.NewPipeline(importer.Options{MaxRecords: s.config.MaxImportRecords})
	products, summary, err := pipeline.Run(data, hint)
	if err != nil {
		if errors.Is(err, importer.ErrMalformedInput) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "summary": summary})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	inserted, updated, err := s.db.SaveProducts(products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist products: " + err.Error()})
		return
	}

	runID := uuid.New().String()
	if err := s.db.SaveImportRun(runID, fileHeader.Filename, summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist import run: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		RunID:    runID,
		Summary:  summary,
		Inserted: inserted,
		Updated:  updated,
	})
}

// handleListImportRuns возвращает историю прогонов импорта.
// GET /api/imports
func (s *Server) handleListImportRuns(c *gin.Context) {
	runs, err := s.db.ListImportRuns(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []database.ImportRun{}
	}
	c.JSON(http.StatusOK, gin.H{"imports": runs})
}

// handleGetImportRun возвращает сводку одного прогона.
// GET /api/imports/:id
func (s *Server) handleGetImportRun(c *gin.Context) {
	run, err := s.db.GetImportRun(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}
