package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/export"
	"github.com/recruitflow/recruiter/internal/recruiting"
)

type submissionResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	FitScore  int    `json:"fit_score"`
	BestMatch string `json:"best_match"`
	Message   string `json:"message"`
}

func (h *handler) submitApplication(c *gin.Context) {
	resume, err := h.readResume(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), recruiting.Submission{
		FullName:    c.PostForm("full_name"),
		Email:       c.PostForm("email"),
		CoverLetter: c.PostForm("cover_letter"),
		Resume:      resume,
	})
	switch {
	case errors.Is(err, recruiting.ErrInvalidSubmission):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, recruiting.ErrDuplicateApplication):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.internalError(c, "submit application", err)
		return
	}

	c.JSON(http.StatusCreated, submissionResponse{
		ID:        app.ID,
		Status:    string(app.Status),
		FitScore:  app.Evaluation.FitScore,
		BestMatch: app.Evaluation.BestMatch,
		Message:   "Postulación recibida. El equipo de selección revisará tu perfil.",
	})
}

func (h *handler) readResume(c *gin.Context) (ai.Document, error) {
	header, err := c.FormFile("resume")
	if err != nil {
		return ai.Document{}, errors.New("resume file is required")
	}
	if header.Size > h.maxResumeBytes {
		return ai.Document{}, fmt.Errorf("resume exceeds %d bytes", h.maxResumeBytes)
	}

	file, err := header.Open()
	if err != nil {
		return ai.Document{}, fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxResumeBytes+1))
	if err != nil {
		return ai.Document{}, fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > h.maxResumeBytes {
		return ai.Document{}, fmt.Errorf("resume exceeds %d bytes", h.maxResumeBytes)
	}

	mime := strings.TrimSpace(header.Header.Get("Content-Type"))
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	return ai.Document{Filename: header.Filename, MIMEType: mime, Data: data}, nil
}

func (h *handler) listApplications(c *gin.Context) {
	status, err := recruiting.ParseStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apps, err := h.applications.List(c.Request.Context(), status)
	if err != nil {
		h.internalError(c, "list applications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

func (h *handler) exportApplications(c *gin.Context) {
	status, err := recruiting.ParseStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apps, err := h.applications.List(c.Request.Context(), status)
	if err != nil {
		h.internalError(c, "list applications", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteApplications(&buf, apps); err != nil {
		h.internalError(c, "export applications", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="postulaciones.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *handler) reevaluateApplication(c *gin.Context) {
	app, err := h.applications.Reevaluate(c.Request.Context(), c.Param("id"), actor(c))
	if errors.Is(err, recruiting.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.internalError(c, "reevaluate application", err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *handler) setApplicationStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.applications.SetStatus(c.Request.Context(), c.Param("id"), recruiting.Status(req.Status), actor(c))
	switch {
	case errors.Is(err, recruiting.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, recruiting.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.internalError(c, "set application status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *handler) internalError(c *gin.Context, operation string, err error) {
	_ = c.Error(err)
	h.logger.Error(operation+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
