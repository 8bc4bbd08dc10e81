package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recruitflow/recruiter/internal/knowledge"
)

type knowledgeRequest struct {
	Category string   `json:"category" binding:"required"`
	Question string   `json:"question" binding:"required"`
	Answer   string   `json:"answer" binding:"required"`
	Keywords []string `json:"keywords"`
	Phase    *int     `json:"phase"`
}

func (h *handler) askAssistant(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Query)
	if errors.Is(err, knowledge.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.internalError(c, "assistant query", err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *handler) searchKnowledge(c *gin.Context) {
	filter := knowledge.Filter{Category: c.Query("category")}

	if raw := strings.TrimSpace(c.Query("phase")); raw != "" {
		phase, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phase must be an integer"})
			return
		}
		filter.Phase = &phase
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	matches, err := h.knowledge.Search(c.Request.Context(), c.Query("q"), filter, limit)
	if err != nil {
		h.internalError(c, "search knowledge", err)
		return
	}
	if matches == nil {
		matches = []knowledge.Match{}
	}

	c.JSON(http.StatusOK, gin.H{"results": matches, "count": len(matches)})
}

func (h *handler) knowledgeByCategory(c *gin.Context) {
	items, err := h.knowledge.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.internalError(c, "knowledge by category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *handler) knowledgeByPhase(c *gin.Context) {
	phase, err := strconv.Atoi(c.Param("phase"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phase must be an integer"})
		return
	}

	items, err := h.knowledge.ByPhase(c.Request.Context(), phase)
	if err != nil {
		h.internalError(c, "knowledge by phase", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *handler) createKnowledge(c *gin.Context) {
	var req knowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.knowledge.Create(c.Request.Context(), knowledge.Item{
		Category: req.Category,
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: req.Keywords,
		Phase:    req.Phase,
	}, actor(c))
	if err != nil {
		h.knowledgeWriteError(c, "create knowledge item", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *handler) updateKnowledge(c *gin.Context) {
	var update knowledge.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.knowledge.Update(c.Request.Context(), c.Param("id"), update, actor(c))
	if err != nil {
		h.knowledgeWriteError(c, "update knowledge item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteKnowledge soft-deletes by default; ?hard=true removes the row.
func (h *handler) deleteKnowledge(c *gin.Context) {
	id := c.Param("id")
	hard, _ := strconv.ParseBool(c.DefaultQuery("hard", "false"))

	var err error
	if hard {
		err = h.knowledge.Delete(c.Request.Context(), id, actor(c))
	} else {
		err = h.knowledge.Deactivate(c.Request.Context(), id, actor(c))
	}
	if err != nil {
		h.knowledgeWriteError(c, "delete knowledge item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": hard, "active": false})
}

func (h *handler) knowledgeWriteError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, knowledge.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, knowledge.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, knowledge.ErrReadOnly):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.internalError(c, operation, err)
	}
}
