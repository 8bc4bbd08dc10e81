package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/knowledge"
	"github.com/recruitflow/recruiter/internal/recruiting"
)

// AdminHeader carries the identity of the admin performing a mutation.
const AdminHeader = "X-Admin-User"

const defaultMaxResumeBytes = 10 << 20

type ApplicationService interface {
	Submit(ctx context.Context, sub recruiting.Submission) (*recruiting.Application, error)
	Reevaluate(ctx context.Context, id, actor string) (*recruiting.Application, error)
	SetStatus(ctx context.Context, id string, status recruiting.Status, actor string) error
	List(ctx context.Context, status recruiting.Status) ([]recruiting.Application, error)
}

type KnowledgeService interface {
	Search(ctx context.Context, query string, filter knowledge.Filter, limit int) ([]knowledge.Match, error)
	ByCategory(ctx context.Context, category string) ([]knowledge.Item, error)
	ByPhase(ctx context.Context, phase int) ([]knowledge.Item, error)
	Create(ctx context.Context, item knowledge.Item, actor string) (knowledge.Item, error)
	Update(ctx context.Context, id string, update knowledge.Update, actor string) (knowledge.Item, error)
	Deactivate(ctx context.Context, id, actor string) error
	Delete(ctx context.Context, id, actor string) error
}

type Assistant interface {
	Ask(ctx context.Context, query string) (knowledge.Answer, error)
}

// Config wires the HTTP handlers to their services.
type Config struct {
	Applications   ApplicationService
	Knowledge      KnowledgeService
	Assistant      Assistant
	Logger         *zap.Logger
	MaxResumeBytes int64
}

type handler struct {
	applications   ApplicationService
	knowledge      KnowledgeService
	assistant      Assistant
	logger         *zap.Logger
	maxResumeBytes int64
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg Config) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxResume := cfg.MaxResumeBytes
	if maxResume <= 0 {
		maxResume = defaultMaxResumeBytes
	}

	h := &handler{
		applications:   cfg.Applications,
		knowledge:      cfg.Knowledge,
		assistant:      cfg.Assistant,
		logger:         log,
		maxResumeBytes: maxResume,
	}

	router := gin.New()
	router.MaxMultipartMemory = maxResume
	router.Use(gin.Recovery(), requestLogger(log))

	api := router.Group("/api")
	api.GET("/health", h.health)
	api.POST("/applications", h.submitApplication)
	api.POST("/assistant/query", h.askAssistant)
	api.GET("/knowledge/search", h.searchKnowledge)
	api.GET("/knowledge/categories/:category", h.knowledgeByCategory)
	api.GET("/knowledge/phases/:phase", h.knowledgeByPhase)

	admin := api.Group("/admin", requireAdmin())
	admin.POST("/knowledge", h.createKnowledge)
	admin.PUT("/knowledge/:id", h.updateKnowledge)
	admin.DELETE("/knowledge/:id", h.deleteKnowledge)
	admin.GET("/applications", h.listApplications)
	admin.GET("/applications/export", h.exportApplications)
	admin.POST("/applications/:id/reevaluate", h.reevaluateApplication)
	admin.PUT("/applications/:id/status", h.setApplicationStatus)

	return router
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
