// HTTP surface for the whole pipeline: start/stop searches, browse jobs
// and the email queue, generate applications and send them.

package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kangichu/autojob/internal/apply"
	"github.com/kangichu/autojob/internal/config"
	"github.com/kangichu/autojob/internal/cv"
	"github.com/kangichu/autojob/internal/mailer"
	"github.com/kangichu/autojob/internal/search"
	"github.com/kangichu/autojob/internal/store"
)

const progressBacklog = 200

type Server struct {
	store *store.Store
	orch  *search.Orchestrator
	gen   *apply.Generator
	disp  *mailer.Dispatcher
	cfg   *config.Config

	mu         sync.Mutex
	progress   []string
	cvText     string
	experience string
	keywords   string
}

func NewServer(st *store.Store, orch *search.Orchestrator, gen *apply.Generator, disp *mailer.Dispatcher, cfg *config.Config) *Server {
	s := &Server{store: st, orch: orch, gen: gen, disp: disp, cfg: cfg}
	if cfg.CVPath != "" {
		s.loadCV(cfg.CVPath)
	}
	go s.drainProgress()
	return s
}

// drainProgress keeps a bounded backlog of progress lines for polling
// clients.
func (s *Server) drainProgress() {
	for line := range s.orch.Events() {
		s.mu.Lock()
		s.progress = append(s.progress, line)
		if len(s.progress) > progressBacklog {
			s.progress = s.progress[len(s.progress)-progressBacklog:]
		}
		s.mu.Unlock()
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/search/start", s.startSearch)
		api.POST("/search/stop", s.stopSearch)
		api.GET("/search/progress", s.searchProgress)

		api.GET("/jobs", s.listJobs)
		api.GET("/jobs/:id", s.getJob)
		api.DELETE("/jobs/:id", s.deleteJob)

		api.POST("/applications/generate", s.generateApplications)

		api.GET("/queue", s.listQueue)
		api.DELETE("/queue/:id", s.deleteTask)
		api.POST("/queue/send", s.sendQueue)

		api.POST("/cv", s.uploadCV)
		api.GET("/cv/keywords", s.cvKeywords)

		api.POST("/smtp/test", s.testSMTP)
	}

	return r
}

type startSearchRequest struct {
	Keywords string   `json:"keywords"`
	Location string   `json:"location"`
	Sites    []string `json:"sites"`
}

func (s *Server) startSearch(c *gin.Context) {
	var req startSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Location == "" {
		req.Location = s.cfg.Search.DefaultLocation
	}
	if len(req.Sites) == 0 {
		req.Sites = s.cfg.Search.Sites
	}

	s.mu.Lock()
	s.keywords = req.Keywords
	s.mu.Unlock()

	err := s.orch.Start(c.Request.Context(), req.Keywords, req.Location, req.Sites)
	switch {
	case errors.Is(err, search.ErrSearchRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
	}
}

func (s *Server) stopSearch(c *gin.Context) {
	s.orch.Stop()
	c.JSON(http.StatusOK, gin.H{"status": "stopping"})
}

func (s *Server) searchProgress(c *gin.Context) {
	s.mu.Lock()
	lines := make([]string, len(s.progress))
	copy(lines, s.progress)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"running": s.orch.Running(),
		"lines":   lines,
	})
}

func (s *Server) listJobs(c *gin.Context) {
	jobs, err := s.store.ListJobs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *Server) getJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := s.store.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) deleteJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.DeleteJob(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) generateApplications(c *gin.Context) {
	s.mu.Lock()
	experience := s.experience
	keywords := s.keywords
	s.mu.Unlock()

	queued, err := s.gen.Generate(c.Request.Context(),
		s.cfg.Templates.Subject, s.cfg.Templates.Body, experience, keywords)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": queued})
}

func (s *Server) listQueue(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type sendQueueRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}

// sendQueue sends the listed tasks, or every pending task when the list
// is empty.
func (s *Server) sendQueue(c *gin.Context) {
	var req sendQueueRequest
	// an empty or absent body means "send everything pending"
	_ = c.ShouldBindJSON(&req)

	ids := req.TaskIDs
	if len(ids) == 0 {
		var err error
		ids, err = s.store.PendingTaskIDs(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusOK, gin.H{"sent": 0, "failed": 0})
		return
	}

	settings := mailer.Settings{
		Host:       s.cfg.SMTP.Host,
		Port:       s.cfg.SMTP.Port,
		Email:      s.cfg.SMTP.Email,
		Password:   s.cfg.SMTP.Password,
		SenderName: s.cfg.SMTP.SenderName,
	}
	sent, failedCount, err := s.disp.Send(c.Request.Context(), settings, ids,
		s.cfg.Attachments.CV, s.cfg.Attachments.CoverLetter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent, "failed": failedCount})
}

type uploadCVRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) uploadCV(c *gin.Context) {
	var req uploadCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.loadCV(req.Path)

	s.mu.Lock()
	length := len(s.cvText)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"characters": length})
}

// cvKeywords extracts search keywords from the loaded CV and remembers
// them for application generation.
func (s *Server) cvKeywords(c *gin.Context) {
	s.mu.Lock()
	text := s.cvText
	s.mu.Unlock()

	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no CV loaded"})
		return
	}
	keywords := cv.TopKeywords(text, 10)

	s.mu.Lock()
	s.keywords = keywords
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (s *Server) testSMTP(c *gin.Context) {
	settings := mailer.Settings{
		Host:       s.cfg.SMTP.Host,
		Port:       s.cfg.SMTP.Port,
		Email:      s.cfg.SMTP.Email,
		Password:   s.cfg.SMTP.Password,
		SenderName: s.cfg.SMTP.SenderName,
	}
	if err := s.disp.TestConnection(settings); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) loadCV(path string) {
	text := cv.ExtractText(path)
	s.mu.Lock()
	s.cvText = text
	s.experience = cv.ExtractExperience(text)
	s.mu.Unlock()
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
