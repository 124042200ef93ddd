package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trattoria/internal/agent"
	"trattoria/internal/menu"
	"trattoria/internal/monitoring"
	"trattoria/internal/providers"
	"trattoria/internal/session"
	"trattoria/internal/storage"
)

// Server is the HTTP front of the waiter service
type Server struct {
	Router      *gin.Engine
	sessions    *session.Manager
	catalog     *menu.Catalog
	monitor     *monitoring.Monitor
	transcripts *storage.TranscriptStore
}

// NewServer creates the server and wires all routes. The transcript store
// may be nil.
func NewServer(sessions *session.Manager, catalog *menu.Catalog, monitor *monitoring.Monitor, transcripts *storage.TranscriptStore) *Server {
	s := &Server{
		Router:      gin.Default(),
		sessions:    sessions,
		catalog:     catalog,
		monitor:     monitor,
		transcripts: transcripts,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Count()})
	})
	s.Router.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(s.monitor.Registry(), promhttp.HandlerOpts{}),
	))

	v1 := s.Router.Group("/api/v1")
	{
		v1.POST("/sessions", s.CreateSession)

		v1.GET("/menu", s.GetMenu)
		v1.GET("/menu/search", s.SearchMenu)

		auth := v1.Group("/sessions/:id", s.withSession)
		{
			auth.POST("/chat", s.Chat)
			auth.GET("/order", s.GetOrder)
			auth.POST("/order/confirm", s.ConfirmOrder)
			auth.POST("/order/send", s.SendOrder)
			auth.DELETE("/order", s.ClearOrder)
			auth.POST("/reset", s.ResetSession)
			auth.DELETE("", s.CloseSession)
		}
	}

	s.Router.GET("/ws/:id", s.withSession, s.ChatWebSocket)
}

// withSession verifies the bearer token and puts the session in the context
func (s *Server) withSession(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.Query("token")
	}
	sess, err := s.sessions.Resolve(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}
	if sess.ID != c.Param("id") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not match session"})
		return
	}
	c.Set("session", sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet("session").(*session.Session)
}

// CreateSession opens a new conversation and returns its greeting
func (s *Server) CreateSession(c *gin.Context) {
	sess, token, err := s.sessions.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.monitor.SetLiveSessions(s.sessions.Count())

	var greeting string
	_ = sess.Do(func(w *agent.Waiter) error {
		greeting = w.Greeting()
		return nil
	})

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"token":      token,
		"greeting":   greeting,
	})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Reply              string             `json:"reply"`
	OrderProbability   float64            `json:"order_probability"`
	IsOrderIntent      bool               `json:"is_order_intent"`
	NeedsClarification bool               `json:"needs_clarification"`
	Substitutes        []agent.Substitute `json:"substitutes,omitempty"`
	OrderTotal         float64            `json:"order_total"`
}

// Chat processes one customer message
func (s *Server) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := currentSession(c)
	resp, err := s.runChat(c, sess, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// runChat executes one turn under the session lock and records metrics and
// the transcript. Shared by the HTTP and WebSocket paths.
func (s *Server) runChat(c *gin.Context, sess *session.Session, message string) (*chatResponse, error) {
	var (
		reply    string
		analysis *agent.Analysis
		total    float64
		chatErr  error
	)

	start := time.Now()
	_ = sess.Do(func(w *agent.Waiter) error {
		reply, analysis, chatErr = w.Chat(c.Request.Context(), message)
		total = w.Order().Total()
		return nil
	})
	s.monitor.RecordTurnLatency(time.Since(start))

	if chatErr != nil {
		s.monitor.RecordTurn("error")
		return nil, chatErr
	}

	switch {
	case analysis.Blocked:
		s.monitor.RecordBlocked()
		s.monitor.RecordTurn("blocked")
	case analysis.NeedsClarification:
		s.monitor.RecordTurn("clarification")
		s.monitor.RecordClarification(string(analysis.Clarification))
	default:
		s.monitor.RecordTurn("reply")
	}

	if err := s.transcripts.Record(sess.ID, providers.RoleUser, message); err != nil {
		log.Printf("[api] transcript write failed: %v", err)
	}
	if err := s.transcripts.Record(sess.ID, providers.RoleAssistant, reply); err != nil {
		log.Printf("[api] transcript write failed: %v", err)
	}

	return &chatResponse{
		Reply:              reply,
		OrderProbability:   analysis.OrderProbability,
		IsOrderIntent:      analysis.IsOrderIntent,
		NeedsClarification: analysis.NeedsClarification,
		Substitutes:        analysis.Substitutes,
		OrderTotal:         total,
	}, nil
}

// GetOrder returns the running order
func (s *Server) GetOrder(c *gin.Context) {
	sess := currentSession(c)
	var payload gin.H
	_ = sess.Do(func(w *agent.Waiter) error {
		o := w.Order()
		payload = gin.H{
			"status":      o.Status(),
			"lines":       o.Lines(),
			"total":       o.Total(),
			"summary":     o.Summary(),
			"preferences": o.Preferences().Describe(),
		}
		return nil
	})
	c.JSON(http.StatusOK, payload)
}

// ConfirmOrder confirms the draft order
func (s *Server) ConfirmOrder(c *gin.Context) {
	sess := currentSession(c)
	var (
		message string
		err     error
	)
	_ = sess.Do(func(w *agent.Waiter) error {
		message, err = w.ConfirmOrder()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// SendOrder sends the confirmed order to the kitchen
func (s *Server) SendOrder(c *gin.Context) {
	sess := currentSession(c)
	var (
		ticket string
		total  float64
		err    error
	)
	_ = sess.Do(func(w *agent.Waiter) error {
		total = w.Order().Total()
		ticket, err = w.SendToKitchen()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	s.monitor.RecordOrderSent(total)
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// ClearOrder empties the order, keeping history and preferences
func (s *Server) ClearOrder(c *gin.Context) {
	sess := currentSession(c)
	_ = sess.Do(func(w *agent.Waiter) error {
		w.ClearOrder()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"message": "Order cleared"})
}

// ResetSession restarts the conversation
func (s *Server) ResetSession(c *gin.Context) {
	sess := currentSession(c)
	var greeting string
	_ = sess.Do(func(w *agent.Waiter) error {
		w.Reset()
		greeting = w.Greeting()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"greeting": greeting})
}

// CloseSession ends the session
func (s *Server) CloseSession(c *gin.Context) {
	sess := currentSession(c)
	s.sessions.Close(sess.ID)
	s.monitor.SetLiveSessions(s.sessions.Count())
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

// GetMenu returns the full menu grouped by section
func (s *Server) GetMenu(c *gin.Context) {
	sections := make(map[string][]menu.Item, len(s.catalog.Sections()))
	for _, section := range s.catalog.Sections() {
		sections[section] = s.catalog.ItemsBySection(section)
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant": s.catalog.RestaurantName(),
		"sections":   sections,
	})
}

// SearchMenu filters the menu by query parameters
func (s *Server) SearchMenu(c *gin.Context) {
	var f menu.Filters
	f.TextQuery = c.Query("q")
	f.Section = c.Query("section")
	f.Vegetarian = c.Query("vegetarian") == "true"
	f.Vegan = c.Query("vegan") == "true"
	if raw := c.Query("max_price"); raw != "" {
		if maxPrice, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MaxPrice = maxPrice
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": s.catalog.Search(f)})
}
