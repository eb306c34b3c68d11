// internal/server/server.go
package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/orderdesk/internal/menu"
	"github.com/user/orderdesk/internal/orderstore"
	"github.com/user/orderdesk/internal/types"
	"github.com/user/orderdesk/internal/usage"
)

// TurnProcessor handles one inbound conversation turn.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, turn types.ConversationTurn) types.AssistantReply
}

// Options configures the HTTP server's collaborators and static info.
type Options struct {
	Gateway       TurnProcessor
	Store         *orderstore.Store
	Meter         *usage.Meter
	Menu          *menu.Provider
	AdminPassword string
	UPIID         string
	ShopName      string
	CORSOrigins   []string
}

// Server is the inbound HTTP surface for the order-taking backend.
type Server struct {
	opts   Options
	router *gin.Engine
}

// New creates a Server with all routes registered.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.CORSOrigins))

	s := &Server{opts: opts, router: router}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.GET("/menu", s.handleMenu)
	router.POST("/chat", s.handleChat)
	router.POST("/order/save", s.handleOrderSave)
	router.GET("/admin/stats", s.handleAdminStats)
	router.GET("/upi", s.handleUPI)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the server on addr and shuts down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("http server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": s.opts.ShopName + " order desk"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
}

func (s *Server) handleMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"menu": s.opts.Menu.Text()})
}

func (s *Server) handleChat(c *gin.Context) {
	var turn types.ConversationTurn
	if err := c.ShouldBindJSON(&turn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	if turn.SessionID == "" || turn.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and message are required"})
		return
	}

	reply := s.opts.Gateway.ProcessTurn(c.Request.Context(), turn)
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleOrderSave(c *gin.Context) {
	var order types.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	if !orderstore.ValidSessionID(order.SessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}
	if len(order.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
		return
	}

	// The server owns the timestamp; client-supplied values are ignored.
	order.Timestamp = time.Now().Format(time.RFC3339)

	if _, err := s.opts.Store.Save(order); err != nil {
		slog.Error("order save failed", "session_id", order.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "session_id": order.SessionID})
}

func (s *Server) handleAdminStats(c *gin.Context) {
	password := c.Query("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.opts.AdminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, s.opts.Meter.Snapshot())
}

func (s *Server) handleUPI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"upi_id": s.opts.UPIID, "shop_name": s.opts.ShopName})
}

// corsMiddleware allows browser clients from the configured origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
