package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"questpet/internal/engine"
	"questpet/internal/storage"
)

const healthDBTimeout = 2 * time.Second

type Server struct {
	svc         *engine.Service
	historyRepo *storage.HistoryRepo
	log         *zap.Logger
}

func NewServer(svc *engine.Service, db *sqlx.DB, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, log: logger}
	if db != nil {
		s.historyRepo = storage.NewHistoryRepo(db)
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), ginZap(s.log))
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)

		api.GET("/tasks", s.listTasks)
		api.POST("/tasks", s.createTask)
		api.GET("/tasks/:id", s.getTask)
		api.DELETE("/tasks/:id", s.deleteTask)
		api.POST("/tasks/:id/complete", s.completeTask)
		api.POST("/tasks/:id/fail", s.failTask)
		api.POST("/tasks/:id/skip", s.skipTask)
		api.PUT("/tasks/:id/due", s.setDue)
		api.PUT("/tasks/:id/reminder", s.setReminder)
		api.DELETE("/tasks/:id/reminder", s.clearReminder)
		api.PUT("/tasks/:id/priority", s.setPriority)
		api.PUT("/tasks/:id/description", s.setDescription)

		api.GET("/overdue", s.overdue)
		api.GET("/upcoming", s.upcoming)
		api.GET("/urgent", s.urgent)
		api.GET("/history/:date", s.history)
		api.GET("/streak", s.streak)

		api.GET("/game", s.game)
		api.GET("/characters", s.characters)
		api.POST("/characters/:ref/buy", s.buyCharacter)
		api.POST("/characters/:ref/activate", s.activateCharacter)

		api.GET("/events", s.events)
	}
}

// ListenAndServe serves until ctx is canceled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe over an existing listener. Request contexts derive
// from ctx, so open event streams end as soon as ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	archived, err := s.countArchived(c.Request.Context())
	if err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		status, code = "down", http.StatusInternalServerError
	}
	c.JSON(code, gin.H{
		"status":   status,
		"archived": archived,
		"time":     s.svc.Now().Format(time.RFC3339),
	})
}

// countArchived doubles as the database probe.
func (s *Server) countArchived(ctx context.Context) (int, error) {
	if s.historyRepo == nil {
		return 0, errors.New("no database")
	}
	ctx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return s.historyRepo.Count(ctx)
}
