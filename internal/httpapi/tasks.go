package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"questpet/internal/engine"
)

const defaultUpcomingHours = 4

func (s *Server) listTasks(c *gin.Context) {
	view, ok, err := engine.ParseView(c.Query("view"))
	if err != nil {
		writeError(c, err)
		return
	}

	var tasks []engine.Task
	switch {
	case !ok:
		tasks = s.svc.AllTasks()
	case view == engine.ViewToday:
		tasks = s.svc.TodayTasks()
	case view == engine.ViewHabit:
		tasks = s.svc.HabitTasks()
	case view == engine.ViewPlanning:
		tasks = s.svc.PlanningTasks()
	}
	c.JSON(http.StatusOK, toTaskItems(tasks, s.svc.Now()))
}

func (s *Server) createTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid task payload")
		return
	}
	typ, err := engine.ParseTaskType(req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	prio, err := engine.ParsePriority(req.Priority)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := s.svc.CreateTask(c.Request.Context(), engine.CreateTaskInput{
		Title:       req.Title,
		Type:        typ,
		Priority:    prio,
		Description: strings.TrimSpace(req.Description),
		DueAt:       req.DueAt,
		ReminderAt:  req.ReminderAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskItem(task, s.svc.Now()))
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.svc.Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskItem(task, s.svc.Now()))
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.svc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) completeTask(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.svc.CompleteTask(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	task, err := s.svc.Task(ctx, res.TaskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CompleteResponse{
		Task:         toTaskItem(task, s.svc.Now()),
		CoinsAwarded: res.CoinsAwarded,
		Balance:      res.Balance,
		XPAwarded:    res.XPAwarded,
		LevelUp:      res.LevelUp,
		LevelAfter:   res.LevelAfter,
		Revived:      res.Revived,
	})
}

func (s *Server) failTask(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.svc.FailTask(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	task, err := s.svc.Task(ctx, res.TaskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FailResponse{
		Task:          toTaskItem(task, s.svc.Now()),
		CoinsLost:     res.CoinsLost,
		Balance:       res.Balance,
		CharacterDied: res.CharacterDied,
	})
}

func (s *Server) skipTask(c *gin.Context) {
	task, err := s.svc.SkipTask(c.Request.Context(), c.Param("id"))
	s.respondTask(c, task, err)
}

func (s *Server) setDue(c *gin.Context) {
	var req DueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid due date payload")
		return
	}
	task, err := s.svc.SetDueDate(c.Request.Context(), c.Param("id"), req.DueAt)
	s.respondTask(c, task, err)
}

func (s *Server) setReminder(c *gin.Context) {
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ReminderAt == nil {
		badRequest(c, "reminder_at is required")
		return
	}
	task, err := s.svc.SetReminder(c.Request.Context(), c.Param("id"), *req.ReminderAt)
	s.respondTask(c, task, err)
}

func (s *Server) clearReminder(c *gin.Context) {
	task, err := s.svc.ClearReminder(c.Request.Context(), c.Param("id"))
	s.respondTask(c, task, err)
}

func (s *Server) setPriority(c *gin.Context) {
	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid priority payload")
		return
	}
	prio, err := engine.ParsePriority(req.Priority)
	if err != nil {
		writeError(c, err)
		return
	}
	task, err := s.svc.SetPriority(c.Request.Context(), c.Param("id"), prio)
	s.respondTask(c, task, err)
}

func (s *Server) setDescription(c *gin.Context) {
	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid description payload")
		return
	}
	task, err := s.svc.SetDescription(c.Request.Context(), c.Param("id"), req.Description)
	s.respondTask(c, task, err)
}

func (s *Server) respondTask(c *gin.Context, task engine.Task, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskItem(task, s.svc.Now()))
}

func (s *Server) overdue(c *gin.Context) {
	c.JSON(http.StatusOK, toTaskItems(s.svc.OverdueTasks(), s.svc.Now()))
}

func (s *Server) upcoming(c *gin.Context) {
	hours := defaultUpcomingHours
	if raw := c.Query("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "hours must be a positive integer")
			return
		}
		hours = n
	}
	c.JSON(http.StatusOK, toTaskItems(s.svc.UpcomingTasks(hours), s.svc.Now()))
}

func (s *Server) urgent(c *gin.Context) {
	c.JSON(http.StatusOK, toTaskItems(s.svc.UrgentTasks(), s.svc.Now()))
}

// history serves one calendar day, given as YYYY-MM-DD in the service's location.
func (s *Server) history(c *gin.Context) {
	day, err := time.ParseInLocation(time.DateOnly, c.Param("date"), s.svc.Location())
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}
	ctx := c.Request.Context()
	tasks, err := s.svc.TasksByDate(ctx, day)
	if err != nil {
		writeError(c, err)
		return
	}
	completed, err := s.svc.CompletedTasksByDate(ctx, day)
	if err != nil {
		writeError(c, err)
		return
	}
	stats, err := s.svc.DayStats(ctx, day)
	if err != nil {
		writeError(c, err)
		return
	}

	now := s.svc.Now()
	c.JSON(http.StatusOK, DayView{
		Date:        day.Format(time.DateOnly),
		Tasks:       toTaskItems(tasks, now),
		Completed:   toTaskItems(completed, now),
		Total:       stats.Total,
		SuccessRate: stats.SuccessRate,
	})
}

func (s *Server) streak(c *gin.Context) {
	title := c.Query("title")
	n, err := s.svc.HabitStreak(c.Request.Context(), title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": strings.TrimSpace(title), "completions": n})
}
