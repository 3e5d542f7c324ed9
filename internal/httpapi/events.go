package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventStreamBuffer = 32

// events streams scheduler events as server-sent events until the client
// goes away or the service shuts down.
func (s *Server) events(c *gin.Context) {
	ch, cancel := s.svc.Subscribe(eventStreamBuffer)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	// Send headers now so clients see the stream open before the first event.
	c.Writer.Flush()

	s.log.Debug("event stream opened", zap.String("ip", c.ClientIP()))
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(e.Kind), toEventItem(e))
			return true
		}
	})
	s.log.Debug("event stream closed", zap.String("ip", c.ClientIP()))
}
