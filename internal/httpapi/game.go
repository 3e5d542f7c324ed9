package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) game(c *gin.Context) {
	view := GameView{
		Coins:          s.svc.Coins(),
		CompletedToday: s.svc.CompletedTaskToday(),
	}
	if active, ok := s.svc.ActiveCharacter(); ok {
		item := toCharacterItem(active)
		view.Active = &item
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) characters(c *gin.Context) {
	if c.Query("owned") == "true" {
		c.JSON(http.StatusOK, toCharacterItems(s.svc.OwnedCharacters()))
		return
	}
	c.JSON(http.StatusOK, toCharacterItems(s.svc.Characters()))
}

func (s *Server) buyCharacter(c *gin.Context) {
	ch, err := s.svc.BuyCharacter(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"character": toCharacterItem(ch),
		"balance":   s.svc.Coins(),
	})
}

func (s *Server) activateCharacter(c *gin.Context) {
	ch, err := s.svc.SetActiveCharacter(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCharacterItem(ch))
}
