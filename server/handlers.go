package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeungjosh/pokemon-real-data-experiment/features"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

type scoreRequest struct {
	Team []string `json:"team" binding:"required"`
}

type explainRequest struct {
	Before []string `json:"before"`
	After  []string `json:"after" binding:"required"`
}

type suggestRequest struct {
	Team []string `json:"team" binding:"required"`
	K    int      `json:"k"`
}

// writeBuildError maps engine errors to status codes.
func writeBuildError(c *gin.Context, err error) {
	var unresolved *features.UnresolvedSpeciesError
	switch {
	case errors.As(err, &unresolved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "unresolved": unresolved.Names})
	case errors.Is(err, game.ErrIncompleteTeam):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) handleScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, v, err := s.engine.Score("api", req.Team)
	if err != nil {
		writeBuildError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"team":     req.Team,
		"vector":   v,
		"features": v.Map(),
		"report":   s.engine.Explainer.Report("team", team.Members()),
	})
}

func (s *Server) handleExplain(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before, err := s.engine.Resolve(req.Before)
	if err != nil {
		writeBuildError(c, err)
		return
	}
	after, err := s.engine.Resolve(req.After)
	if err != nil {
		writeBuildError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.engine.Explainer.Explain(before, after))
}

func (s *Server) handleSuggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.K <= 0 {
		req.K = 5
	}

	partial, err := s.engine.Resolve(req.Team)
	if err != nil {
		writeBuildError(c, err)
		return
	}
	suggestions, err := s.engine.Explainer.Suggest(partial, s.engine.Dataset.Pokedex.All(), req.K)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (s *Server) handleThreats(c *gin.Context) {
	k := s.engine.Meta.TopK()
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = n
	}
	c.JSON(http.StatusOK, gin.H{"threats": s.engine.Threats(k)})
}
