package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

const defaultTopScores = 10

// credentials is the body of POST /app/new/, as a form or as JSON.
// Older clients send the password as passagain.
type credentials struct {
	User      string `form:"user" json:"user"`
	Pass      string `form:"pass" json:"pass"`
	PassAgain string `form:"passagain" json:"passagain"`
}

func (c credentials) password() string {
	if c.Pass != "" {
		return c.Pass
	}
	return c.PassAgain
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Your API works! (200)"})
}

func (s *Server) handleNewUser(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	err := s.store.CreateUser(req.User, req.password())
	switch {
	case errors.Is(err, storage.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Both user and pass are required"})
		return
	case errors.Is(err, storage.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("User %s already exists", req.User)})
		return
	case err != nil:
		s.logger.Error("cannot create user", "user", req.User, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something Went Wrong!"})
		return
	}

	s.logger.Info("user created", "user", req.User)
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("1 record created: User %s has been created!", req.User),
	})
}

func (s *Server) handleGetUser(c *gin.Context) {
	u, ok := s.authenticate(c, c.Param("user"), c.Param("pass"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("1 record has been found: User %s welcome back!", u.Username),
		"user":         u.Username,
		"highestscore": u.HighestScore,
	})
}

// authenticate checks credentials and writes the error response itself
// when they do not match.
func (s *Server) authenticate(c *gin.Context, user, pass string) (storage.User, bool) {
	u, err := s.store.CheckUser(user, pass)
	switch {
	case errors.Is(err, storage.ErrBadCredentials), errors.Is(err, storage.ErrMissingCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Wrong user or pass"})
		return storage.User{}, false
	case err != nil:
		s.logger.Error("cannot check credentials", "user", user, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something Went Wrong!"})
		return storage.User{}, false
	}
	return u, true
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.ListUsers()
	if err != nil {
		s.logger.Error("cannot list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something Went Wrong!"})
		return
	}
	if users == nil {
		users = []storage.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleTopScores(c *gin.Context) {
	limit := defaultTopScores
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive number"})
			return
		}
		limit = n
	}

	scores, err := s.store.TopScores(c.Query("preset"), limit)
	if err != nil {
		s.logger.Error("cannot load scores", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something Went Wrong!"})
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	c.JSON(http.StatusOK, scores)
}
