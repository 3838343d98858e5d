// Package api stellt Discovery, Kuratierung und Ressourcen-Graph über HTTP bereit.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"resource-curator/models"
	"resource-curator/services"
	"resource-curator/storage"
)

// ConceptFinder löst Konzept-IDs auf.
type ConceptFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Concept, error)
	CountExisting(ctx context.Context, ids []uint) (int, error)
}

// ProfileFinder liefert das Lernprofil eines Nutzers.
type ProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.LearningProfile, error)
}

// Server bündelt die Abhängigkeiten der Handler.
type Server struct {
	Dispatcher *services.Dispatcher
	Curator    *services.Curator
	Graph      *services.GraphBuilder
	Concepts   ConceptFinder
	Profiles   ProfileFinder
	Logger     *zap.Logger

	APISecretKey string
	DefaultLimit int
	MaxLimit     int
	Now          func() time.Time
}

// NewRouter erstellt den gin-Router mit allen Routen.
func NewRouter(s *Server) *gin.Engine {
	if s.Now == nil {
		s.Now = time.Now
	}
	router := gin.New()
	router.Use(recovery(s.Logger))
	router.Use(requestLogger(s.Logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rg := router.Group("/", apiKeyAuthMiddleware(s.APISecretKey))
	setupDiscoveryRoutes(rg, s)
	setupCurationRoutes(rg, s)
	setupGraphRoutes(rg, s)
	return router
}

func setupDiscoveryRoutes(rg *gin.RouterGroup, s *Server) {
	rg.GET("/discover/:conceptId", func(c *gin.Context) {
		concept, ok := s.resolveConcept(c)
		if !ok {
			return
		}
		limit, err := s.parseLimit(c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ranked, err := s.Dispatcher.DiscoverAndRank(c.Request.Context(), concept.Name, limit, s.Now())
		if err != nil {
			s.internalError(c, "Discovery failed", err)
			return
		}
		c.JSON(http.StatusOK, ranked)
	})

	rg.GET("/recommend/:conceptId", func(c *gin.Context) {
		concept, ok := s.resolveConcept(c)
		if !ok {
			return
		}
		limit, err := s.parseLimit(c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		weights, err := s.learningWeights(c)
		if err != nil {
			if errors.Is(err, errBadRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			s.internalError(c, "Profile lookup failed", err)
			return
		}
		ranked, err := s.Dispatcher.DiscoverAndRank(c.Request.Context(), concept.Name, limit, s.Now())
		if err != nil {
			s.internalError(c, "Discovery failed", err)
			return
		}
		c.JSON(http.StatusOK, services.RankByLearningStyle(ranked, weights))
	})
}

func setupCurationRoutes(rg *gin.RouterGroup, s *Server) {
	rg.POST("/save/:conceptId", func(c *gin.Context) {
		concept, ok := s.resolveConcept(c)
		if !ok {
			return
		}
		var req struct {
			Resources      []models.DiscoveredResource `json:"resources"`
			RelevanceScore *int                        `json:"relevanceScore"`
			IsCore         bool                        `json:"isCore"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Resources == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: resources required"})
			return
		}
		results := s.Curator.Curate(c.Request.Context(), concept.ID, req.Resources, services.CurationOptions{
			RelevanceScore: req.RelevanceScore,
			IsCore:         req.IsCore,
		})
		ids := services.ResourceIDs(results)
		c.JSON(http.StatusOK, gin.H{
			"savedCount":  len(ids),
			"resourceIds": ids,
			"results":     results,
		})
	})
}

func setupGraphRoutes(rg *gin.RouterGroup, s *Server) {
	rg.GET("/connections", func(c *gin.Context) {
		ids, err := parseIDList(c.Query("resourceIds"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "resourceIds: " + err.Error()})
			return
		}
		conns, err := s.Graph.Connections(c.Request.Context(), ids)
		if err != nil {
			s.internalError(c, "Graph computation failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"connections": conns})
	})

	rg.GET("/concepts", func(c *gin.Context) {
		ids, err := parseIDList(c.Query("conceptIds"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conceptIds: " + err.Error()})
			return
		}
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
		}
		found, err := s.Concepts.CountExisting(c.Request.Context(), ids)
		if err != nil {
			s.internalError(c, "Concept lookup failed", err)
			return
		}
		if found < len(ids) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown concept"})
			return
		}
		hood, err := s.Graph.ConceptNeighbourhood(c.Request.Context(), ids, limit)
		if err != nil {
			s.internalError(c, "Concept neighbourhood failed", err)
			return
		}
		c.JSON(http.StatusOK, hood)
	})
}

var errBadRequest = errors.New("bad request")

// resolveConcept schreibt bei Fehlern selbst die Antwort und liefert dann false.
func (s *Server) resolveConcept(c *gin.Context) (*models.Concept, bool) {
	id, err := strconv.ParseUint(c.Param("conceptId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid concept id"})
		return nil, false
	}
	concept, err := s.Concepts.FindByID(c.Request.Context(), uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown concept"})
		return nil, false
	}
	if err != nil {
		s.internalError(c, "Concept lookup failed", err)
		return nil, false
	}
	return concept, true
}

func (s *Server) parseLimit(raw string) (int, error) {
	limit := s.DefaultLimit
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("limit must be a positive integer")
		}
		limit = n
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	return limit, nil
}

// learningWeights liest das Profil des Nutzers; einzelne Gewichte aus der Query überschreiben es.
func (s *Server) learningWeights(c *gin.Context) (models.LearningStyleFit, error) {
	var weights models.LearningStyleFit
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		userID = c.Query("userId")
	}
	if userID != "" && s.Profiles != nil {
		profile, err := s.Profiles.FindByUserID(c.Request.Context(), userID)
		switch {
		case err == nil:
			weights = profile.Weights()
		case errors.Is(err, storage.ErrNotFound):
			s.Logger.Info("Kein Lernprofil gefunden, nutze ausgewogene Gewichte", zap.String("user_id", userID))
		default:
			return weights, err
		}
	}

	overrides := []struct {
		key    string
		target *int
	}{
		{"visual", &weights.Visual},
		{"auditory", &weights.Auditory},
		{"reading", &weights.Reading},
		{"kinesthetic", &weights.Kinesthetic},
	}
	for _, o := range overrides {
		raw := c.Query(o.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			return weights, fmt.Errorf("%w: %s must be an integer between 0 and 100", errBadRequest, o.key)
		}
		*o.target = n
	}
	return weights, nil
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.Logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// parseIDList liest eine kommagetrennte Liste positiver IDs; Duplikate fallen weg.
func parseIDList(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("at least one id required")
	}
	var ids []uint
	seen := make(map[uint]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("malformed id %q", part)
		}
		if seen[uint(n)] {
			continue
		}
		seen[uint(n)] = true
		ids = append(ids, uint(n))
	}
	return ids, nil
}
