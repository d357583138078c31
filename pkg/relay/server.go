// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package relay is the HTTP boundary consumed by the front-end. Every
// response is a JSON envelope with a success boolean; malformed bodies
// map to 400, transport failures to 500. The relay holds no state of
// its own, it delegates to the registry, catalog, orchestrator, and
// gateway.
package relay

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/gateway"
	"github.com/emberworks/cocotte/pkg/queue"
	"github.com/emberworks/cocotte/pkg/registry"
	"github.com/emberworks/cocotte/pkg/telemetry"
)

// Server wires the HTTP routes to the core components.
type Server struct {
	gw      *gateway.Gateway
	reg     *registry.Registry
	recipes *catalog.RecipeStore
	orch    *queue.Orchestrator
	metrics *telemetry.Metrics

	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(gw *gateway.Gateway, reg *registry.Registry, recipes *catalog.RecipeStore, orch *queue.Orchestrator, metrics *telemetry.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{gw: gw, reg: reg, recipes: recipes, orch: orch, metrics: metrics}

	e := gin.New()
	e.Use(gin.Recovery())

	api := e.Group("/api")
	{
		api.POST("/cooking/start", s.startCooking)
		api.POST("/cooking/stop", s.stopCooking)
		api.POST("/cooking/emergency-stop", s.emergencyStop)
		api.GET("/cooking/state", s.cookingState)

		api.GET("/esp32/commands", s.deviceCommands)
		api.POST("/esp32/clear", s.clearCommands)

		api.GET("/modules", s.listModules)
		api.POST("/modules/refill-all", s.refillAll)
		api.POST("/modules/:id/refill", s.refillModule)

		api.GET("/recipes", s.listRecipes)
		api.GET("/recipes/:id", s.getRecipe)

		api.GET("/queue", s.queueState)
		api.POST("/queue", s.enqueue)
		api.DELETE("/queue/:id", s.dequeue)
		api.POST("/queue/clear", s.clearQueue)
		api.POST("/queue/start", s.startQueue)
	}

	e.GET("/healthz", s.health)
	if metrics != nil {
		e.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	s.engine = e
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type startRequest struct {
	Recipe        string                 `json:"recipe"`
	Customization *catalog.Customization `json:"customization"`
}

// startCooking dispatches a single recipe straight to the device,
// bypassing the queue. This is the legacy front-end path.
func (s *Server) startCooking(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipe == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "recipe is required"})
		return
	}

	cust := catalog.DefaultCustomization()
	if req.Customization != nil {
		cust = *req.Customization
	}
	if err := cust.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	recipe, err := s.recipes.Recipe(req.Recipe)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown recipe: " + req.Recipe})
		return
	}

	if err := s.gw.SendRecipe(recipe, cust); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "recipe sent to device",
		"recipeSent": recipe.ID,
	})
}

func (s *Server) stopCooking(c *gin.Context) {
	s.orch.Stop()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cooking stopped"})
}

// emergencyStop tears down the local run first, then aborts the device.
// The abort is a direct transport write; nothing can queue ahead of it.
func (s *Server) emergencyStop(c *gin.Context) {
	s.orch.Stop()
	if err := s.gw.SendEmergencyStop(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "emergency stop sent"})
}

func (s *Server) cookingState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "state": s.orch.State()})
}

func (s *Server) deviceCommands(c *gin.Context) {
	cmds := s.gw.PollCommands()
	if cmds == nil {
		cmds = []gateway.Command{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "commands": cmds})
}

type clearRequest struct {
	CommandIDs []string `json:"commandIds"`
}

// clearCommands acknowledges consumed commands. An empty body (or an
// absent commandIds field) acknowledges everything currently buffered.
func (s *Server) clearCommands(c *gin.Context) {
	var req clearRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed body"})
			return
		}
	}
	n := s.gw.Acknowledge(req.CommandIDs)
	c.JSON(http.StatusOK, gin.H{"success": true, "cleared": n})
}

func (s *Server) listModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "modules": s.reg.Modules()})
}

func (s *Server) refillModule(c *gin.Context) {
	m, err := s.reg.Refill(c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrModuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "module": m})
}

func (s *Server) refillAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "modules": s.reg.RefillAll()})
}

func (s *Server) listRecipes(c *gin.Context) {
	var recipes []catalog.Recipe
	if q := c.Query("q"); q != "" {
		recipes = s.recipes.Search(q)
	} else {
		recipes = s.recipes.Recipes()
	}
	if recipes == nil {
		recipes = []catalog.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

func (s *Server) getRecipe(c *gin.Context) {
	r, err := s.recipes.Recipe(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipe": r})
}

func (s *Server) queueState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "queue": s.orch.State()})
}

type enqueueRequest struct {
	RecipeID      string                 `json:"recipeId"`
	Quantity      int                    `json:"quantity"`
	Customization *catalog.Customization `json:"customization"`
}

func (s *Server) enqueue(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "recipeId is required"})
		return
	}

	cust := catalog.DefaultCustomization()
	if req.Customization != nil {
		cust = *req.Customization
	}
	item, err := s.orch.Enqueue(req.RecipeID, req.Quantity, cust)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

func (s *Server) dequeue(c *gin.Context) {
	if !s.orch.Dequeue(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "queue item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) clearQueue(c *gin.Context) {
	s.orch.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) startQueue(c *gin.Context) {
	if !s.orch.Start() {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "queue empty or already running"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "queue started"})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"connected": s.gw.Connected(),
		"stats":     s.gw.Statistics().Summary(),
	})
}
