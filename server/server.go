package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/estateflow/orchestrator/service"
)

/**
 * HTTP surface over the orchestrator:
 *
 *   POST /v1/queries             submit a query, runs the pipeline
 *   GET  /v1/jobs/:id            read one job record
 *   GET  /v1/jobs/:id/children   list sub-jobs of a parent
 */
func NewRouter(orc *service.Orchestrator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/v1")
	v1.POST("/queries", handleQuery(orc))
	v1.GET("/jobs/:id", handleGetJob(orc))
	v1.GET("/jobs/:id/children", handleGetChildren(orc))

	return router
}

type queryRequest struct {
	Query     string `json:"query" binding:"required"`
	RequestID string `json:"request_id"`
}

func handleQuery(orc *service.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.RequestID == "" {
			req.RequestID = uuid.NewString()
		}

		report, err := orc.HandleQuery(c.Request.Context(), req.RequestID, req.Query)
		if err != nil {
			log.Errorf("%s query handling failed: %v", req.RequestID, err)
			status := http.StatusInternalServerError
			if errors.IsAlreadyExists(errors.Cause(err)) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"job_id": req.RequestID, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"job_id": req.RequestID, "report": report})
	}
}

func handleGetJob(orc *service.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := orc.Jobs().Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.IsNotFound(errors.Cause(err)) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

func handleGetChildren(orc *service.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		children, err := orc.Jobs().GetChildren(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": children})
	}
}
