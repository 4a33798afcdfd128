package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/jobs"
)

func (h *httpHandler) handleListJobs(c *gin.Context) {
	filters := jobs.ListFilters{
		Status:   c.Query("status"),
		JobType:  c.Query("job_type"),
		IsRemote: parseBoolQuery(c, "is_remote"),
	}

	result, err := h.jobs.List(c.Request.Context(), filters)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *httpHandler) handleGetJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, job)
}

func (h *httpHandler) handleCreateJob(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input jobs.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, job)
}

func (h *httpHandler) handleUpdateJob(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var patch jobs.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), c.Param("id"), identity.UserID, patch)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, job)
}

func (h *httpHandler) handleDeleteJob(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondMessage(c, "Job deleted successfully")
}
