package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/events"
)

func (h *httpHandler) handleListEvents(c *gin.Context) {
	result, err := h.events.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *httpHandler) handleGetEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, event)
}

func (h *httpHandler) handleCreateEvent(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input events.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.events.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, event)
}

func (h *httpHandler) handleUpdateEvent(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var patch events.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), identity.UserID, patch)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, event)
}

func (h *httpHandler) handleDeleteEvent(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondMessage(c, "Event deleted successfully")
}

func (h *httpHandler) handleRegisterEvent(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	registration, err := h.events.Register(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, registration)
}

func (h *httpHandler) handleUnregisterEvent(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.events.Unregister(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondMessage(c, "Registration cancelled successfully")
}
