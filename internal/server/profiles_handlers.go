package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/profiles"
)

func (h *httpHandler) handleListProfiles(c *gin.Context) {
	result, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *httpHandler) handleGetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

func (h *httpHandler) handleCreateProfile(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input profiles.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), identity.UserID, identity.Email, input)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, profile)
}

func (h *httpHandler) handleUpdateProfile(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var patch profiles.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), c.Param("id"), identity.UserID, patch)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

func (h *httpHandler) handleSearchAlumni(c *gin.Context) {
	filters := profiles.SearchFilters{
		Department: c.Query("department"),
		Company:    c.Query("company"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid graduation year")
			return
		}
		filters.GraduationYear = year
	}

	result, err := h.profiles.Search(c.Request.Context(), filters)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
