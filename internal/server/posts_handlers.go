package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/posts"
)

func (h *httpHandler) handleListPosts(c *gin.Context) {
	result, err := h.posts.List(c.Request.Context(), c.Query("post_type"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *httpHandler) handleGetPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, post)
}

func (h *httpHandler) handleCreatePost(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input posts.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.posts.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, post)
}

func (h *httpHandler) handleUpdatePost(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var patch posts.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), identity.UserID, patch)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, post)
}

func (h *httpHandler) handleDeletePost(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondMessage(c, "Post deleted successfully")
}

func (h *httpHandler) handleLikePost(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	like, err := h.posts.Like(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, like)
}

func (h *httpHandler) handleUnlikePost(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.posts.Unlike(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondMessage(c, "Like removed successfully")
}

type commentRequestPayload struct {
	Content string `json:"content"`
}

func (h *httpHandler) handleAddComment(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var request commentRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.posts.AddComment(c.Request.Context(), c.Param("id"), identity.UserID, request.Content)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, comment)
}

func (h *httpHandler) handleListComments(c *gin.Context) {
	result, err := h.posts.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
