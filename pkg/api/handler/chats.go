package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dskvich/ottaga/pkg/api/middleware"
	"github.com/dskvich/ottaga/pkg/api/response"
	"github.com/dskvich/ottaga/pkg/domain"
)

type chats struct {
	conversation Conversation
	manager      ChatManager
	writer       response.JSONResponseWriter
}

func NewChats(conversation Conversation, manager ChatManager) *chats {
	return &chats{
		conversation: conversation,
		manager:      manager,
	}
}

func (c *chats) Register(r *mux.Router) {
	r.HandleFunc("/chats", c.create).Methods(http.MethodPost)
	r.HandleFunc("/chats", c.list).Methods(http.MethodGet)
	r.HandleFunc("/chats/{chatID}", c.get).Methods(http.MethodGet)
	r.HandleFunc("/chats/{chatID}", c.update).Methods(http.MethodPatch)
	r.HandleFunc("/chats/{chatID}", c.delete).Methods(http.MethodDelete)
	r.HandleFunc("/chats/{chatID}/messages", c.messages).Methods(http.MethodGet)
}

type createChatRequest struct {
	PastSessionSummaries []string `json:"pastSessionSummaries"`
}

func (c *chats) create(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	chatID, err := c.conversation.CreateChat(r.Context(), &domain.UserInfo{
		UserID:               middleware.UserIDFromContext(r.Context()),
		PastSessionSummaries: req.PastSessionSummaries,
	})
	if err != nil {
		c.writer.WriteError(w, r, err)
		return
	}

	c.writer.WriteSuccessResponse(w, http.StatusCreated, map[string]string{"chatID": chatID})
}

func (c *chats) list(w http.ResponseWriter, r *http.Request) {
	list, err := c.manager.ListChats(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		c.writer.WriteError(w, r, err)
		return
	}
	c.writer.WriteSuccessResponse(w, http.StatusOK, list)
}

func (c *chats) get(w http.ResponseWriter, r *http.Request) {
	chat, err := c.manager.GetChat(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["chatID"])
	if err != nil {
		c.writer.WriteError(w, r, err)
		return
	}
	c.writer.WriteSuccessResponse(w, http.StatusOK, chat)
}

type updateChatRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *chats) update(w http.ResponseWriter, r *http.Request) {
	var req updateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	chat, err := c.manager.UpdateChat(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["chatID"], req.Title, req.Description)
	if err != nil {
		c.writer.WriteError(w, r, err)
		return
	}
	c.writer.WriteSuccessResponse(w, http.StatusOK, chat)
}

func (c *chats) delete(w http.ResponseWriter, r *http.Request) {
	if err := c.manager.DeleteChat(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["chatID"]); err != nil {
		c.writer.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *chats) messages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.writer.WriteErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = n
	}

	msgs, err := c.manager.GetMessages(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["chatID"], limit)
	if err != nil {
		c.writer.WriteError(w, r, err)
		return
	}
	c.writer.WriteSuccessResponse(w, http.StatusOK, msgs)
}
