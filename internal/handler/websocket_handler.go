package handler

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/wayfare/wayfare-backend/internal/domain"
	"github.com/wayfare/wayfare-backend/internal/middleware"
	"github.com/wayfare/wayfare-backend/internal/websocket"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	eventRepo      domain.EventRepository
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, eventRepo domain.EventRepository, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		eventRepo:      eventRepo,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. The caller
// subscribes to one event's room and must be a member of that event.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		log.Debug().Msg("WebSocket connection rejected: missing identity")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	eventID, err := uuid.Parse(c.QueryParam("eventId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "eventId query parameter is required")
	}

	isMember, err := h.eventRepo.IsMember(eventID, userID)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket membership check failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "membership check failed")
	}
	if !isMember {
		log.Debug().
			Str("event_id", eventID.String()).
			Str("user_id", userID.String()).
			Msg("WebSocket connection rejected: not a member")
		return echo.NewHTTPError(http.StatusForbidden, "not a member of this event")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, eventID, userID, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("event_id", eventID.String()).
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
