package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest/presenter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleEvents streams a meeting's status changes to the waiting page until
// either side closes.
func (h *Handler) handleEvents(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error(c.Request().Context(), "Failed to upgrade WebSocket: %v", err)
		return nil
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events, err := h.signal.Subscribe(ctx, id)
	if err != nil {
		h.logger.Error(ctx, "Failed to subscribe to meeting %d: %v", id, err)
		return nil
	}

	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				var closeErr *websocket.CloseError
				if !errors.As(err, &closeErr) {
					h.logger.Debug(ctx, "WebSocket read ended: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				h.logger.Error(ctx, "Error writing event: %v", err)
				return nil
			}
		}
	}
}
