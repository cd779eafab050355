package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/metrics"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
)

// Comment frames sent to keep idle proxies from closing the stream.
const streamHeartbeat = 25 * time.Second

// ======================================================
// HANDLER
// ======================================================

// StreamHandler fans booking change events out to SSE clients. Each
// client gets its own broker subscription; a slow client loses events
// rather than stalling publishers.
type StreamHandler struct {
	broker realtime.Broker
	logger zerolog.Logger
}

func NewStreamHandler(broker realtime.Broker, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		broker: broker,
		logger: logger.With().Str("handler", "stream").Logger(),
	}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	sub, err := h.broker.Subscribe(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("stream subscribe failed")
		httperr.Internal(c, "stream_unavailable", "Realtime stream is unavailable.")
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			h.logger.Warn().Err(err).Msg("stream subscription close failed")
		}
	}()

	metrics.StreamClientConnected()
	defer metrics.StreamClientDisconnected()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			c.Writer.Flush()

		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			payload, err := ev.Marshal()
			if err != nil {
				h.logger.Warn().Err(err).Msg("dropping unencodable change event")
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, payload)
			c.Writer.Flush()
		}
	}
}
