package http

import (
	"bufio"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// handleEvents streams mutation events as newline-delimited JSON until the
// client goes away. This is the change feed the mobile client follows to keep
// other devices' edits visible.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	ch := s.hub.Subscribe()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer s.hub.Unsubscribe(ch)
		enc := json.NewEncoder(w)
		for evt := range ch {
			if err := enc.Encode(evt); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
