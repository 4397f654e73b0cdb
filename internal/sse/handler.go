package sse

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler streams events for the topic named in the "topic" query parameter (site by default).
func (s *SSEClients) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		topic := TopicSite
		if r.URL.Query().Get("topic") == string(TopicAdmin) {
			topic = TopicAdmin
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		client := NewClient(topic)
		s.Add(client)
		defer s.Delete(client)

		fmt.Fprintf(w, "event: connected\ndata: %s\n\n", topic)
		flusher.Flush()
		log.Debug().Str("topic", string(topic)).Msg("SSE client connected")

		for {
			select {
			case msg, ok := <-client.Msg:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg, msg)
				flusher.Flush()
			case <-r.Context().Done():
				log.Debug().Str("topic", string(topic)).Msg("SSE client disconnected")
				return
			}
		}
	}
}
