package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleNotifications lists the user's notifications decorated with their
// display icons, plus the unread count the header badge shows.
func handleNotifications(upstream Upstream) http.HandlerFunc {
	type response struct {
		Notifications []NotificationView `json:"notifications"`
		UnreadCount   int                `json:"unreadCount"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ns, err := upstream.Notifications(r.Context(), tokenFrom(r))
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		views, unread := decorateNotifications(ns)
		writeJSON(w, http.StatusOK, response{Notifications: views, UnreadCount: unread})
	}
}

// handleMarkNotificationRead forwards the read mark upstream, then pushes
// the fresh unread count to the user's open tabs.
func handleMarkNotificationRead(logger *slog.Logger, upstream Upstream, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "notificationID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "notification id must be a number")
			return
		}

		token := tokenFrom(r)
		if err := upstream.MarkNotificationRead(r.Context(), token, id); err != nil {
			writeUpstreamError(w, err)
			return
		}

		sess := sessionFrom(r)
		if ns, err := upstream.Notifications(r.Context(), token); err == nil {
			_, unread := decorateNotifications(ns)
			broker.Publish(sess.UserID, NotificationEvent{Type: "unread", UnreadCount: unread})
		} else {
			logger.Warn("refreshing unread count", "error", err)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// handleNotificationEvents is the SSE stream behind the live badge. One
// subscription per open tab; the heartbeat keeps proxies from closing idle
// streams.
func handleNotificationEvents(broker *Broker) http.HandlerFunc {
	const heartbeat = 25 * time.Second

	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		sess := sessionFrom(r)
		ch := broker.Subscribe(sess.UserID)
		defer broker.Unsubscribe(sess.UserID, ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "data: %s\n\n", data)
				flusher.Flush()
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
