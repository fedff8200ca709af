package server

import "github.com/itinera/console/internal/itinera"

// NotificationType is the closed set of notification kinds the upstream
// emits. Icon selection is an exhaustive match over it rather than a
// string-keyed lookup table.
type NotificationType string

const (
	NotificationBooking   NotificationType = "booking"
	NotificationPayment   NotificationType = "payment"
	NotificationReview    NotificationType = "review"
	NotificationMessage   NotificationType = "message"
	NotificationItinerary NotificationType = "itinerary"
	NotificationSystem    NotificationType = "system"
)

func iconFor(t NotificationType) string {
	switch t {
	case NotificationBooking:
		return "calendar-check"
	case NotificationPayment:
		return "credit-card"
	case NotificationReview:
		return "star"
	case NotificationMessage:
		return "message-circle"
	case NotificationItinerary:
		return "map"
	case NotificationSystem:
		return "info"
	default:
		return "bell"
	}
}

// NotificationView decorates an upstream notification with its display icon.
type NotificationView struct {
	itinera.Notification
	Icon string `json:"icon"`
}

func decorateNotifications(ns []itinera.Notification) ([]NotificationView, int) {
	views := make([]NotificationView, 0, len(ns))
	unread := 0
	for _, n := range ns {
		if !n.Read {
			unread++
		}
		views = append(views, NotificationView{
			Notification: n,
			Icon:         iconFor(NotificationType(n.Type)),
		})
	}
	return views, unread
}
