package messaging

import (
	"net/url"
	"strings"

	"hotel-reservation-engine/internal/usecase/shared"
)

const (
	ActionConfirm     = "confirm"
	ActionCancel      = "cancel"
	ActionGuestCancel = "guest-cancel"
)

// EmailLinks renders the one-click links carried by a booking.held notification.
// Other events carry no tokens and yield no links.
func EmailLinks(baseURL string, ev shared.NotificationEvent) map[string]string {
	links := make(map[string]string, 3)
	if ev.OwnerToken != "" {
		links[ActionConfirm] = emailLink(baseURL, ActionConfirm, ev, ev.OwnerToken)
		links[ActionCancel] = emailLink(baseURL, ActionCancel, ev, ev.OwnerToken)
	}
	if ev.GuestToken != "" {
		links[ActionGuestCancel] = emailLink(baseURL, ActionGuestCancel, ev, ev.GuestToken)
	}
	return links
}

func emailLink(baseURL, action string, ev shared.NotificationEvent, token string) string {
	return strings.TrimRight(baseURL, "/") + "/api/bookings/email/" + action + "/" +
		ev.ReservationID.String() + "?token=" + url.QueryEscape(token)
}
