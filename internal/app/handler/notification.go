package handler

import (
	"net/http"

	"vtribe/internal/app/logger"
	"vtribe/internal/app/storage"
)

type NotificationHandler struct {
	notifications storage.NotificationRepository
}

func NewNotificationHandler(notifications storage.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Notification.List")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		l.Debug().Err(err).Msg("Unauthorized")
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	mm, err := h.notifications.AllByUserID(ctx, u.ID)
	if err != nil {
		l.Debug().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	if len(mm) == 0 {
		WriteResponse(w, struct{}{}, http.StatusNoContent)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}
