package converter

import (
	"patient-manager/internal/delivery/dto"
	"patient-manager/internal/domain/entity"
)

func NotificationToResponse(notification *entity.Notification) *dto.NotificationResponse {
	if notification == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:             notification.ID,
		Channel:        notification.Channel,
		Type:           notification.Type,
		Status:         notification.Status,
		RecipientEmail: notification.RecipientEmail,
		RecipientPhone: notification.RecipientPhone,
		RecipientName:  notification.RecipientName,
		Subject:        notification.Subject,
		Content:        notification.Content,
		ErrorMessage:   notification.ErrorMessage,
		CreatedAt:      notification.CreatedAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, *NotificationToResponse(&notifications[i]))
	}
	return responses
}
