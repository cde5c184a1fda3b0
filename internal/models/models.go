package models

import (
	"time"
)

// Поля привычки, которые может записывать рассылка напоминаний
const (
	FieldSendIndicator    = "send_indicator"
	FieldUpdatedAt        = "updated_at"
	FieldNextReminderDate = "next_reminder_date"
)

// User представляет владельца привычек
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	TgChatID  *int64    `json:"tg_chat_id" db:"tg_chat_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Habit представляет привычку пользователя
type Habit struct {
	ID                   int64      `json:"id" db:"id"`
	Habit                string     `json:"habit" db:"habit"`
	OwnerID              int64      `json:"owner_id" db:"owner_id"`
	Owner                *User      `json:"owner,omitempty" db:"-"`
	SignOfAPleasantHabit bool       `json:"sign_of_a_pleasant_habit" db:"sign_of_a_pleasant_habit"`
	Periodicity          int        `json:"periodicity" db:"periodicity"`
	PlaceOfExecution     *string    `json:"place_of_execution" db:"place_of_execution"`
	TimeExecution        *string    `json:"time_execution" db:"time_execution"`
	SendIndicator        int        `json:"send_indicator" db:"send_indicator"`
	NextReminderDate     *time.Time `json:"next_reminder_date" db:"next_reminder_date"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at" db:"updated_at"`
}

// LastUpdate возвращает время последнего изменения привычки
func (h *Habit) LastUpdate() time.Time {
	if h.UpdatedAt != nil && !h.UpdatedAt.IsZero() {
		return *h.UpdatedAt
	}
	return h.CreatedAt
}

// OwnerChatID возвращает Telegram chat id владельца, если он известен
func (h *Habit) OwnerChatID() (int64, bool) {
	if h.Owner == nil || h.Owner.TgChatID == nil || *h.Owner.TgChatID == 0 {
		return 0, false
	}
	return *h.Owner.TgChatID, true
}
