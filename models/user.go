package models

import "time"

type UserAccount struct {
	JsonModel
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Banned   bool   `gorm:"default:false" json:"-"`
	LastIp   string `json:"-"`
	//"STARTED_AUTH", "FINISHED_AUTH"
	Status              string     `json:"-"`
	GoogleID            string     `json:"-"`
	AppleID             string     `json:"-"`
	UTMSource           string     `json:"utm_source"`
	Platform            Platform   `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	TelegramUsername    string     `json:"telegram_username"`
	ConfirmedDeleteDate *time.Time `json:"-"`
	// Notifications settings
	ReceiveNotifications bool `json:"receive_notifications"`
	// user app image/avatar
	AvatarURL string `json:"avatar_url"`

	// weather lookup preferences for outfit suggestions
	City string `gorm:"default:''" json:"city"`
	// celsius or fahrenheit, display only - engine works in fahrenheit
	TemperatureUnit string `gorm:"default:'fahrenheit'" json:"temperature_unit"`
	// default dress code used when the suggest call omits one
	PreferredFormality FormalityLevel `gorm:"default:'casual'" json:"preferred_formality"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UserSettingsIn struct {
	ReceiveNotifications bool    `json:"receive_notifications"`
	City                 *string `json:"city"`
	TemperatureUnit      *string `json:"temperature_unit"`
	PreferredFormality   *string `json:"preferred_formality"`
}
