package models

// UserProfile bridges the external auth provider's subject identifier to an
// application-level profile record.
type UserProfile struct {
	Base
	AuthID             string   `json:"auth_id" db:"auth_id"`
	DisplayName        string   `json:"display_name" db:"display_name"`
	AvatarURL          *string  `json:"avatar_url" db:"avatar_url"`
	JobTitle           *string  `json:"job_title" db:"job_title"`
	Department         *string  `json:"department" db:"department"`
	Theme              string   `json:"theme" db:"theme"`
	NotificationPref   string   `json:"notification_pref" db:"notification_pref"`
	EmailNotifications bool     `json:"email_notifications" db:"email_notifications"`
	Timezone           string   `json:"timezone" db:"timezone"`
	Bio                *string  `json:"bio" db:"bio"`
	Tags               []string `json:"tags" db:"tags"`
}
