package model

import "time"

// Audit actions written by the auth service
const (
	ActionLogin       = "LOGIN"
	ActionLoginFailed = "LOGIN_FAILED"
	ActionLogout      = "LOGOUT"
	ActionForceLogout = "FORCE_LOGOUT"
)

// ActivityLog is a single audit trail entry. Entries are written
// fire-and-forget, a lost entry never fails the surrounding operation.
type ActivityLog struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     *string   `bson:"userId" json:"userId"`
	Action     string    `bson:"action" json:"action"`
	EntityType string    `bson:"entityType" json:"entityType"`
	EntityID   string    `bson:"entityId" json:"entityId"`
	Details    string    `bson:"details" json:"details"`
	IP         string    `bson:"ip" json:"ip"`
	UserAgent  string    `bson:"userAgent" json:"userAgent"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
