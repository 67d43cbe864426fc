package notif

import "fmt"

// Notification types
const (
	TypeWarning  = "warning"
	TypeCritical = "critical"
	TypeSuccess  = "success"
)

// Notification statuses
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Notification is a derived salary-due reminder. It is never persisted;
// the full set is recomputed from teacher records on every data refresh.
type Notification struct {
	ID        string `json:"id"` // pay-<warn|crit>-<teacherId>-<unix>
	UserID    string `json:"userId"`    // recipient (the admin)
	TeacherID string `json:"teacherId"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Date      string `json:"date"` // RFC3339
	IsRead    bool   `json:"isRead"`
	Status    string `json:"status"`
}

func (n *Notification) IsActive() bool {
	return n.Status == StatusActive
}

func warningID(teacherID string, unix int64) string {
	return fmt.Sprintf("pay-warn-%s-%d", teacherID, unix)
}

func criticalID(teacherID string, unix int64) string {
	return fmt.Sprintf("pay-crit-%s-%d", teacherID, unix)
}
