package models

import "time"

// StatusTransition records one status change made through the dashboard.
type StatusTransition struct {
	ID            string            `db:"id" json:"id"`
	Module        string            `db:"module" json:"module"`
	ApplicationID string            `db:"application_id" json:"applicationId"`
	FromStatus    ApplicationStatus `db:"from_status" json:"fromStatus"`
	ToStatus      ApplicationStatus `db:"to_status" json:"toStatus"`
	ActorID       string            `db:"actor_id" json:"actorId"`
	ActorEmail    string            `db:"actor_email" json:"actorEmail"`
	RequestID     string            `db:"request_id" json:"requestId"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
}
