package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound = errors.New("not found")
	ErrDuplicate      = errors.New("duplicate")
)

type Caregiver struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Patient struct {
	ID          string    `db:"id" json:"id"`
	CaregiverID string    `db:"caregiver_id" json:"caregiverId"`
	Name        string    `db:"name" json:"name"`
	Age         int       `db:"age" json:"age"`
	Diagnosis   *string   `db:"diagnosis" json:"diagnosis"`
	MMSEScore   *int      `db:"mmse_score" json:"mmseScore"`
	Notes       *string   `db:"notes" json:"notes"`
	PhotoURL    *string   `db:"photo_url" json:"photoUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Transfer struct {
	ID              string     `db:"id" json:"id"`
	PatientID       string     `db:"patient_id" json:"patientId"`
	FromCaregiverID string     `db:"from_caregiver_id" json:"fromCaregiverId"`
	ToCaregiverID   string     `db:"to_caregiver_id" json:"toCaregiverId"`
	Status          string     `db:"status" json:"status"`
	TransferToken   string     `db:"transfer_token" json:"transferToken"`
	Message         *string    `db:"message" json:"message"`
	ExpiresAt       time.Time  `db:"expires_at" json:"expiresAt"`
	RespondedAt     *time.Time `db:"responded_at" json:"respondedAt"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

type HistoryEntry struct {
	ID         int64     `db:"id" json:"id"`
	TransferID string    `db:"transfer_id" json:"transferId"`
	Status     string    `db:"status" json:"status"`
	ActorID    *string   `db:"actor_id" json:"actorId,omitempty"`
	ChangedAt  time.Time `db:"changed_at" json:"changedAt"`
}

type Memory struct {
	ID          string  `db:"id" json:"id"`
	PatientID   string  `db:"patient_id" json:"patientId"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description"`
	Date        string  `db:"date" json:"date"`
	Importance  int     `db:"importance" json:"importance"`
	Event       string  `db:"event" json:"event"`
	Location    string  `db:"location" json:"location"`
}

type MemoryPhoto struct {
	ID          string  `db:"id" json:"id"`
	MemoryID    string  `db:"memory_id" json:"memoryId"`
	PhotoURL    string  `db:"photo_url" json:"photoUrl"`
	Description *string `db:"description" json:"description"`
	PhotoIndex  *int    `db:"photo_index" json:"photoIndex"`
}

type FamilyMember struct {
	ID           string   `db:"id" json:"id"`
	PatientID    string   `db:"patient_id" json:"patientId"`
	Name         string   `db:"name" json:"name"`
	Relationship string   `db:"relationship" json:"relationship"`
	PhotoURLs    []string `db:"photo_urls" json:"photoUrls"`
	Notes        *string  `db:"notes" json:"notes"`
}

type TherapySession struct {
	ID        string    `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patientId"`
	Date      time.Time `db:"date" json:"date"`
	Duration  int       `db:"duration" json:"duration"`
	Mood      string    `db:"mood" json:"mood"`
	Notes     *string   `db:"notes" json:"notes"`
	Completed bool      `db:"completed" json:"completed"`
}

type SessionMemory struct {
	ID          string `db:"id" json:"id"`
	SessionID   string `db:"session_id" json:"sessionId"`
	MemoryID    string `db:"memory_id" json:"memoryId"`
	RecallScore int    `db:"recall_score" json:"recallScore"`
}
