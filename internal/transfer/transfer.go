package transfer

import (
	"regexp"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

func (a Action) Valid() bool {
	return a == ActionAccept || a == ActionReject
}

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Transfer is a request to move one patient from one caregiver to another.
// TransferToken is a correlation value only; nothing authorizes with it.
type Transfer struct {
	ID              string
	PatientID       string
	FromCaregiverID string
	ToCaregiverID   string
	Status          Status
	Message         *string
	TransferToken   string
	ExpiresAt       time.Time
	RespondedAt     *time.Time
	CreatedAt       time.Time
}

// ExpiredAt reports whether the acceptance window has closed at now.
func (t Transfer) ExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Identity is the authenticated caregiver a call is made on behalf of.
type Identity struct {
	CaregiverID string
	Email       string
	Name        string
}

type Caregiver struct {
	ID    string
	Name  string
	Email string
}

type Patient struct {
	ID          string
	CaregiverID string
	Name        string
	PhotoURL    *string
}

type InitiateInput struct {
	PatientID      string
	RecipientEmail string
	Message        string
}

// Summary is returned to the sender after a transfer is created.
type Summary struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patientId"`
	PatientName    string    `json:"patientName"`
	RecipientName  string    `json:"recipientName"`
	RecipientEmail string    `json:"recipientEmail"`
	Status         Status    `json:"status"`
	Message        *string   `json:"message"`
	ExpiresAt      time.Time `json:"expiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListItem is a transfer as shown in a caregiver's inbox or outbox.
type ListItem struct {
	ID                  string     `json:"id"`
	PatientID           string     `json:"patientId"`
	PatientName         string     `json:"patientName"`
	PatientPhoto        *string    `json:"patientPhoto"`
	OtherCaregiverName  string     `json:"otherCaregiverName"`
	OtherCaregiverEmail string     `json:"otherCaregiverEmail"`
	Status              Status     `json:"status"`
	Message             *string    `json:"message"`
	ExpiresAt           time.Time  `json:"expiresAt"`
	RespondedAt         *time.Time `json:"respondedAt"`
	CreatedAt           time.Time  `json:"createdAt"`
	Direction           Direction  `json:"direction"`
}

type Listing struct {
	Incoming []ListItem `json:"incoming"`
	Outgoing []ListItem `json:"outgoing"`
}

type RespondResult struct {
	TransferID string
	PatientID  string
	Status     Status
}

// Event is a single state change, recorded in history and published to the outbox.
type Event struct {
	TransferID      string    `json:"transferId"`
	PatientID       string    `json:"patientId"`
	FromCaregiverID string    `json:"fromCaregiverId"`
	ToCaregiverID   string    `json:"toCaregiverId"`
	Status          Status    `json:"status"`
	ActorID         string    `json:"actorId,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

func newEvent(t Transfer, status Status, actorID string, at time.Time) Event {
	return Event{
		TransferID:      t.ID,
		PatientID:       t.PatientID,
		FromCaregiverID: t.FromCaregiverID,
		ToCaregiverID:   t.ToCaregiverID,
		Status:          status,
		ActorID:         actorID,
		OccurredAt:      at,
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail is the form emails are compared and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
