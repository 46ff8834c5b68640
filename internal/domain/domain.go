package domain

import (
	"strings"
	"time"
)

// GeoPoint is a WGS84 coordinate, either taken from the farm record or
// captured on the device during the photo step.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is the crop record being verified, resolved once at workflow
// start. It is read-only afterwards except for Location, which a device
// reading may replace during the capture step.
type Listing struct {
	CropID   string    `json:"crop_id"`
	OwnerID  string    `json:"owner_id"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
	Village  string    `json:"village"`
	Taluk    string    `json:"taluk"`
	District string    `json:"district"`
	CropName string    `json:"crop_name"`
	Quantity string    `json:"quantity,omitempty"`
	Variety  string    `json:"variety,omitempty"`
	Moisture string    `json:"moisture,omitempty"`
	WillDry  string    `json:"will_dry,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// IsMaize reports whether the maize-only fields (Moisture, WillDry) apply.
func (l Listing) IsMaize() bool {
	return strings.EqualFold(l.CropName, "maize")
}

// VerificationStatus is the backend's view of a prior verification attempt.
type VerificationStatus string

const (
	StatusNone     VerificationStatus = ""
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

// VerificationState gates new submissions for an owner. CanSubmit is kept
// consistent with Status: pending/approved block, rejected/none permit.
type VerificationState struct {
	HasVerification bool               `json:"has_verification"`
	CanSubmit       bool               `json:"can_submit"`
	Status          VerificationStatus `json:"status,omitempty"`
	BlockMessage    string             `json:"block_message,omitempty"`
	ExistingID      string             `json:"existing_id,omitempty"`
}

// CapturedPhoto is one encoded evidence still. Index is its position in the
// capture sequence and is recomputed when earlier photos are removed.
type CapturedPhoto struct {
	Index   int       `json:"index"`
	JPEG    []byte    `json:"-"`
	TakenAt time.Time `json:"taken_at"`
}

// SubmissionReceipt is what a successful submission returns. IsResubmission
// is recorded for observability only.
type SubmissionReceipt struct {
	RequestID      string `json:"request_id,omitempty"`
	IsResubmission bool   `json:"is_resubmission,omitempty"`
}
