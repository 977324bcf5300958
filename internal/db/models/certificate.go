package models

import "time"

// Certificate statuses with special meaning in the overview statistics.
// Any other status string is stored as given.
const (
	CertificateStatusActive    = "Active"
	CertificateStatusExpired   = "Expired"
	CertificateStatusRevoked   = "Revoked"
	CertificateStatusCancelled = "Cancelled"
)

// Certificate is one document issued for a patient.
type Certificate struct {
	// ID is assigned by the store and never changes.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// CertificateNumber is the unique human readable code, fixed at creation.
	CertificateNumber string `gorm:"column:certificate_number;size:100;uniqueIndex;not null" json:"certificateNumber" validate:"max=100"`
	// PatientID is a soft reference, no foreign key is enforced.
	PatientID       string `gorm:"column:patient_id;size:64;index" json:"patientId" validate:"max=64"`
	PatientName     string `gorm:"column:patient_name;size:255"    json:"patientName" validate:"max=255"`
	CertificateType string `gorm:"column:certificate_type;size:100" json:"certificateType" validate:"max=100"`
	Title           string `gorm:"column:title;size:255"           json:"title" validate:"max=255"`
	Description     string `gorm:"column:description;type:text"    json:"description"`
	IssuedDate      Date   `gorm:"column:issued_date;type:date"    json:"issuedDate"`
	ValidUntil      Date   `gorm:"column:valid_until;type:date"    json:"validUntil"`
	DoctorName      string `gorm:"column:doctor_name;size:255"     json:"doctorName" validate:"max=255"`
	IssuedBy        string `gorm:"column:issued_by;size:255"       json:"issuedBy" validate:"max=255"`
	Status          string `gorm:"column:status;size:50;index"     json:"status" validate:"max=50"`
	Notes           string `gorm:"column:notes;type:text"          json:"notes"`
	// CreatedBy and UpdatedBy are supplied by the caller.
	CreatedBy string    `gorm:"column:created_by;size:100" json:"createdBy" validate:"max=100"`
	UpdatedBy string    `gorm:"column:updated_by;size:100" json:"updatedBy" validate:"max=100"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Certificate.
func (Certificate) TableName() string {
	return "certificates"
}
