// Package certificate implements the certificate store operations and the
// overview statistics.
//
// Every operation is a single statement or a read followed by a single
// write, without transactions. Concurrent writers on the same record are not
// serialized, the last committed write wins.
package certificate

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

const (
	idQueryPattern     = "id = ?"
	numberQueryPattern = "certificate_number = ?"
)

// mutableColumns are written by Update and Patch, zero values included.
var mutableColumns = []string{
	"patient_id", "patient_name", "certificate_type", "title", "description",
	"issued_date", "valid_until", "doctor_name", "issued_by", "status", "notes",
	"updated_by", "updated_at",
}

var (
	// ErrCertificateNotFound is returned when no certificate has the requested id.
	ErrCertificateNotFound = errors.New("certificate not found")
	// ErrCertificateNumberEmpty is returned when a certificate is created without a number.
	ErrCertificateNumberEmpty = errors.New("certificate number is required")
	// ErrCertificateNumberExists is returned when the number is already used by another certificate.
	ErrCertificateNumberExists = errors.New("certificate number already exists")
	// ErrCertificateNumberImmutable is returned when an update tries to change the number.
	ErrCertificateNumberImmutable = errors.New("certificate number cannot be changed")
	// ErrDBNil is returned when the store is nil.
	ErrDBNil = db.ErrDBNil
)

// Controller reads and writes the certificates table.
type Controller struct {
	store *db.Store
	now   func() time.Time
}

// New returns a certificate controller on store.
func New(store *db.Store) (*Controller, error) {
	if store == nil {
		return nil, ErrDBNil
	}

	return &Controller{store: store, now: time.Now}, nil
}

// List returns all certificates in storage order.
func (c *Controller) List(ctx context.Context) ([]models.Certificate, error) {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	certificates := make([]models.Certificate, 0)
	if result := tx.Order("id").Find(&certificates); result.Error != nil {
		return nil, result.Error
	}

	return certificates, nil
}

// Get retrieves a certificate by id.
func (c *Controller) Get(ctx context.Context, id uint64) (*models.Certificate, error) {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	return first(tx, id)
}

func first(tx *gorm.DB, id uint64) (*models.Certificate, error) {
	var certificate models.Certificate

	result := tx.Where(idQueryPattern, id).First(&certificate)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}

		return nil, result.Error
	}

	return &certificate, nil
}

// Create stores in as a new certificate and returns it with the assigned id.
// The certificate number is required and must not be in use. An empty status
// defaults to Active.
func (c *Controller) Create(ctx context.Context, in models.Certificate) (*models.Certificate, error) {
	in.CertificateNumber = strings.TrimSpace(in.CertificateNumber)
	if in.CertificateNumber == "" {
		return nil, ErrCertificateNumberEmpty
	}

	if in.Status == "" {
		in.Status = models.CertificateStatusActive
	}

	in.ID = 0
	in.CreatedAt = time.Time{}
	in.UpdatedAt = time.Time{}

	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	var count int64
	if result := tx.Model(&models.Certificate{}).Where(numberQueryPattern, in.CertificateNumber).Count(&count); result.Error != nil {
		return nil, result.Error
	}

	if count > 0 {
		return nil, ErrCertificateNumberExists
	}

	if result := tx.Create(&in); result.Error != nil {
		// lost the race against a concurrent create, the unique index caught it
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrCertificateNumberExists
		}

		return nil, result.Error
	}

	return &in, nil
}

// Update replaces every mutable field of certificate id with the values of in.
// Fields left empty in the payload are stored empty. The certificate number
// may be omitted but not changed; id, creation time and creator are kept.
func (c *Controller) Update(ctx context.Context, id uint64, in models.Certificate) (*models.Certificate, error) {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	existing, err := first(tx, id)
	if err != nil {
		return nil, err
	}

	if err = checkNumber(existing, in.CertificateNumber); err != nil {
		return nil, err
	}

	existing.PatientID = in.PatientID
	existing.PatientName = in.PatientName
	existing.CertificateType = in.CertificateType
	existing.Title = in.Title
	existing.Description = in.Description
	existing.IssuedDate = in.IssuedDate
	existing.ValidUntil = in.ValidUntil
	existing.DoctorName = in.DoctorName
	existing.IssuedBy = in.IssuedBy
	existing.Status = in.Status
	existing.Notes = in.Notes
	existing.UpdatedBy = in.UpdatedBy

	return write(tx, id, existing)
}

// Patch holds a partial update. Nil fields, absent or null in JSON, are left
// unchanged. An empty string clears a date.
type Patch struct {
	CertificateNumber *string      `json:"certificateNumber" validate:"omitempty,max=100"`
	PatientID         *string      `json:"patientId" validate:"omitempty,max=64"`
	PatientName       *string      `json:"patientName" validate:"omitempty,max=255"`
	CertificateType   *string      `json:"certificateType" validate:"omitempty,max=100"`
	Title             *string      `json:"title" validate:"omitempty,max=255"`
	Description       *string      `json:"description"`
	IssuedDate        *models.Date `json:"issuedDate"`
	ValidUntil        *models.Date `json:"validUntil"`
	DoctorName        *string      `json:"doctorName" validate:"omitempty,max=255"`
	IssuedBy          *string      `json:"issuedBy" validate:"omitempty,max=255"`
	Status            *string      `json:"status" validate:"omitempty,max=50"`
	Notes             *string      `json:"notes"`
	UpdatedBy         *string      `json:"updatedBy" validate:"omitempty,max=100"`
}

// Patch merges the non-nil fields of p into certificate id.
func (c *Controller) Patch(ctx context.Context, id uint64, p Patch) (*models.Certificate, error) {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	existing, err := first(tx, id)
	if err != nil {
		return nil, err
	}

	if p.CertificateNumber != nil {
		if err = checkNumber(existing, *p.CertificateNumber); err != nil {
			return nil, err
		}
	}

	setString(&existing.PatientID, p.PatientID)
	setString(&existing.PatientName, p.PatientName)
	setString(&existing.CertificateType, p.CertificateType)
	setString(&existing.Title, p.Title)
	setString(&existing.Description, p.Description)
	setString(&existing.DoctorName, p.DoctorName)
	setString(&existing.IssuedBy, p.IssuedBy)
	setString(&existing.Status, p.Status)
	setString(&existing.Notes, p.Notes)
	setString(&existing.UpdatedBy, p.UpdatedBy)

	if p.IssuedDate != nil {
		existing.IssuedDate = *p.IssuedDate
	}

	if p.ValidUntil != nil {
		existing.ValidUntil = *p.ValidUntil
	}

	return write(tx, id, existing)
}

// write updates the mutable columns of row id from c and returns the stored
// row. A row deleted after it was read is reported as not found, never
// inserted again.
func write(tx *gorm.DB, id uint64, c *models.Certificate) (*models.Certificate, error) {
	result := tx.Model(&models.Certificate{}).
		Where(idQueryPattern, id).
		Select(mutableColumns).
		Updates(c)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrCertificateNotFound
	}

	return first(tx, id)
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func checkNumber(existing *models.Certificate, number string) error {
	number = strings.TrimSpace(number)
	if number != "" && number != existing.CertificateNumber {
		return ErrCertificateNumberImmutable
	}

	return nil
}

// Delete removes certificate id permanently.
func (c *Controller) Delete(ctx context.Context, id uint64) error {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	result := tx.Where(idQueryPattern, id).Delete(&models.Certificate{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCertificateNotFound
	}

	return nil
}
