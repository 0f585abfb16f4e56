// Package hr provides employee onboarding, attendance tracking,
// government holidays and task assignment.
package hr

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
)

// Candidate statuses.
const (
	CandidateActive   = "Active"
	CandidateInactive = "Inactive"
)

// Issued asset kinds.
const (
	AssetLaptop = "laptop"
	AssetPhone  = "phone"
)

var (
	phoneRE  = regexp.MustCompile(`^[0-9+\-\s]+$`)
	aadharRE = regexp.MustCompile(`^\d{4}\s?\d{4}\s?\d{4}$`)
	panRE    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	digitsRE = regexp.MustCompile(`^\d+$`)
	emailRE  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Candidate is an onboarding employee record. Code carries the
// employee code; the service assigns the next STA number when the
// caller leaves it empty. Name mirrors the first and last names.
type Candidate struct {
	entity.Catalog

	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`

	// Email is unique across candidates
	Email string `db:"email" json:"email"`

	Gender      string     `db:"gender" json:"gender,omitempty"`
	JoiningDate *time.Time `db:"joining_date" json:"joiningDate,omitempty"`

	PersonalNumber         string `db:"personal_number" json:"personalNumber"`
	EmergencyContactNumber string `db:"emergency_contact_number" json:"emergencyContactNumber,omitempty"`

	// AadharNumber is 12 digits, optionally grouped with spaces
	AadharNumber string `db:"aadhar_number" json:"aadharNumber"`

	// PANNumber is 5 letters, 4 digits, 1 letter
	PANNumber string `db:"pan_number" json:"panNumber"`

	Status string `db:"status" json:"status"`

	CurrentAddress       *string `db:"current_address" json:"currentAddress,omitempty"`
	HighestQualification *string `db:"highest_qualification" json:"highestQualification,omitempty"`
	PreviousEmployer     *string `db:"previous_employer" json:"previousEmployer,omitempty"`

	GrossSalary *decimal.Decimal `db:"gross_salary" json:"grossSalary,omitempty"`
	NetSalary   *decimal.Decimal `db:"net_salary" json:"netSalary,omitempty"`

	BankName      *string `db:"bank_name" json:"bankName,omitempty"`
	AccountNumber *string `db:"account_number" json:"accountNumber,omitempty"`
	IFSCCode      *string `db:"ifsc_code" json:"ifscCode,omitempty"`

	// Asset is "Y" when company equipment was issued
	Asset             string  `db:"asset" json:"asset,omitempty"`
	AssetType         string  `db:"asset_type" json:"assetType,omitempty"`
	LaptopCompanyName string  `db:"laptop_company_name" json:"laptopCompanyName,omitempty"`
	AssetID           *string `db:"asset_id" json:"assetId,omitempty"`
}

// NewCandidate creates a Candidate in Active status.
func NewCandidate(firstName, lastName, email string) *Candidate {
	c := &Candidate{
		Catalog:   entity.NewCatalog("", ""),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Status:    CandidateActive,
	}
	return c
}

// Validate implements entity.Validatable.
func (c *Candidate) Validate(ctx context.Context) error {
	if c.FirstName == "" {
		return apperror.NewValidation("first name is required").
			WithDetail("field", "firstName")
	}
	if c.Email == "" || !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}
	if c.Gender != "" && c.Gender != "Male" && c.Gender != "Female" {
		return apperror.NewValidation("gender must be Male or Female").
			WithDetail("field", "gender")
	}
	if c.PersonalNumber == "" || !phoneRE.MatchString(c.PersonalNumber) {
		return apperror.NewValidation("personal number must contain only digits, +, - or spaces").
			WithDetail("field", "personalNumber")
	}
	if c.EmergencyContactNumber != "" && !phoneRE.MatchString(c.EmergencyContactNumber) {
		return apperror.NewValidation("emergency contact number must contain only digits, +, - or spaces").
			WithDetail("field", "emergencyContactNumber")
	}
	if !aadharRE.MatchString(c.AadharNumber) {
		return apperror.NewValidation("aadhar number must be 12 digits, optionally with spaces").
			WithDetail("field", "aadharNumber")
	}
	if !panRE.MatchString(c.PANNumber) {
		return apperror.NewValidation("pan number must be 5 letters, 4 digits, 1 letter").
			WithDetail("field", "panNumber")
	}
	if c.Status != CandidateActive && c.Status != CandidateInactive {
		return apperror.NewValidation("status must be Active or Inactive").
			WithDetail("field", "status")
	}
	if c.AccountNumber != nil && *c.AccountNumber != "" && !digitsRE.MatchString(*c.AccountNumber) {
		return apperror.NewValidation("account number must contain only digits").
			WithDetail("field", "accountNumber")
	}
	if c.Asset == "Y" && c.AssetType == "" {
		return apperror.NewValidation("asset type is required when an asset is issued").
			WithDetail("field", "assetType")
	}
	if c.AssetType == AssetLaptop && c.LaptopCompanyName == "" {
		return apperror.NewValidation("laptop company name is required for laptop assets").
			WithDetail("field", "laptopCompanyName")
	}
	return nil
}

// CandidateDocument is one uploaded onboarding file.
type CandidateDocument struct {
	ID          id.ID     `db:"id" json:"id"`
	CandidateID id.ID     `db:"candidate_id" json:"candidateId"`
	FileName    string    `db:"file_name" json:"fileName"`
	FilePath    string    `db:"file_path" json:"filePath"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploadedAt"`
}
