package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/id"
	"orderflow/internal/domain/hr"
)

// --- Candidate ---

// CreateCandidateRequest creates a candidate. The employee code is
// auto-assigned when omitted.
type CreateCandidateRequest struct {
	Code                   string           `json:"code"`
	FirstName              string           `json:"firstName" binding:"required"`
	LastName               string           `json:"lastName"`
	Email                  string           `json:"email" binding:"required"`
	Gender                 string           `json:"gender"`
	JoiningDate            *time.Time       `json:"joiningDate"`
	PersonalNumber         string           `json:"personalNumber" binding:"required"`
	EmergencyContactNumber string           `json:"emergencyContactNumber"`
	AadharNumber           string           `json:"aadharNumber" binding:"required"`
	PANNumber              string           `json:"panNumber" binding:"required"`
	CurrentAddress         *string          `json:"currentAddress"`
	HighestQualification   *string          `json:"highestQualification"`
	PreviousEmployer       *string          `json:"previousEmployer"`
	GrossSalary            *decimal.Decimal `json:"grossSalary"`
	NetSalary              *decimal.Decimal `json:"netSalary"`
	BankName               *string          `json:"bankName"`
	AccountNumber          *string          `json:"accountNumber"`
	IFSCCode               *string          `json:"ifscCode"`
	Asset                  string           `json:"asset"`
	AssetType              string           `json:"assetType"`
	LaptopCompanyName      string           `json:"laptopCompanyName"`
	AssetID                *string          `json:"assetId"`
}

// ToModel maps the request onto a new candidate.
func (r CreateCandidateRequest) ToModel() *hr.Candidate {
	c := hr.NewCandidate(r.FirstName, r.LastName, r.Email)
	c.Code = r.Code
	c.Gender = r.Gender
	c.JoiningDate = r.JoiningDate
	c.PersonalNumber = r.PersonalNumber
	c.EmergencyContactNumber = r.EmergencyContactNumber
	c.AadharNumber = r.AadharNumber
	c.PANNumber = r.PANNumber
	c.CurrentAddress = r.CurrentAddress
	c.HighestQualification = r.HighestQualification
	c.PreviousEmployer = r.PreviousEmployer
	c.GrossSalary = r.GrossSalary
	c.NetSalary = r.NetSalary
	c.BankName = r.BankName
	c.AccountNumber = r.AccountNumber
	c.IFSCCode = r.IFSCCode
	c.Asset = r.Asset
	c.AssetType = r.AssetType
	c.LaptopCompanyName = r.LaptopCompanyName
	c.AssetID = r.AssetID
	return c
}

// UpdateCandidateRequest updates candidate fields. Nil fields keep the
// current value.
type UpdateCandidateRequest struct {
	FirstName              *string          `json:"firstName"`
	LastName               *string          `json:"lastName"`
	Email                  *string          `json:"email"`
	Gender                 *string          `json:"gender"`
	JoiningDate            *time.Time       `json:"joiningDate"`
	PersonalNumber         *string          `json:"personalNumber"`
	EmergencyContactNumber *string          `json:"emergencyContactNumber"`
	AadharNumber           *string          `json:"aadharNumber"`
	PANNumber              *string          `json:"panNumber"`
	Status                 *string          `json:"status"`
	CurrentAddress         *string          `json:"currentAddress"`
	HighestQualification   *string          `json:"highestQualification"`
	PreviousEmployer       *string          `json:"previousEmployer"`
	GrossSalary            *decimal.Decimal `json:"grossSalary"`
	NetSalary              *decimal.Decimal `json:"netSalary"`
	BankName               *string          `json:"bankName"`
	AccountNumber          *string          `json:"accountNumber"`
	IFSCCode               *string          `json:"ifscCode"`
	Asset                  *string          `json:"asset"`
	AssetType              *string          `json:"assetType"`
	LaptopCompanyName      *string          `json:"laptopCompanyName"`
	AssetID                *string          `json:"assetId"`
}

// Apply overlays non-nil fields onto the existing candidate.
func (r UpdateCandidateRequest) Apply(c *hr.Candidate) *hr.Candidate {
	if r.FirstName != nil {
		c.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		c.LastName = *r.LastName
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Gender != nil {
		c.Gender = *r.Gender
	}
	if r.JoiningDate != nil {
		c.JoiningDate = r.JoiningDate
	}
	if r.PersonalNumber != nil {
		c.PersonalNumber = *r.PersonalNumber
	}
	if r.EmergencyContactNumber != nil {
		c.EmergencyContactNumber = *r.EmergencyContactNumber
	}
	if r.AadharNumber != nil {
		c.AadharNumber = *r.AadharNumber
	}
	if r.PANNumber != nil {
		c.PANNumber = *r.PANNumber
	}
	if r.Status != nil {
		c.Status = *r.Status
	}
	if r.CurrentAddress != nil {
		c.CurrentAddress = r.CurrentAddress
	}
	if r.HighestQualification != nil {
		c.HighestQualification = r.HighestQualification
	}
	if r.PreviousEmployer != nil {
		c.PreviousEmployer = r.PreviousEmployer
	}
	if r.GrossSalary != nil {
		c.GrossSalary = r.GrossSalary
	}
	if r.NetSalary != nil {
		c.NetSalary = r.NetSalary
	}
	if r.BankName != nil {
		c.BankName = r.BankName
	}
	if r.AccountNumber != nil {
		c.AccountNumber = r.AccountNumber
	}
	if r.IFSCCode != nil {
		c.IFSCCode = r.IFSCCode
	}
	if r.Asset != nil {
		c.Asset = *r.Asset
	}
	if r.AssetType != nil {
		c.AssetType = *r.AssetType
	}
	if r.LaptopCompanyName != nil {
		c.LaptopCompanyName = *r.LaptopCompanyName
	}
	if r.AssetID != nil {
		c.AssetID = r.AssetID
	}
	return c
}

// AttachCandidateDocumentRequest records one uploaded onboarding file.
type AttachCandidateDocumentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FilePath string `json:"filePath" binding:"required"`
}

// --- Attendance ---

// PunchRequest records a check-in or check-out. At defaults to now.
type PunchRequest struct {
	At *time.Time `json:"at"`
}

// CreateHolidayRequest registers a government holiday.
type CreateHolidayRequest struct {
	Day         time.Time `json:"day" binding:"required"`
	Description string    `json:"description"`
}

// ToModel maps the request onto a new holiday.
func (r CreateHolidayRequest) ToModel() *hr.Holiday {
	return &hr.Holiday{Day: r.Day, Description: r.Description}
}

// --- Tasks ---

// CreateTaskRequest creates a task.
type CreateTaskRequest struct {
	Name       string    `json:"name" binding:"required"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	DueDate    time.Time `json:"dueDate" binding:"required"`
	AssignedTo id.ID     `json:"assignedTo" binding:"required"`
	Priority   string    `json:"priority"`
}

// ToModel maps the request onto a new task.
func (r CreateTaskRequest) ToModel() *hr.Task {
	t := hr.NewTask(r.Name, r.AssignedTo)
	if r.Status != "" {
		t.Status = r.Status
	}
	if r.Priority != "" {
		t.Priority = r.Priority
	}
	t.StartDate = r.StartDate
	t.DueDate = r.DueDate
	return t
}

// UpdateTaskRequest updates task fields. Nil fields keep the current
// value.
type UpdateTaskRequest struct {
	Name       *string    `json:"name"`
	Status     *string    `json:"status"`
	StartDate  *time.Time `json:"startDate"`
	DueDate    *time.Time `json:"dueDate"`
	AssignedTo *id.ID     `json:"assignedTo"`
	Priority   *string    `json:"priority"`
}

// Apply overlays non-nil fields onto the existing task.
func (r UpdateTaskRequest) Apply(t *hr.Task) *hr.Task {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	if r.StartDate != nil {
		t.StartDate = *r.StartDate
	}
	if r.DueDate != nil {
		t.DueDate = *r.DueDate
	}
	if r.AssignedTo != nil {
		t.AssignedTo = *r.AssignedTo
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	return t
}
