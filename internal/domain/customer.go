package domain

import "time"

// Status is the review state of a customer record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// BasicInfo holds the business-profile fields of a submission.
type BasicInfo struct {
	CompanyName        string `json:"companyName"`
	RegistrationNumber string `json:"registrationNumber"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email,omitempty"`
	Website            string `json:"website,omitempty"`
	Industry           string `json:"industry,omitempty"`
}

// OwnerDetails holds the personal-identity fields of the business owner.
type OwnerDetails struct {
	FullName   string `json:"fullName"`
	NationalID string `json:"nationalId"`
	BirthDate  string `json:"birthDate,omitempty"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// CustomerRecord is a business-onboarding profile. One record per owning
// identity; repeated submissions overwrite the structured fields and append
// to Attachments. Status starts at pending and is mutated only by staff.
type CustomerRecord struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"ownerId"`
	BasicInfo    BasicInfo    `json:"basicInfo"`
	OwnerDetails OwnerDetails `json:"ownerDetails"`
	Attachments  []string     `json:"attachments"`
	Declaration  bool         `json:"declaration"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`

	// Owner is resolved on staff reads (list, status update); nil otherwise.
	Owner *UserSummary `json:"owner,omitempty"`
}

// SubmitInput carries the parsed content of one submission.
type SubmitInput struct {
	BasicInfo    BasicInfo
	OwnerDetails OwnerDetails
	Declaration  bool
	Attachments  []string
}
