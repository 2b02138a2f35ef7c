package models

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender enumerates accepted applicant genders.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// AdmissionStatus is the review state of an application.
type AdmissionStatus string

const (
	AdmissionPending     AdmissionStatus = "Pending"
	AdmissionUnderReview AdmissionStatus = "Under Review"
	AdmissionApproved    AdmissionStatus = "Approved"
	AdmissionRejected    AdmissionStatus = "Rejected"
)

// Approved is terminal. A rejected application may only be reopened for review.
var admissionTransitions = transitionTable[AdmissionStatus]{
	AdmissionPending:     {AdmissionUnderReview, AdmissionApproved, AdmissionRejected},
	AdmissionUnderReview: {AdmissionPending, AdmissionApproved, AdmissionRejected},
	AdmissionRejected:    {AdmissionUnderReview},
}

// Valid reports whether s is one of the known statuses.
func (s AdmissionStatus) Valid() bool {
	switch s {
	case AdmissionPending, AdmissionUnderReview, AdmissionApproved, AdmissionRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the admission table allows s -> next.
func (s AdmissionStatus) CanTransitionTo(next AdmissionStatus) bool {
	return next.Valid() && admissionTransitions.allows(s, next)
}

var studentIDPattern = regexp.MustCompile(`^STU\d{4}\d{4}$`)

// FormatStudentID renders the enrolment identifier, e.g. STU20250042.
func FormatStudentID(year, seq int) string {
	return fmt.Sprintf("STU%04d%04d", year, seq%10000)
}

// IsStudentID reports whether id has the STU<year><4 digits> shape.
func IsStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

type Address struct {
	Street  string `bson:"street" json:"street" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	State   string `bson:"state" json:"state" validate:"required"`
	ZipCode string `bson:"zipCode" json:"zipCode" validate:"required"`
	Country string `bson:"country" json:"country" validate:"required"`
}

type PreviousEducation struct {
	Institution   string   `bson:"institution" json:"institution" validate:"required"`
	Qualification string   `bson:"qualification" json:"qualification" validate:"required"`
	YearOfPassing int      `bson:"yearOfPassing" json:"yearOfPassing" validate:"required,gte=1900,lte=2100"`
	Percentage    *float64 `bson:"percentage" json:"percentage" validate:"required,gte=0,lte=100"`
}

type AcademicInfo struct {
	Course            string            `bson:"course" json:"course" validate:"required"`
	Semester          string            `bson:"semester" json:"semester" validate:"required"`
	PreviousEducation PreviousEducation `bson:"previousEducation" json:"previousEducation"`
}

type EmergencyContact struct {
	Name         string `bson:"name" json:"name" validate:"required"`
	Relationship string `bson:"relationship" json:"relationship" validate:"required"`
	Phone        string `bson:"phone" json:"phone" validate:"required"`
	Email        string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
}

// Documents holds storage-relative paths of uploaded files.
type Documents struct {
	ProfilePhoto         string   `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	IDProof              string   `bson:"idProof,omitempty" json:"idProof,omitempty"`
	AddressProof         string   `bson:"addressProof,omitempty" json:"addressProof,omitempty"`
	AcademicCertificates []string `bson:"academicCertificates,omitempty" json:"academicCertificates,omitempty"`
	OtherDocuments       []string `bson:"otherDocuments,omitempty" json:"otherDocuments,omitempty"`
}

// Paths lists every stored file reference.
func (d *Documents) Paths() []string {
	if d == nil {
		return nil
	}
	paths := make([]string, 0, 3+len(d.AcademicCertificates)+len(d.OtherDocuments))
	for _, p := range []string{d.ProfilePhoto, d.IDProof, d.AddressProof} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, d.AcademicCertificates...)
	return append(paths, d.OtherDocuments...)
}

// Student is one applicant or enrolled student.
type Student struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone" json:"phone"`
	DateOfBirth      time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender           Gender             `bson:"gender" json:"gender"`
	Nationality      string             `bson:"nationality" json:"nationality"`
	Address          Address            `bson:"address" json:"address"`
	AcademicInfo     AcademicInfo       `bson:"academicInfo" json:"academicInfo"`
	Documents        *Documents         `bson:"documents,omitempty" json:"documents,omitempty"`
	EmergencyContact EmergencyContact   `bson:"emergencyContact" json:"emergencyContact"`
	AdmissionStatus  AdmissionStatus    `bson:"admissionStatus" json:"admissionStatus"`
	StudentID        string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
	PasswordHash     string             `bson:"passwordHash,omitempty" json:"-"`
	CredentialEmail  *EmailDelivery     `bson:"credentialEmail,omitempty" json:"credentialEmail,omitempty"`
	Hostel           Hostel             `bson:"hostel" json:"hostel"`
	SubmittedAt      time.Time          `bson:"submittedAt" json:"submittedAt"`
	ReviewedAt       *time.Time         `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ApprovedAt       *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version          int64              `bson:"version" json:"version"`
}

// FullName joins first and last name.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// TransitionAdmission moves the application to next and stamps the review
// timestamps. enteredApproval is true only when the student was not already
// Approved, which is when approval side effects must run.
func (s *Student) TransitionAdmission(next AdmissionStatus, now time.Time) (enteredApproval bool, err error) {
	if !s.AdmissionStatus.CanTransitionTo(next) {
		return false, &TransitionError{Entity: "admission", From: string(s.AdmissionStatus), To: string(next)}
	}
	enteredApproval = next == AdmissionApproved && s.AdmissionStatus != AdmissionApproved
	s.AdmissionStatus = next
	s.ReviewedAt = &now
	if enteredApproval {
		s.ApprovedAt = &now
	}
	return enteredApproval, nil
}

// StudentFilter narrows admission and student listings.
type StudentFilter struct {
	Status AdmissionStatus
	PageRequest
}

// AdmissionStatusView is the public subset returned by the status checker.
type AdmissionStatusView struct {
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	AdmissionStatus AdmissionStatus `json:"admissionStatus"`
	StudentID       string          `json:"studentId,omitempty"`
	SubmittedAt     time.Time       `json:"submittedAt"`
	ReviewedAt      *time.Time      `json:"reviewedAt,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
}

// StatusView projects the public status fields.
func (s *Student) StatusView() AdmissionStatusView {
	return AdmissionStatusView{
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Email:           s.Email,
		AdmissionStatus: s.AdmissionStatus,
		StudentID:       s.StudentID,
		SubmittedAt:     s.SubmittedAt,
		ReviewedAt:      s.ReviewedAt,
		ApprovedAt:      s.ApprovedAt,
	}
}
