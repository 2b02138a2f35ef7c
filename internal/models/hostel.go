package models

import "time"

// RoomType is the hostel room category.
type RoomType string

const (
	RoomSingle RoomType = "Single"
	RoomDouble RoomType = "Double"
	RoomTriple RoomType = "Triple"
)

// RoomTypes lists room types in display order.
func RoomTypes() []RoomType {
	return []RoomType{RoomSingle, RoomDouble, RoomTriple}
}

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	switch t {
	case RoomSingle, RoomDouble, RoomTriple:
		return true
	}
	return false
}

// AllocationStatus is the state of a student's room allocation.
type AllocationStatus string

const (
	AllocationNone     AllocationStatus = ""
	AllocationPending  AllocationStatus = "Pending"
	AllocationActive   AllocationStatus = "Active"
	AllocationInactive AllocationStatus = "Inactive"
)

// An active allocation can be moved to another room (Active -> Active) or
// vacated; it never returns to Pending.
var allocationTransitions = transitionTable[AllocationStatus]{
	AllocationNone:     {AllocationPending, AllocationActive},
	AllocationPending:  {AllocationActive, AllocationInactive},
	AllocationActive:   {AllocationInactive},
	AllocationInactive: {AllocationPending, AllocationActive},
}

// CanTransitionTo reports whether the allocation table allows s -> next.
func (s AllocationStatus) CanTransitionTo(next AllocationStatus) bool {
	if next == AllocationNone {
		return false
	}
	return allocationTransitions.allows(s, next)
}

type HostelPreferences struct {
	RoomType        RoomType `bson:"roomType" json:"roomType"`
	BlockPreference string   `bson:"blockPreference,omitempty" json:"blockPreference,omitempty"`
}

type HostelApplication struct {
	Preferences HostelPreferences `bson:"preferences" json:"preferences"`
	AppliedAt   *time.Time        `bson:"appliedAt,omitempty" json:"appliedAt,omitempty"`
}

type HostelAllocation struct {
	RoomNumber       string           `bson:"roomNumber,omitempty" json:"roomNumber,omitempty"`
	Block            string           `bson:"block,omitempty" json:"block,omitempty"`
	Floor            string           `bson:"floor" json:"floor"`
	RoomType         RoomType         `bson:"roomType,omitempty" json:"roomType,omitempty"`
	MonthlyRent      string           `bson:"monthlyRent,omitempty" json:"monthlyRent,omitempty"`
	Status           AllocationStatus `bson:"status" json:"status"`
	CheckInDate      *time.Time       `bson:"checkInDate,omitempty" json:"checkInDate,omitempty"`
	ExpectedCheckOut *time.Time       `bson:"expectedCheckOut,omitempty" json:"expectedCheckOut,omitempty"`
	Email            *EmailDelivery   `bson:"email,omitempty" json:"email,omitempty"`
}

type HostelPaymentStatus string

const (
	HostelPaymentPaid    HostelPaymentStatus = "Paid"
	HostelPaymentPending HostelPaymentStatus = "Pending"
)

type HostelPayment struct {
	Month  string              `bson:"month" json:"month"`
	Amount float64             `bson:"amount" json:"amount"`
	Status HostelPaymentStatus `bson:"status" json:"status"`
	Date   *time.Time          `bson:"date,omitempty" json:"date,omitempty"`
}

// Hostel is embedded in the student document.
type Hostel struct {
	Applied     bool               `bson:"applied" json:"applied"`
	Application *HostelApplication `bson:"application,omitempty" json:"application,omitempty"`
	Allocation  *HostelAllocation  `bson:"allocation,omitempty" json:"allocation,omitempty"`
	Payments    []HostelPayment    `bson:"payments,omitempty" json:"payments,omitempty"`
}

// AllocationStatus returns the current allocation status, or AllocationNone.
func (h Hostel) AllocationStatus() AllocationStatus {
	if h.Allocation == nil {
		return AllocationNone
	}
	return h.Allocation.Status
}

// HasApplied reports whether an application timestamp was recorded.
func (h Hostel) HasApplied() bool {
	return h.Application != nil && h.Application.AppliedAt != nil
}

// RoomOccupancy is one row of the hostel stats.
type RoomOccupancy struct {
	Type   RoomType `json:"type"`
	Total  int      `json:"total"`
	Filled int      `json:"filled"`
	Empty  int      `json:"empty"`
}

// Roommate is the projection shown to students sharing a room.
type Roommate struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Course    string `json:"course"`
}
