package models

import "time"

// HostelOccupancy summarises bed usage across the hostel. Rate is a whole
// percentage.
type HostelOccupancy struct {
	Occupied int     `json:"occupied"`
	Capacity int     `json:"capacity"`
	Rate     float64 `json:"rate"`
}

// DashboardStats feeds the staff landing page.
type DashboardStats struct {
	TotalStudents          int64           `json:"totalStudents"`
	PendingAdmissions      int64           `json:"pendingAdmissions"`
	HostelOccupancy        HostelOccupancy `json:"hostelOccupancy"`
	FeesCollectedThisMonth float64         `json:"feesCollectedThisMonth"`
	FeesCollected          string          `json:"feesCollected"`
	GeneratedAt            time.Time       `json:"generatedAt"`
}
