package models

import "time"

// AdminDashboard is the society-wide snapshot shown to administrators.
type AdminDashboard struct {
	TotalSocieties    int                `json:"total_societies"`
	TotalFlats        int                `json:"total_flats"`
	TotalOwners       int                `json:"total_owners"`
	ActiveTenancies   int                `json:"active_tenancies"`
	TotalBills        int                `json:"total_bills"`
	UnpaidBills       int                `json:"unpaid_bills"`
	RecentOwners      []*User            `json:"recent_owners"`
	RecentUnpaidBills []*MaintenanceBill `json:"recent_unpaid_bills"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// OwnerDashboard summarizes a single owner's flats, tenancies and billing.
type OwnerDashboard struct {
	Flats           int                `json:"flats"`
	ActiveTenancies int                `json:"active_tenancies"`
	TotalBills      int                `json:"total_bills"`
	UnpaidBills     int                `json:"unpaid_bills"`
	RecentBills     []*MaintenanceBill `json:"recent_bills"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// TenantDashboard shows a tenant their residence and its billing history.
type TenantDashboard struct {
	Tenancy *Tenancy           `json:"tenancy"`
	Flat    *Flat              `json:"flat"`
	Society *Society           `json:"society"`
	Owner   *User              `json:"owner"`
	Bills   []*MaintenanceBill `json:"bills"`
}
