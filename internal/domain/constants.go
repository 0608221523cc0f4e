package domain

const (
	RoleTenant   = "TENANT"
	RoleLandlord = "LANDLORD"
	RoleAdmin    = "ADMIN"
)

const (
	ListingStatusPending  = "PENDING"
	ListingStatusAccepted = "ACCEPTED"
	ListingStatusRejected = "REJECTED"
)

const (
	TransactionStatusPending = "PENDING"
	TransactionStatusSuccess = "SUCCESS"
	TransactionStatusFailed  = "FAILED"
)

const (
	InspectionStatusScheduled = "SCHEDULED"
	InspectionStatusConfirmed = "CONFIRMED"
	InspectionStatusCancelled = "CANCELLED"
)

// Allowed part-payment percentages a landlord can require upfront.
var PartPaymentOptions = []string{"10%", "20%", "30%"}

func ValidInspectionStatus(s string) bool {
	switch s {
	case InspectionStatusScheduled, InspectionStatusConfirmed, InspectionStatusCancelled:
		return true
	}
	return false
}
