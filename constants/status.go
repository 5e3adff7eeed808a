package constants

// ServiceStatus values the portal recognizes on a service row.
type ServiceStatus string

const (
	ServiceNotRequired ServiceStatus = "Not Required"
	ServiceApproved    ServiceStatus = "Approved"
	ServicePartial     ServiceStatus = "Partial"
)

// ServiceStatuses is the closed set a decoded table cell may match.
var ServiceStatuses = []string{
	string(ServiceNotRequired),
	string(ServiceApproved),
	string(ServicePartial),
}

// ServiceTypes is the closed set of service-type labels on the form.
var ServiceTypes = []string{"Imaging", "Lab", "Services", "Consultation"}
