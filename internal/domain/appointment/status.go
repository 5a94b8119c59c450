package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

// Appointments are deleted on cancellation, so scheduled is the only
// state a stored appointment is ever in.
const StatusScheduled Status = "scheduled"

func InitialStatus() Status {
	return StatusScheduled
}
