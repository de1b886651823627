package domain

import "time"

// Appointment belongs to a Person. Available == false means it is booked.
type Appointment struct {
	ID        string    `json:"id"`
	PersonID  string    `json:"person_id"`
	StartsAt  time.Time `json:"starts_at"`
	Available bool      `json:"available"`
}

// HasBookedAppointment reports whether any appointment is currently occupied.
func HasBookedAppointment(appts []Appointment) bool {
	for _, a := range appts {
		if !a.Available {
			return true
		}
	}
	return false
}
