package app

import (
	"time"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/repository/memstore"
)

// seedDemo fills an in-memory store with a few pending bookings, staff and
// one team so the API can be exercised without PostgreSQL.
func seedDemo(store *memstore.Store) {
	now := time.Now().UTC()
	for i, svc := range []string{"standard", "deep", "move_out"} {
		id := int64(i + 1)
		store.PutBooking(domain.Booking{
			ID:            id,
			Customer:      domain.Customer{Name: "Demo customer", Email: "customer@example.com"},
			ServiceType:   svc,
			PreferredDate: now.AddDate(0, 0, i+1),
			PreferredTime: "09:00",
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	store.PutStaff(domain.StaffMember{ID: 1, Name: "Alice", Email: "alice@example.com", Status: domain.StaffActive})
	store.PutStaff(domain.StaffMember{ID: 2, Name: "Bob", Email: "bob@example.com", Status: domain.StaffActive})
	store.PutStaff(domain.StaffMember{ID: 3, Name: "Carol", Email: "carol@example.com", Status: domain.StaffOnLeave})

	store.PutTeam(domain.Team{ID: 1, Name: "Downtown crew", Status: domain.TeamActive})
	store.AddTeamMember(domain.TeamMember{TeamID: 1, StaffID: 1, Role: domain.RoleLeader})
	store.AddTeamMember(domain.TeamMember{TeamID: 1, StaffID: 2, Role: domain.RoleMember})
}
