package inmemdb

import "github.com/trezcool/eduhelp/core/dashboard"

// Seed (re)loads the demo collections. Sessions are left untouched.
func (db *DB) Seed() {
	for _, r := range []dashboard.Request{
		{ID: "001", Name: "John Smith", Email: "john@example.com", Subject: "Mathematics", ServiceType: "Tutoring",
			Date: "2025-11-08", Status: dashboard.RequestPending, Price: 30, PaymentStatus: dashboard.PaymentPending, Progress: 0},
		{ID: "002", Name: "Sarah Johnson", Email: "sarah@example.com", Subject: "Physics", ServiceType: "Assignment Help",
			Date: "2025-11-07", Status: dashboard.RequestApproved, Price: 50, PaymentStatus: dashboard.PaymentPaid, Progress: 65},
		{ID: "003", Name: "Mike Chen", Email: "mike@example.com", Subject: "Computer Science", ServiceType: "Instant Help",
			Date: "2025-11-06", Status: dashboard.RequestCompleted, Price: 75, PaymentStatus: dashboard.PaymentPaid, Progress: 100},
	} {
		db.request.insert(r.ID, r)
	}

	for _, u := range []dashboard.User{
		{ID: "U001", Name: "John Smith", Email: "john@example.com", JoinDate: "2025-09-15", Status: dashboard.Active, TotalSessions: 12, TotalSpent: 380},
		{ID: "U002", Name: "Sarah Johnson", Email: "sarah@example.com", JoinDate: "2025-08-20", Status: dashboard.Active, TotalSessions: 8, TotalSpent: 250},
		{ID: "U003", Name: "Mike Chen", Email: "mike@example.com", JoinDate: "2025-10-01", Status: dashboard.Inactive, TotalSessions: 5, TotalSpent: 150},
	} {
		db.user.insert(u.ID, u)
	}

	for _, t := range []dashboard.Tutor{
		{ID: "T001", Name: "Dr. Sarah Johnson", Email: "sarah.tutor@example.com", Subjects: []string{"Mathematics", "Physics"},
			Rating: 4.9, TotalSessions: 156, Status: dashboard.Active, HourlyRate: 30},
		{ID: "T002", Name: "Prof. Michael Chen", Email: "michael.tutor@example.com", Subjects: []string{"Physics", "Chemistry"},
			Rating: 4.8, TotalSessions: 142, Status: dashboard.Active, HourlyRate: 35},
		{ID: "T003", Name: "Dr. Emily Davis", Email: "emily.tutor@example.com", Subjects: []string{"Chemistry", "Biology"},
			Rating: 5.0, TotalSessions: 98, Status: dashboard.Active, HourlyRate: 32},
	} {
		db.tutor.insert(t.ID, t)
	}

	for _, s := range []dashboard.Session{
		{ID: "S001", Student: "John Smith", Tutor: "Dr. Sarah Johnson", Subject: "Mathematics",
			Date: "2025-11-08", Time: "2:00 PM", Duration: "60 min", Status: dashboard.SessionScheduled},
		{ID: "S002", Student: "Sarah Johnson", Tutor: "Prof. Michael Chen", Subject: "Physics",
			Date: "2025-11-10", Time: "4:00 PM", Duration: "90 min", Status: dashboard.SessionScheduled},
		{ID: "S003", Student: "Mike Chen", Tutor: "Dr. Emily Davis", Subject: "Chemistry",
			Date: "2025-11-05", Time: "3:00 PM", Duration: "60 min", Status: dashboard.SessionCompleted},
	} {
		db.tutorSess.insert(s.ID, s)
	}

	for _, t := range []dashboard.Testimonial{
		{ID: "TM001", Name: "John Smith", Role: "High School Student",
			Content: "The tutoring sessions helped me improve my math grade from a C to an A!", Rating: 5, IsPublished: true},
		{ID: "TM002", Name: "Sarah Johnson", Role: "College Student",
			Content: "Excellent physics tutoring. Very knowledgeable and patient.", Rating: 5, IsPublished: true},
		{ID: "TM003", Name: "Mike Chen", Role: "University Student",
			Content: "Great assignment help! Delivered on time and explained everything clearly.", Rating: 4, IsPublished: false},
	} {
		db.testimonial.insert(t.ID, t)
	}

	for _, p := range []dashboard.PricingItem{
		{ID: "P001", Service: "One-on-One Tutoring", Price: 30, Description: "Personalized tutoring session with expert tutors"},
		{ID: "P002", Service: "Assignment Help", Price: 50, Description: "Professional help with your assignments"},
		{ID: "P003", Service: "Instant Help (24hrs)", Price: 75, Description: "Quick turnaround for urgent requests"},
	} {
		db.pricing.insert(p.ID, p)
	}

	db.student = studentData{
		upcoming: []dashboard.UpcomingSession{
			{ID: "1", Subject: "Mathematics", Tutor: "Dr. Sarah Johnson", Date: "2025-11-08", Time: "2:00 PM", Duration: "60 min", MeetingLink: "#"},
			{ID: "2", Subject: "Physics", Tutor: "Prof. Michael Chen", Date: "2025-11-10", Time: "4:00 PM", Duration: "90 min", MeetingLink: "#"},
		},
		assignments: []dashboard.Assignment{
			{ID: "1", Title: "Calculus Problem Set 5", Subject: "Mathematics", DueDate: "2025-11-12", Progress: 75,
				Status: dashboard.WorkInProgress, Tutor: "Dr. Sarah Johnson"},
			{ID: "2", Title: "Quantum Mechanics Essay", Subject: "Physics", DueDate: "2025-11-15", Progress: 30,
				Status: dashboard.WorkInProgress, Tutor: "Prof. Michael Chen"},
			{ID: "3", Title: "Chemical Reactions Lab Report", Subject: "Chemistry", DueDate: "2025-11-05", Progress: 100,
				Status: dashboard.WorkCompleted, Tutor: "Dr. Emily Davis"},
		},
		invoices: []dashboard.Invoice{
			{ID: "1", Service: "One-on-One Tutoring", Amount: 30, Date: "2025-11-01", Status: dashboard.InvoicePaid, Number: "INV-001"},
			{ID: "2", Service: "Assignment Help", Amount: 50, Date: "2025-11-03", Status: dashboard.InvoicePaid, Number: "INV-002"},
			{ID: "3", Service: "Instant Help (24hrs)", Amount: 75, Date: "2025-11-06", Status: dashboard.InvoicePending, Number: "INV-003"},
		},
		pastSessions: []dashboard.PastSession{
			{ID: "1", Subject: "Chemistry", Tutor: "Dr. Emily Davis", Date: "2025-10-28", Duration: "60 min", Rating: 5},
			{ID: "2", Subject: "Mathematics", Tutor: "Dr. Sarah Johnson", Date: "2025-10-25", Duration: "90 min", Rating: 5},
			{ID: "3", Subject: "English Literature", Tutor: "Prof. James Wilson", Date: "2025-10-20", Duration: "60 min", Rating: 4},
		},
	}
}
