package dto

// StudentDashboard aggregates a student's own passes and counters.
type StudentDashboard struct {
	TotalRequests    int64                  `json:"total_requests"`
	PendingRequests  int64                  `json:"pending_requests"`
	ApprovedRequests int64                  `json:"approved_requests"`
	RejectedRequests int64                  `json:"rejected_requests"`
	GatePasses       []GatePassResponse     `json:"gatepasses"`
	Notifications    []NotificationResponse `json:"notifications"`
}

// WardenDashboard aggregates the request queues a warden works through.
type WardenDashboard struct {
	TotalPending    int64                  `json:"total_pending"`
	TotalApproved   int64                  `json:"total_approved"`
	TotalRejected   int64                  `json:"total_rejected"`
	TotalReturned   int64                  `json:"total_returned"`
	StudentsOut     int64                  `json:"students_out"`
	PendingRequests []GatePassResponse     `json:"pending_requests"`
	RecentApproved  []GatePassResponse     `json:"recent_approved"`
	RecentRejected  []GatePassResponse     `json:"recent_rejected"`
	Notifications   []NotificationResponse `json:"notifications"`
}

// SecurityDashboard aggregates the gate queues security works through.
type SecurityDashboard struct {
	AwaitingApproval []GatePassResponse     `json:"awaiting_approval"`
	StudentsOut      []GatePassResponse     `json:"students_out"`
	RecentReturns    []GatePassResponse     `json:"recent_returns"`
	TotalPending     int64                  `json:"total_pending"`
	TotalApproved    int64                  `json:"total_approved"`
	TotalReturned    int64                  `json:"total_returned"`
	Notifications    []NotificationResponse `json:"notifications"`
}

// SuperAdminDashboard aggregates campus-wide statistics.
type SuperAdminDashboard struct {
	TotalStudents    int64                  `json:"total_students"`
	TotalWardens     int64                  `json:"total_wardens"`
	TotalSecurity    int64                  `json:"total_security"`
	TotalGatePasses  int64                  `json:"total_gatepasses"`
	PendingApprovals []GatePassResponse     `json:"pending_approvals"`
	OverdueReturns   []GatePassResponse     `json:"overdue_returns"`
	RecentGatePasses []GatePassResponse     `json:"recent_gatepasses"`
	Notifications    []NotificationResponse `json:"notifications"`
}

// DashboardResponse is the role-dispatched dashboard envelope; exactly one of
// the role sections is populated.
type DashboardResponse struct {
	Role        string               `json:"role"`
	AlertsSwept int                  `json:"alerts_swept"`
	Student     *StudentDashboard    `json:"student,omitempty"`
	Warden      *WardenDashboard     `json:"warden,omitempty"`
	Security    *SecurityDashboard   `json:"security,omitempty"`
	SuperAdmin  *SuperAdminDashboard `json:"superadmin,omitempty"`
}
