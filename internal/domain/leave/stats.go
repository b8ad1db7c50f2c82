package leave

// Summarize aggregates leave summaries for year. Status and type counts
// cover every leave; the monthly series only counts leaves created in year,
// with slot i holding month i+1.
func Summarize(rows []Summary, year int) Statistics {
	stats := Statistics{Year: year, LeaveTypeStats: map[Type]int{}}
	for _, row := range rows {
		stats.Overview.TotalLeaves++
		switch row.Status {
		case StatusPending:
			stats.Overview.PendingLeaves++
		case StatusApproved:
			stats.Overview.ApprovedLeaves++
		case StatusRejected:
			stats.Overview.RejectedLeaves++
		}
		stats.LeaveTypeStats[row.LeaveType]++
		created := row.CreatedAt.UTC()
		if created.Year() == year {
			stats.MonthlyLeaves[created.Month()-1]++
		}
	}
	return stats
}
