package dto

// DailySummary is one worker's summed hours for a single date.
type DailySummary struct {
	Date       Date    `json:"date"`
	TotalHours float64 `json:"total_hours"`
}

// WorkerMonthlySummary is the per-worker block of a monthly report.
type WorkerMonthlySummary struct {
	WorkerID   string         `json:"worker_id"`
	WorkerName string         `json:"worker_name"`
	Days       []DailySummary `json:"days"`
	MonthTotal float64        `json:"month_total"`
}

// MonthlySummaryRequest carries the query parameters of the summary endpoints.
type MonthlySummaryRequest struct {
	Year  int `query:"year" validate:"required"`
	Month int `query:"month" validate:"required"`
}
