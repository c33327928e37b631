package models

// StatusCount is the number of applications in one status.
type StatusCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int               `json:"count"`
}

// ModuleSummary aggregates one module's collection for the home page.
type ModuleSummary struct {
	Module   Module        `json:"module"`
	Total    int           `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
	Error    string        `json:"error,omitempty"`
}

// DashboardSummary is the home page model.
type DashboardSummary struct {
	User    UserProfile     `json:"user"`
	Modules []ModuleSummary `json:"modules"`
}
