package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ViolationDigestItem struct {
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date"`
	Rule         string `json:"rule"`
	Message      string `json:"message"`
}

type ViolationDigestMailData struct {
	StartDate string                `json:"startDate"`
	EndDate   string                `json:"endDate"`
	Total     int                   `json:"total"`
	Items     []ViolationDigestItem `json:"items"`
}
