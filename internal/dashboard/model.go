package dashboard

import (
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/utils"
)

// FormPost represents the announcement form. The author comes from the session.
type FormPost struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

type PaginatedLogs struct {
	Data []domain.LogEntry `json:"data"`
	Meta utils.PageMeta    `json:"meta"`
}
