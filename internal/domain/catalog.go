package domain

import "time"

type Project struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Team        []string `json:"team"`
	Status      string   `json:"status"`
	DueDate     string   `json:"dueDate"`
	Progress    int      `json:"progress" validate:"min=0,max=100"`
	Group       string   `json:"group"`
	Description string   `json:"description"`
	Phases      []Phase  `json:"phases"`
	FinishDate  string   `json:"finishDate,omitempty"`
}

type Phase struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Progress  int    `json:"progress"`
}

// PriceItem is a source-of-truth unit price referenced by AHS rows.
type PriceItem struct {
	ID          string    `json:"id" validate:"required"`
	Category    string    `json:"category"`
	ItemName    string    `json:"itemName" validate:"required"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unitPrice" validate:"min=0"`
	PriceSource string    `json:"priceSource,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// WorkItem is a reusable work template with a default cost breakdown.
type WorkItem struct {
	ID           string         `json:"id" validate:"required"`
	Name         string         `json:"name" validate:"required"`
	Category     string         `json:"category"`
	Unit         string         `json:"unit"`
	DefaultPrice float64        `json:"defaultPrice" validate:"min=0"`
	Source       string         `json:"source"`
	LastUpdated  time.Time      `json:"lastUpdated"`
	DefaultAhs   []AhsComponent `json:"defaultAhs" validate:"dive"`
}

type Post struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	Author    string    `json:"author" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry records one action in the activity log.
type LogEntry struct {
	ID        string    `json:"id" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action" validate:"required"`
	Target    string    `json:"target"`
	Details   string    `json:"details,omitempty"`
}
