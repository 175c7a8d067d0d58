package inquiry

import (
	"time"

	"powerise-api/internal/query"
)

type Category string

const (
	CategoryEnergyServices         Category = "ENERGY_SERVICES"
	CategoryInfrastructureServices Category = "INFRASTRUCTURE_SERVICES"
	CategoryEnvironmentConsulting  Category = "ENVIRONMENT_CONSULTING"
	CategoryGeneralInquiry         Category = "GENERAL_INQUIRY"
	CategoryPartnership            Category = "PARTNERSHIP"
	CategorySupport                Category = "SUPPORT"
)

type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResponded  Status = "RESPONDED"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Schema is the list contract for inquiries. Limit defaults to 20, at most 100.
var Schema = query.Schema{
	DefaultLimit: 20,
	MaxLimit:     100,
	Categories: []string{
		string(CategoryEnergyServices), string(CategoryInfrastructureServices), string(CategoryEnvironmentConsulting),
		string(CategoryGeneralInquiry), string(CategoryPartnership), string(CategorySupport),
	},
	Statuses: []string{
		string(StatusNew), string(StatusInProgress), string(StatusResponded), string(StatusResolved), string(StatusClosed),
	},
}

// Assignee is the staff member handling an inquiry.
type Assignee struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type Inquiry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    string    `json:"company,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message,omitempty"`
	Category   Category  `json:"category"`
	Status     Status    `json:"status"`
	Priority   Priority  `json:"priority"`
	AssignedTo *Assignee `json:"assignedTo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (i Inquiry) ItemCategory() string { return string(i.Category) }
func (i Inquiry) ItemStatus() string   { return string(i.Status) }

// CreateRequest is the public contact form payload.
type CreateRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=100"`
	Email    string   `json:"email" binding:"required,email,max=100"`
	Company  string   `json:"company" binding:"omitempty,max=200"`
	Phone    string   `json:"phone" binding:"omitempty,max=20"`
	Subject  string   `json:"subject" binding:"required,min=1,max=200"`
	Message  string   `json:"message" binding:"required"`
	Category Category `json:"category" binding:"required,oneof=ENERGY_SERVICES INFRASTRUCTURE_SERVICES ENVIRONMENT_CONSULTING GENERAL_INQUIRY PARTNERSHIP SUPPORT"`
}
