package customer

import (
	"github.com/xiebiao/techbookstore/internal/domain/customer"
)

// CustomerDTO 顾客详情
type CustomerDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	NameKana     string `json:"nameKana,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
	Department   string `json:"department,omitempty"`
	CustomerType string `json:"customerType"`
	Status       string `json:"status"`
	TechLevel    string `json:"techLevel,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

const timeLayout = "2006-01-02 15:04:05"

func toDTO(c *customer.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:           c.ID,
		Name:         c.Name,
		NameKana:     c.NameKana,
		Email:        c.Email,
		Phone:        c.Phone,
		CompanyName:  c.CompanyName,
		Department:   c.Department,
		CustomerType: string(c.CustomerType),
		Status:       string(c.Status),
		TechLevel:    c.TechLevel,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt.Format(timeLayout),
		UpdatedAt:    c.UpdatedAt.Format(timeLayout),
	}
}
