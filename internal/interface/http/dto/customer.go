package dto

// SaveCustomerRequest 新建/编辑顾客
type SaveCustomerRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"山田太郎"`
	NameKana     string `json:"nameKana" binding:"max=100" example:"ヤマダタロウ"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Phone        string `json:"phone" binding:"max=20"`
	CompanyName  string `json:"companyName" binding:"max=200"`
	Department   string `json:"department" binding:"max=100"`
	CustomerType string `json:"customerType" binding:"omitempty,oneof=INDIVIDUAL CORPORATE STUDENT" example:"INDIVIDUAL"`
	Status       string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE DELETED"`
	TechLevel    string `json:"techLevel" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Notes        string `json:"notes" binding:"max=1000"`
}

// ListCustomersQuery 顾客列表条件
type ListCustomersQuery struct {
	PageQuery
	Keyword        string `form:"keyword"`
	CustomerType   string `form:"customerType"`
	Status         string `form:"status"`
	IncludeDeleted bool   `form:"includeDeleted"`
}
