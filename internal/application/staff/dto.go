package staff

import (
	"github.com/xiebiao/techbookstore/internal/domain/staff"
)

// StaffDTO 员工信息（不含密码）
type StaffDTO struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toDTO(s *staff.Staff) StaffDTO {
	return StaffDTO{ID: s.ID, Email: s.Email, Name: s.Name, Role: string(s.Role)}
}
