// Package customer 顾客
package customer

import (
	"net/mail"
	"strings"
	"time"
)

// Type 顾客类型
type Type string

const (
	TypeIndividual Type = "INDIVIDUAL"
	TypeCorporate  Type = "CORPORATE"
	TypeStudent    Type = "STUDENT"
)

// Types 全部类型（客户分群按此顺序输出）
var Types = []Type{TypeIndividual, TypeCorporate, TypeStudent}

func (t Type) IsValid() bool {
	switch t {
	case TypeIndividual, TypeCorporate, TypeStudent:
		return true
	}
	return false
}

// Status 顾客状态；删除为软删除（DELETED）
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusDeleted  Status = "DELETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// Customer 顾客
type Customer struct {
	ID           uint
	Name         string
	NameKana     string // 姓名读音
	Email        string
	Phone        string
	CompanyName  string
	Department   string
	CustomerType Type
	Status       Status
	TechLevel    string // BEGINNER/INTERMEDIATE/ADVANCED，可为空
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate 规范化并校验字段
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	if c.CustomerType == "" {
		c.CustomerType = TypeIndividual
	}
	if !c.CustomerType.IsValid() {
		return ErrInvalidType
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !c.Status.IsValid() {
		return ErrInvalidStatus
	}
	if c.CustomerType == TypeCorporate && strings.TrimSpace(c.CompanyName) == "" {
		return ErrCompanyRequired
	}
	return nil
}

// IsDeleted 是否已删除
func (c *Customer) IsDeleted() bool {
	return c.Status == StatusDeleted
}

// MarkDeleted 软删除
func (c *Customer) MarkDeleted(now time.Time) {
	c.Status = StatusDeleted
	c.UpdatedAt = now
}
