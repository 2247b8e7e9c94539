package customer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_Validate(t *testing.T) {
	c := &Customer{Name: "  山田 太郎 ", Email: " Taro@Example.COM "}
	require.NoError(t, c.Validate())
	assert.Equal(t, "山田 太郎", c.Name)
	assert.Equal(t, "taro@example.com", c.Email)
	assert.Equal(t, TypeIndividual, c.CustomerType)
	assert.Equal(t, StatusActive, c.Status)

	tests := []struct {
		name string
		c    Customer
		want error
	}{
		{"姓名为空", Customer{Name: " "}, ErrInvalidName},
		{"邮箱非法", Customer{Name: "a", Email: "bad@"}, ErrInvalidEmail},
		{"类型非法", Customer{Name: "a", CustomerType: "VIP"}, ErrInvalidType},
		{"状态非法", Customer{Name: "a", Status: "BANNED"}, ErrInvalidStatus},
		{"企业缺公司名", Customer{Name: "a", CustomerType: TypeCorporate}, ErrCompanyRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			assert.Equal(t, tt.want, c.Validate())
		})
	}
}

func TestCustomer_MarkDeleted(t *testing.T) {
	c := &Customer{Name: "a", Status: StatusActive}
	c.MarkDeleted(time.Now())
	assert.True(t, c.IsDeleted())
}
