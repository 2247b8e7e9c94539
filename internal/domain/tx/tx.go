// Package tx 事务边界抽象
//
// 用例层只依赖Manager接口，事务通过context向下传递，
// 仓储实现从context中取出当前事务（见persistence/mysql.TxManager）。
package tx

import "context"

// Manager 事务管理器
// fn返回错误时回滚，否则提交；fn中的仓储调用必须使用传入的ctx
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
