package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：提交时携带的 version 已过期，
// 记录在读取之后被其他操作修改过
var ErrOptimisticLock = errors.New("记录已被其他操作修改，请刷新后重试")
