package service

import "errors"

// ErrValidation 标记由请求载荷引起的校验错误，接口层据此映射为 400；
// 其余错误视为存储层失败，映射为 500
var ErrValidation = errors.New("invalid input")
