package utils

import (
	"github.com/google/uuid"
)

// NewSessionID 生成编辑会话ID
func NewSessionID() string {
	return uuid.NewString()
}

// IsSessionID 校验会话ID格式
func IsSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
