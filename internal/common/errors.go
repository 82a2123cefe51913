package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// Placeholder errors
	ErrPlaceholderNotFound  = errors.New("placeholder not found")
	ErrDuplicatePlaceholder = errors.New("placeholder already exists for parent and slot")

	// Content item errors
	ErrContentItemNotFound = errors.New("content item not found")
	ErrUnknownPluginType   = errors.New("unknown content plugin type")
	ErrDuplicatePlugin     = errors.New("content plugin already registered")
)

// UniquenessError (parent, slot) 조합이 이미 존재함
type UniquenessError struct {
	ParentType string
	ParentID   int64
	Slot       string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("placeholder %q already exists for %s#%d", e.Slot, e.ParentType, e.ParentID)
}

func (e *UniquenessError) Unwrap() error {
	return ErrDuplicatePlaceholder
}

// UnknownPluginTypeError 저장된 discriminator 에 대응하는 플러그인이 없음
// 코드와 데이터가 어긋났다는 의미이므로 호출자에게 그대로 전달한다
type UnknownPluginTypeError struct {
	TypeTag string
}

func (e *UnknownPluginTypeError) Error() string {
	return fmt.Sprintf("no content plugin registered for type %q", e.TypeTag)
}

func (e *UnknownPluginTypeError) Unwrap() error {
	return ErrUnknownPluginType
}
