package domain

import "fmt"

// OperationKind names one of the four tallied CRUD operations.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpRead   OperationKind = "read"
	OpUpdate OperationKind = "update"
	OpDelete OperationKind = "delete"
)

func (k OperationKind) Valid() error {
	switch k {
	case OpCreate, OpRead, OpUpdate, OpDelete:
		return nil
	}
	return fmt.Errorf("%w: unknown operation kind %q", ErrValidation, k)
}

// Process-wide tally of CRUD operations. Values never decrease.
type OperationCounters struct {
	CreateCount int64
	ReadCount   int64
	UpdateCount int64
	DeleteCount int64
}
