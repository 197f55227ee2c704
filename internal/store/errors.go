package store

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicateKey        = errors.New("already exists")
	ErrStatusConflict      = errors.New("status changed concurrently")
	ErrUnknownTargetTable  = errors.New("unknown target table")
	ErrEmptyReconciliation = errors.New("no fields to reconcile")
)
