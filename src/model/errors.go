package model

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrSnapshotExists = errors.New("a snapshot for this week already exists")
)
