package parser

import "context"

// FileHandler reads one log file into a table and its column metadata.
// A file without a header yields an empty table with a nil Header and no error.
type FileHandler interface {
	Read(ctx context.Context, path string) (*Table, []ColumnMeta, error)
}
