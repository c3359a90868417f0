package archive

import "codeberg.org/dazzo/dazzod/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("archive_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("archive_invalid_db_path")

	// Record Errors
	ErrInvalidEntry = errors.ErrorCode("archive_invalid_entry")
	ErrRecordFailed = errors.ErrorCode("archive_record_failed")

	// Storage Errors
	ErrStorageInit   = errors.ErrorCode("archive_storage_init_failed")
	ErrStorageAccess = errors.ErrorCode("archive_storage_access_failed")
	ErrStorageClose  = errors.ErrorCode("archive_storage_close_failed")
)
