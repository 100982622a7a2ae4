package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Config errors
	ConfigTemplateError

	// Storage errors
	StoreConnectionError
	StoreUnknownBackendError
	StoreSchemaError
	StoreIndexError

	// TSV errors
	TSVOpenError
	TSVParseError

	// Import errors
	ImportStorageError
	ImportCancelledError

	// GBIF errors
	GBIFUnavailableError
	GBIFDecodeError
	GBIFStorageError

	// Server errors
	ServerStartError
)
