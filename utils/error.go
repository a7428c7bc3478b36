package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

var ErrorBatchNotFound = errors.New("import batch not found")
