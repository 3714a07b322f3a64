package logger

import "time"

// Field keys shared by every package.
const (
	FieldComponent   = "component"
	FieldTraceID     = "trace_id"
	FieldSpanID      = "span_id"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldJob         = "job"
	FieldRunID       = "run_id"
	FieldExecutionID = "execution_id"
)

// Fields pairs up alternating keys and values. Non-string keys and a
// trailing key without a value are dropped.
//
//	log.Info("Run finished", logger.Fields(logger.FieldRunID, 7, "read", 3))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if key, ok := kvs[i-1].(string); ok {
			m[key] = kvs[i]
		}
	}
	return m
}

// ErrorFields describes a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return MergeWithError(Fields(FieldOperation, op), err)
}

// DurationFields describes a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return MergeWithDuration(Fields(FieldOperation, op), d)
}

// MergeWithError sets the error field on fields, allocating when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	return merge(fields, FieldError, err.Error())
}

// MergeWithDuration sets the duration field in milliseconds.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	return merge(fields, FieldDuration, d.Milliseconds())
}

func merge(fields map[string]interface{}, key string, v interface{}) map[string]interface{} {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields[key] = v
	return fields
}
