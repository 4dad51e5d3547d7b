package logging

// Standardized field names for structured logging.
// Every component logs batch and row context under the same keys so a
// single batch can be followed through upload, preview and commit.
const (
	FieldFile        = "file_path"
	FieldBatchID     = "batch_id"
	FieldRowIndex    = "row_index"
	FieldProfile     = "profile"
	FieldAccount     = "account"
	FieldMerchantKey = "merchant_key"
	FieldSubcategory = "subcategory"
	FieldPayoree     = "payoree"
	FieldStrategy    = "strategy"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldDriver      = "driver"
	FieldTransaction = "transaction_id"
)
