package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldMonthKey   = "month_key"
	FieldAssetID    = "asset_id"
	FieldPartnerID  = "partner_id"
	FieldTxID       = "transaction_id"
	FieldReportID   = "report_id"
	FieldSituation  = "situation"
	FieldMode       = "mode"
	FieldPlan       = "plan"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentMonths      = "months"
	ComponentDuplication = "duplication"
	ComponentReports     = "reports"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentAI          = "ai"
	ComponentExport      = "export"
	ComponentCache       = "cache"
	ComponentAuth        = "auth"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpResolve   = "resolve"
	OpDuplicate = "duplicate"
	OpGenerate  = "generate"
	OpExport    = "export"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)
