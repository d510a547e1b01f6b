package services

import "net/http"

// Pages is the catalogue of permission pages. New roles get a view-only row
// for each of them.
const (
	PageDashboard            = "dashboard"
	PageProfile              = "profile"
	PageRFQ                  = "rfq"
	PageQuotation            = "quotation"
	PagePurchaseOrders       = "purchase_orders"
	PageJobExecution         = "job_execution"
	PageWorkOrders           = "work_orders"
	PageProcessingWorkOrders = "processing_work_orders"
	PageManagerApproval      = "manager_approval"
	PageDelivery             = "delivery"
	PagePendingDeliveries    = "pending_deliveries"
	PageDeclinedWorkOrders   = "declined_work_orders"
	PagePostJobPhase         = "post_job_phase"
	PagePendingInvoices      = "pending_invoices"
	PageRaisedInvoices       = "raised_invoices"
	PageProcessedInvoices    = "processed_invoices"
	PageCompletedWorkOrders  = "completed_work_orders"
	PageAdditionalSettings   = "additional_settings"
	PageSeries               = "series"
	PageRFQChannel           = "rfq_channel"
	PageItem                 = "item"
	PageUnit                 = "unit"
	PageTeam                 = "team"
	PageUsers                = "users"
	PageRoles                = "roles"
	PagePermissions          = "permissions"
	PageReports              = "reports"
	PageDueDateReports       = "due_date_reports"
)

var PageCatalogue = []string{
	PageDashboard,
	PageProfile,
	PageRFQ,
	PageQuotation,
	PagePurchaseOrders,
	PageJobExecution,
	PageWorkOrders,
	PageProcessingWorkOrders,
	PageManagerApproval,
	PageDelivery,
	PagePendingDeliveries,
	PageDeclinedWorkOrders,
	PagePostJobPhase,
	PagePendingInvoices,
	PageRaisedInvoices,
	PageProcessedInvoices,
	PageCompletedWorkOrders,
	PageAdditionalSettings,
	PageSeries,
	PageRFQChannel,
	PageItem,
	PageUnit,
	PageTeam,
	PageUsers,
	PageRoles,
	PagePermissions,
	PageReports,
	PageDueDateReports,
}

func IsKnownPage(page string) bool {
	for _, p := range PageCatalogue {
		if p == page {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ActionForMethod maps an HTTP verb to the permission action it needs.
func ActionForMethod(method string) (Action, bool) {
	switch method {
	case http.MethodGet, http.MethodHead:
		return ActionView, true
	case http.MethodPost:
		return ActionAdd, true
	case http.MethodPut, http.MethodPatch:
		return ActionEdit, true
	case http.MethodDelete:
		return ActionDelete, true
	}
	return "", false
}
