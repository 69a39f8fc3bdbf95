package routes

import (
	"github.com/gin-gonic/gin"

	"salescrm/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	pipelineHandler *handlers.PipelineHandler,
	stageHandler *handlers.StageHandler,
	customerHandler *handlers.CustomerHandler,
	productHandler *handlers.ProductHandler,
	leadHandler *handlers.LeadHandler,
	dealHandler *handlers.DealHandler,
	invoiceHandler *handlers.InvoiceHandler,
	creditNoteHandler *handlers.CreditNoteHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
	pricingHandler *handlers.PricingHandler,
) *gin.Engine {

	// PIPELINES
	pipelines := r.Group("/pipelines")
	{
		pipelines.POST("/", pipelineHandler.Create)
		pipelines.GET("/", pipelineHandler.List)
		pipelines.GET("/:id", pipelineHandler.GetByID)
		pipelines.PUT("/:id", pipelineHandler.Update)
		pipelines.DELETE("/:id", pipelineHandler.Delete)
		pipelines.GET("/:id/report", reportHandler.PipelineSummary)
	}

	// STAGES
	stages := r.Group("/stages")
	{
		stages.POST("/", stageHandler.Create)
		stages.GET("/", stageHandler.List)
		stages.GET("/:id", stageHandler.GetByID)
		stages.PUT("/:id", stageHandler.Update)
		stages.DELETE("/:id", stageHandler.Delete)
	}

	// CUSTOMERS
	customers := r.Group("/customers")
	{
		customers.POST("/", customerHandler.Create)
		customers.GET("/", customerHandler.List)
		customers.GET("/:id", customerHandler.GetByID)
		customers.PUT("/:id", customerHandler.Update)
		customers.DELETE("/:id", customerHandler.Delete)
	}

	// PRODUCTS
	products := r.Group("/products")
	{
		products.POST("/", productHandler.Create)
		products.GET("/", productHandler.List)
		products.GET("/:id", productHandler.GetByID)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Delete)
	}

	// LEADS
	leads := r.Group("/leads")
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
		leads.POST("/:id/stage", leadHandler.ChangeStage)
		leads.PUT("/:id/convert", leadHandler.ConvertToDeal)
	}

	// DEALS
	deals := r.Group("/deals")
	{
		deals.POST("/", dealHandler.Create)
		deals.GET("/", dealHandler.List)
		deals.GET("/:id", dealHandler.GetByID)
		deals.PUT("/:id", dealHandler.Update)
		deals.DELETE("/:id", dealHandler.Delete)
		deals.POST("/:id/stage", dealHandler.ChangeStage)
	}

	// INVOICES
	invoices := r.Group("/invoices")
	{
		invoices.POST("/", invoiceHandler.Create)
		invoices.GET("/", invoiceHandler.List)
		invoices.GET("/:id", invoiceHandler.GetByID)
		invoices.PUT("/:id", invoiceHandler.Update)
		invoices.DELETE("/:id", invoiceHandler.Delete)
		invoices.POST("/:id/issue", invoiceHandler.Issue)
		invoices.POST("/:id/pay", invoiceHandler.MarkPaid)
		invoices.POST("/:id/void", invoiceHandler.Void)
	}

	// CREDIT NOTES
	creditNotes := r.Group("/credit-notes")
	{
		creditNotes.POST("/", creditNoteHandler.Create)
		creditNotes.GET("/", creditNoteHandler.List)
		creditNotes.GET("/:id", creditNoteHandler.GetByID)
		creditNotes.DELETE("/:id", creditNoteHandler.Delete)
		creditNotes.POST("/:id/issue", creditNoteHandler.Issue)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.GetAll)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
	}

	// PRICING
	r.POST("/pricing/preview", pricingHandler.Preview)

	return r
}
