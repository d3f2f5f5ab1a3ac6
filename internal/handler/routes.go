package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, userHandler *UserHandler, eventHandler *EventHandler, expenseHandler *ExpenseHandler, timelineHandler *TimelineHandler, noteHandler *NoteHandler, adminHandler *AdminHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// User routes
	users := api.Group("/users")
	users.POST("", userHandler.CreateUser)
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/me/unsettled-splits", userHandler.GetMyUnsettledSplits)
	users.GET("/:id", userHandler.GetUser)

	// Event routes
	events := api.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.GetEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)
	events.GET("/:id/members", eventHandler.GetMembers)
	events.POST("/:id/invite", eventHandler.InviteMember)
	events.POST("/:id/accept-invite", eventHandler.AcceptInvite)
	events.POST("/:id/leave", eventHandler.LeaveEvent)
	events.DELETE("/:id/members/:userId", eventHandler.RemoveMember)

	// Timeline routes (nested under events)
	events.GET("/:id/timeline", timelineHandler.GetTimeline)
	events.POST("/:id/timeline/items", timelineHandler.CreateItem)
	events.PUT("/:id/timeline/items/:itemId", timelineHandler.UpdateItem)
	events.DELETE("/:id/timeline/items/:itemId", timelineHandler.DeleteItem)
	events.PUT("/:id/timeline/reorder", timelineHandler.ReorderItems)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetEventExpenses)
	expenses.GET("/settlements", expenseHandler.GetSettlements)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Split routes
	splits := api.Group("/splits")
	splits.PATCH("/:id/settled", expenseHandler.SetSplitSettled)

	// Note routes
	notes := api.Group("/notes")
	notes.POST("", noteHandler.CreateNote)
	notes.GET("", noteHandler.GetNotes)
	notes.PUT("/:id", noteHandler.UpdateNote)
	notes.DELETE("/:id", noteHandler.DeleteNote)

	// Admin routes
	admin := api.Group("/admin")
	admin.GET("/statistics", adminHandler.GetStatistics)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)
}
