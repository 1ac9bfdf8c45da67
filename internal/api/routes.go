package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	app.Use(handler.AuthenticationGate)

	app.Get("/login/:authtype/:email", handler.Login)
	app.Post("/logout", handler.Logout)
	app.Post("/registration", handler.Register)
	app.Post("/activation", handler.Activate)
	app.Post("/pwreset/:email", handler.RequestPasswordReset)
	app.Post("/pwresetmisuse", handler.ReportResetMisuse)
	app.Put("/password/:token", handler.SetNewPassword)

	app.Get("/user/:id", handler.GetUser)
	app.Put("/user/:id", handler.UpdateUser)
	app.Get("/profile/:id", handler.GetProfile)
	app.Get("/ranking", handler.GetRanking)

	app.Get("/boulder/:id", handler.GetBoulder)
	app.Post("/boulder", handler.CreateBoulder)
	app.Put("/boulder/:id", handler.UpdateBoulder)
	app.Delete("/boulder/:id", handler.DeleteBoulder)
	app.Put("/boulder/:id/climbed", handler.SetClimbed)
	app.Put("/boulder/:id/grade", handler.SubmitGrade)
	app.Put("/boulder/:id/rating", handler.SubmitRating)
	app.Get("/boulderoftheday", handler.BoulderOfTheDay)
	app.Get("/search", handler.SearchBoulders)

	app.Get("/wall", handler.GetCurrentWall)
	app.Get("/wall/:id", handler.GetWall)
	app.Get("/holds/:wall", handler.GetWallHolds)

	app.Get("/hold/:id", handler.GetHold)
	app.Post("/hold", handler.CreateHold)
	app.Put("/hold/:id", handler.UpdateHold)
	app.Delete("/hold/:id", handler.DeleteHold)

	app.Get("/stats", handler.GetSystemStats)
}
