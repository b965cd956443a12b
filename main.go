package main

import (
	"overlay_editor_service/internal/editor/router"

	"github.com/gofiber/fiber/v2"
)

// swag entry point, the service itself lives in cmd/editor_service
// swag init -g main.go -o cmd/editor_service/docs
func main() {
	app := fiber.New()

	router.RegisterRoutes(app, nil, nil)
}
