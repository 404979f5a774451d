package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, reason string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"ok":     false,
		"reason": reason,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"ok": true, "data": data})
}
