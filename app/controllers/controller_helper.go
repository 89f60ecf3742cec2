package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/addons"
	"github.com/wpthub/tenanthub/internal/pkg/modules"
	"github.com/wpthub/tenanthub/internal/pkg/syncpush"
)

var dispatcherOverride *syncpush.Dispatcher

// SetDispatcher replaces the sync dispatcher used by the admin handlers
// (tests install one with a stub HTTP client)
func SetDispatcher(d *syncpush.Dispatcher) {
	dispatcherOverride = d
}

func repos() *repository.Repositories {
	return repository.GetGlobalRepositories()
}

func dispatcher() *syncpush.Dispatcher {
	if dispatcherOverride != nil {
		return dispatcherOverride
	}
	return syncpush.NewDispatcherFromRepositories(repos())
}

func moduleRegistry() *modules.Registry {
	return modules.NewRegistryFromRepositories(repos())
}

func addonService() *addons.Service {
	return addons.NewServiceFromRepositories(repos())
}

func respondSuccess(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": data})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
