package handlers

import (
	"context"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/outdecked/outdecked/backend/utils"
	"github.com/outdecked/outdecked/outdecked/catalog"
	appconfig "github.com/outdecked/outdecked/outdecked/config"
)

// ImportProducts handles POST /admin/api/import. It accepts a product CSV
// export as multipart upload and upserts the catalog.
func (app *WebApp) ImportProducts(c *fiber.Ctx) error {
	game := c.FormValue("game")
	if game == "" {
		return utils.SendBadRequest(c, "Missing game field", nil)
	}

	file, errResp := openUpload(c)
	if file == nil {
		return errResp
	}
	defer file.Close()

	records, err := catalog.ParseProducts(file)
	if err != nil {
		return utils.SendUnprocessableEntity(c, "Malformed CSV", map[string]string{
			"file": err.Error(),
		})
	}

	ingest := catalog.NewIngestService(app.Repos.Cards, app.Repos.Groups)

	ctx, cancel := context.WithTimeout(c.Context(), appconfig.IngestTimeout)
	defer cancel()

	report, err := ingest.IngestProducts(ctx, game, records)
	if err != nil {
		slog.Error("Product import failed",
			slog.String("type", "db"),
			slog.String("game", game),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Import failed")
	}

	return utils.SendSuccess(c, report, "Import complete")
}

// ImportCategories handles POST /admin/api/import/categories: the game-line
// metadata export.
func (app *WebApp) ImportCategories(c *fiber.Ctx) error {
	file, errResp := openUpload(c)
	if file == nil {
		return errResp
	}
	defer file.Close()

	categories, err := catalog.ParseCategories(file)
	if err != nil {
		return utils.SendUnprocessableEntity(c, "Malformed CSV", map[string]string{
			"file": err.Error(),
		})
	}

	ingest := catalog.NewIngestService(app.Repos.Cards, app.Repos.Groups)
	if err := ingest.IngestCategories(c.Context(), categories); err != nil {
		slog.Error("Category import failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Import failed")
	}

	return utils.SendSuccess(c, fiber.Map{"categories_written": len(categories)}, "Import complete")
}

// ImportGroups handles POST /admin/api/import/groups: the expansion/set
// metadata export. Running it after a product import replaces the
// placeholder group rows with real names and publish dates.
func (app *WebApp) ImportGroups(c *fiber.Ctx) error {
	file, errResp := openUpload(c)
	if file == nil {
		return errResp
	}
	defer file.Close()

	groups, err := catalog.ParseGroups(file)
	if err != nil {
		return utils.SendUnprocessableEntity(c, "Malformed CSV", map[string]string{
			"file": err.Error(),
		})
	}

	ingest := catalog.NewIngestService(app.Repos.Cards, app.Repos.Groups)
	if err := ingest.IngestGroups(c.Context(), groups); err != nil {
		slog.Error("Group import failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Import failed")
	}

	return utils.SendSuccess(c, fiber.Map{"groups_written": len(groups)}, "Import complete")
}

// openUpload opens the multipart "file" field, answering the request itself
// when the upload is missing or unreadable.
func openUpload(c *fiber.Ctx) (multipart.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, utils.SendBadRequest(c, "Missing CSV upload", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, utils.SendBadRequest(c, "Unreadable upload", nil)
	}
	return file, nil
}
