package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ryvynn-app/ryvynn/internal/pkg/journal"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

type journalEntryRequest struct {
	Ciphertext  string   `json:"ciphertext"`
	IV          string   `json:"iv"`
	AlgoVersion string   `json:"algo_version"`
	Tags        []string `json:"tags"`
}

// HandleCreateJournalEntry stores a client-encrypted entry.
func HandleCreateJournalEntry(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req journalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Request body could not be parsed",
		})
	}

	entry, err := newJournalService().CreateEntry(userCtx.UserID, req.Ciphertext, req.IV, req.AlgoVersion, req.Tags)
	if err != nil {
		if errors.Is(err, journal.ErrInvalidEntry) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid_entry",
				"message": "Ciphertext and IV are required",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Entry could not be saved",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleListJournalEntries returns the user's entries, newest first.
// Expired entries are pruned before the page is read.
func HandleListJournalEntries(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	entries, err := newJournalService().ListEntries(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Entries could not be loaded",
		})
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"offset":  offset,
		"count":   len(entries),
	})
}

// HandleGetJournalEntry fetches a single entry by UUID.
func HandleGetJournalEntry(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	entry, err := newJournalService().GetEntry(userCtx.UserID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Entry could not be loaded",
		})
	}

	return c.JSON(entry)
}

// HandleUpdateJournalEntry replaces an entry's ciphertext.
func HandleUpdateJournalEntry(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req journalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Request body could not be parsed",
		})
	}

	entry, err := newJournalService().UpdateEntry(userCtx.UserID, c.Params("uuid"), req.Ciphertext, req.IV, req.Tags)
	if err != nil {
		switch {
		case errors.Is(err, journal.ErrInvalidEntry):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid_entry",
				"message": "Ciphertext and IV are required",
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Entry not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "Entry could not be saved",
			})
		}
	}

	return c.JSON(entry)
}

// HandleDeleteJournalEntry removes an entry.
func HandleDeleteJournalEntry(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if err := newJournalService().DeleteEntry(userCtx.UserID, c.Params("uuid")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Entry could not be deleted",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}
