package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// ContactHandler serves the caller's address book.
type ContactHandler struct {
	contacts ports.ContactService
}

func NewContactHandler(contacts ports.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List handles GET /v1/contacts.
//
// @Summary      List contacts in insertion order
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  contactsResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	contacts, err := h.contacts.List(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactsResponse{Items: contacts})
}

// Add handles POST /v1/contacts.
//
// @Summary      Add a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addContactRequest  true  "Contact"
// @Success      201   {object}  domain.Contact
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/contacts [post]
func (h *ContactHandler) Add(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	contact, err := h.contacts.Add(c.Request().Context(), owner, toContactInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}
