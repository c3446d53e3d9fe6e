package handler

import (
	"errors"
	"net/http"
	"restaurant-checkout/internal/config"
	"restaurant-checkout/internal/dto"
	"restaurant-checkout/internal/middleware"
	"restaurant-checkout/internal/model"
	"restaurant-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkout *service.Checkout
	cfg      *config.Checkout
}

func NewCheckoutHandler(checkout *service.Checkout, cfg *config.Checkout) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		cfg:      cfg,
	}
}

// checkoutError maps action failures the client can act on to a 422;
// everything else stays a server error.
func checkoutError(err error) error {
	var secErr *service.SecurityError
	if errors.Is(err, service.ErrInvalidPayment) || errors.As(err, &secErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return err
}

func (h *CheckoutHandler) session(c echo.Context) (*service.Session, error) {
	cartID := c.Request().Header.Get("X-Cart-Session")
	if cartID == "" {
		if cookie, err := c.Cookie("cart_session"); err == nil {
			cartID = cookie.Value
		}
	}

	page := c.QueryParam("page")
	if page == "" {
		page = h.cfg.RedirectPage
	}

	var customer *model.Customer
	if v, ok := c.Get(middleware.CustomerContextKey).(*model.Customer); ok {
		customer = v
	}

	return h.checkout.NewSession(c.Request().Context(), cartID, page, customer)
}

// Show is the plain page view of the checkout form.
func (h *CheckoutHandler) Show(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	resp, err := h.checkout.Enter(c.Request().Context(), sess)
	if err != nil {
		return err
	}

	if resp.RedirectURL != "" {
		return c.Redirect(http.StatusFound, resp.RedirectURL)
	}

	return c.JSON(http.StatusOK, resp.State)
}

func (h *CheckoutHandler) Partials(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	partials, err := h.checkout.Partials(c.Request().Context(), sess)
	if err != nil {
		return checkoutError(err)
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{Partials: partials})
}

// Success looks up the order behind a success-page hash.
func (h *CheckoutHandler) Success(c echo.Context) error {
	order, err := h.checkout.OrderForSuccessPage(c.Request().Context(), c.Param("hash"))
	if err != nil {
		return err
	}
	if order == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, order)
}

func (h *CheckoutHandler) ChoosePayment(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req dto.ChoosePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkout.ChoosePayment(c.Request().Context(), sess, req.Code)
	if err != nil {
		return checkoutError(err)
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{Partials: resp.Partials})
}

func (h *CheckoutHandler) DeletePaymentProfile(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req dto.DeletePaymentProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkout.DeletePaymentProfile(c.Request().Context(), sess, req.Code)
	if err != nil {
		return checkoutError(err)
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{Partials: resp.Partials})
}

func (h *CheckoutHandler) Confirm(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	data := map[string]interface{}{}
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkout.Confirm(c.Request().Context(), sess, data)
	if err != nil {
		return err
	}

	switch {
	case resp.RedirectURL != "":
		return c.JSON(http.StatusOK, &dto.CheckoutResponse{Redirect: resp.RedirectURL})
	case resp.Flash != "":
		return c.JSON(http.StatusOK, &dto.CheckoutResponse{Flash: resp.Flash, Data: resp.Input})
	default:
		// gateway halt: stay on the page with no message
		return c.JSON(http.StatusOK, &dto.CheckoutResponse{})
	}
}
