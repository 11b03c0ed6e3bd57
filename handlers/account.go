package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/courseapi/service"
)

const pageLayout = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 28rem; margin: 4rem auto; padding: 0 1rem; color: #1f2933; }
    label, input, button { display: block; width: 100%; margin-top: .5rem; }
    input { padding: .5rem; box-sizing: border-box; }
    button { padding: .6rem; margin-top: 1rem; }
    .error { color: #b42318; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  {{ if .Error }}<p class="error">{{ .Error }}</p>{{ end }}
  {{ if .Message }}<p>{{ .Message }}</p>{{ end }}
  {{ if .Token }}
  <form id="reset">
    <input type="hidden" name="email" value="{{ .Email }}">
    <input type="hidden" name="token" value="{{ .Token }}">
    <label for="newPassword">New password</label>
    <input id="newPassword" name="newPassword" type="password" minlength="8" required>
    <button type="submit">Reset password</button>
  </form>
  <p id="result"></p>
  <script>
    document.getElementById("reset").addEventListener("submit", async (ev) => {
      ev.preventDefault();
      const form = new FormData(ev.target);
      const res = await fetch("reset-password", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(Object.fromEntries(form)),
      });
      const body = await res.json();
      document.getElementById("result").textContent =
        res.ok ? body.message : (body.errors || [body.message]).join(" ");
    });
  </script>
  {{ end }}
</body>
</html>`

var pageTmpl = template.Must(template.New("page").Parse(pageLayout))

type page struct {
	Title   string
	Message string
	Error   string
	Email   string
	Token   string
}

func renderPage(c echo.Context, status int, p page) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// ForgotPassword emails a reset link. The response is the same whether or not the address has an account.
func (h *Handler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return h.fail(c, err, "user")
	}
	return respond(c, http.StatusOK, "If the email is registered, a password reset link has been sent", true)
}

// ResetPassword sets a new password using an emailed reset token.
func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.Token, req.NewPassword); err != nil {
		return h.fail(c, err, "user")
	}
	return respond(c, http.StatusOK, "Password has been reset successfully", true)
}

// ResetPasswordPage serves the form the emailed reset link opens.
func (h *Handler) ResetPasswordPage(c echo.Context) error {
	email, token := strings.TrimSpace(c.QueryParam("email")), strings.TrimSpace(c.QueryParam("token"))
	if email == "" || token == "" {
		return renderPage(c, http.StatusBadRequest, page{Title: "Reset password", Error: "Invalid email or token."})
	}
	return renderPage(c, http.StatusOK, page{Title: "Reset password", Email: email, Token: token})
}

// ConfirmEmail confirms an account's email with an emailed token.
func (h *Handler) ConfirmEmail(c echo.Context) error {
	var req confirmEmailRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}
	if err := h.auth.ConfirmEmail(c.Request().Context(), req.UserID, req.Token); err != nil {
		return h.fail(c, err, "user")
	}
	return respond(c, http.StatusOK, "Email confirmed successfully", true)
}

// ConfirmEmailPage confirms the email from the emailed link and reports the outcome as a page.
func (h *Handler) ConfirmEmailPage(c echo.Context) error {
	const title = "Confirm email"
	userID, token := c.QueryParam("userId"), c.QueryParam("token")
	if userID == "" || token == "" {
		return renderPage(c, http.StatusBadRequest, page{Title: title, Error: "Invalid user or token."})
	}

	err := h.auth.ConfirmEmail(c.Request().Context(), userID, token)
	var verr *service.ValidationError
	switch {
	case err == nil:
		return renderPage(c, http.StatusOK, page{Title: title, Message: "Your email address is confirmed. You can close this page."})
	case errors.As(err, &verr):
		return renderPage(c, http.StatusBadRequest, page{Title: title, Error: strings.Join(verr.Messages, " ")})
	}
	return h.fail(c, err, "user")
}

// ResendEmailConfirmation sends a fresh confirmation link.
func (h *Handler) ResendEmailConfirmation(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}
	if err := h.auth.ResendConfirmation(c.Request().Context(), req.Email); err != nil {
		return h.fail(c, err, "user")
	}
	return respond(c, http.StatusOK, "If the email awaits confirmation, a new link has been sent", true)
}
