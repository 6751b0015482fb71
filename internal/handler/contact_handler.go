package handler

import (
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"net/http"
)

const (
	flashKey          = "flash"
	contactPageFAQs   = 6
	contactSuccessURL = "/contact/success/"
)

// ContactHandler holds the dependencies for the contact pages.
type ContactHandler struct {
	contact ContactServicer
	session session.Manager
	view    *view.View
	log     logger.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(c ContactServicer, sm session.Manager, v *view.View, log logger.Logger) *ContactHandler {
	return &ContactHandler{contact: c, session: sm, view: v, log: log}
}

func (h *ContactHandler) form(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderForm(w, r, service.ContactForm{Reason: content.ReasonGeneral}, nil)
}

func (h *ContactHandler) renderForm(w http.ResponseWriter, r *http.Request, form service.ContactForm, errs service.ValidationErrors) *middleware.AppError {
	faqs, err := h.contact.FAQs(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load contact page")
	}
	if len(faqs) > contactPageFAQs {
		faqs = faqs[:contactPageFAQs]
	}
	data := map[string]interface{}{
		"Title":   "Contact",
		"Form":    form,
		"Errors":  errs,
		"FAQs":    faqs,
		"Reasons": content.MessageReasons,
	}
	if len(errs) > 0 {
		data["Flash"] = "Please correct the errors below and try again."
		data["FlashType"] = "error"
	}
	return render(h.view, w, r, "contact.html", data)
}

func (h *ContactHandler) submit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad Request", Code: http.StatusBadRequest}
	}
	form := service.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Company: r.PostFormValue("company"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
		Reason:  content.MessageReason(r.PostFormValue("reason")),
	}
	if _, err := h.contact.Submit(r.Context(), form, requestMeta(r)); err != nil {
		if errs, ok := service.AsValidationErrors(err); ok {
			return h.renderForm(w, r, form, errs)
		}
		return middleware.Internal(err, "Failed to send message")
	}
	h.session.Put(r.Context(), flashKey, "Thank you for your message! I will get back to you soon.")
	http.Redirect(w, r, contactSuccessURL, http.StatusSeeOther)
	return nil
}

func (h *ContactHandler) success(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return render(h.view, w, r, "contact_success.html", map[string]interface{}{
		"Title":     "Message Sent",
		"Flash":     h.session.PopString(r.Context(), flashKey),
		"FlashType": "success",
	})
}

func (h *ContactHandler) faq(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	faqs, err := h.contact.FAQs(r.Context())
	if err != nil {
		return middleware.Internal(err, "Failed to load FAQs")
	}
	return render(h.view, w, r, "faq.html", map[string]interface{}{
		"Title": "Frequently Asked Questions",
		"FAQs":  faqs,
	})
}

// quickContact is the JSON endpoint behind the footer form.
func (h *ContactHandler) quickContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		middleware.JSONError(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}
	if err := r.ParseForm(); err != nil {
		middleware.JSONError(w, http.StatusBadRequest, "Malformed form data")
		return
	}
	form := service.QuickContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
	if _, err := h.contact.QuickContact(r.Context(), form, requestMeta(r)); err != nil {
		if errs, ok := service.AsValidationErrors(err); ok {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": errs})
			return
		}
		h.log.Error(err, "quick contact failed")
		middleware.JSONError(w, http.StatusInternalServerError, "An error occurred. Please try again later.")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thank you! Your message has been sent.",
	})
}
