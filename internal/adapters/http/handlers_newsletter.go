package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/application/projections"
)

type campaignForm struct {
	Subject string `label:"Subject" validate:"required,max=200"`
	Content string `label:"Content" validate:"required"`
}

func newsletterDeps() orchestrators.NewsletterDeps {
	return orchestrators.NewsletterDeps{
		NewsletterStore: stores.NewsletterStore,
		OutboxStore:     stores.OutboxStore,
		Activity:        orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		GenerateID:      generateID,
		Now:             timeNow,
	}
}

// handleNewsletter renders GET /admin/newsletter: subscriber stats and list.
func handleNewsletter(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.SubscriberFilterKeys...)
	result, err := projections.QueryListSubscribers(r.Context(), projections.ListSubscribersQuery{Params: params, Now: timeNow()}, projections.ListSubscribersDeps{
		NewsletterStore: stores.NewsletterStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "newsletter.html", map[string]any{
		"Title":  "Newsletter",
		"Result": result,
	})
}

// handleNewsletterAction handles POST /admin/newsletter with
// action=unsubscribe_email or action=export_subscribers.
func handleNewsletterAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	switch r.FormValue("action") {
	case "unsubscribe_email":
		sub, err := orchestrators.ExecuteUnsubscribe(r.Context(), orchestrators.UnsubscribeInput{
			Actor: actor(r),
			Email: r.FormValue("email"),
		}, newsletterDeps())
		if err != nil {
			redirectWith(w, r, middleware.FlashError, publicMessage(err), "/admin/newsletter")
			return
		}
		redirectWith(w, r, middleware.FlashSuccess, sub.Email+" has been unsubscribed.", "/admin/newsletter")

	case "export_subscribers":
		var buf bytes.Buffer
		rows, err := orchestrators.ExecuteExportSubscribers(r.Context(), &buf, actor(r), newsletterDeps())
		if err != nil {
			internalError(w, err)
			return
		}
		filename := fmt.Sprintf("newsletter_subscribers_%s.csv", timeNow().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Debug("newsletter_event", "event", "export_write_failed", "rows", rows, "error", err.Error())
		}

	default:
		redirectWith(w, r, middleware.FlashError, "Unknown action.", "/admin/newsletter")
	}
}

// handleCampaigns renders GET /admin/newsletter/campaigns
func handleCampaigns(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryListCampaigns(r.Context(), projections.ListCampaignsDeps{
		NewsletterStore: stores.NewsletterStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "campaigns_list.html", map[string]any{
		"Title":  "Newsletter Campaigns",
		"Result": result,
	})
}

func renderCampaignForm(w http.ResponseWriter, r *http.Request, status int, form campaignForm, errs []string) {
	renderStatus(w, r, status, "campaign_form.html", map[string]any{
		"Title":  "New Campaign",
		"Form":   form,
		"Errors": errs,
	})
}

// handleCampaignNewForm renders GET /admin/newsletter/campaigns/new
func handleCampaignNewForm(w http.ResponseWriter, r *http.Request) {
	renderCampaignForm(w, r, http.StatusOK, campaignForm{}, nil)
}

// handleCampaignCreate handles POST /admin/newsletter/campaigns/new and stores a draft.
func handleCampaignCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	form := campaignForm{
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Content: r.FormValue("content"),
	}
	if err := validate.Struct(form); err != nil {
		renderCampaignForm(w, r, http.StatusUnprocessableEntity, form, formErrors(err))
		return
	}
	c, err := orchestrators.ExecuteCreateCampaign(r.Context(), orchestrators.CreateCampaignInput{
		Actor:   actor(r),
		Subject: form.Subject,
		Content: form.Content,
	}, newsletterDeps())
	if err != nil {
		renderCampaignForm(w, r, http.StatusUnprocessableEntity, form, []string{publicMessage(err)})
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, fmt.Sprintf("Campaign %q saved as a draft.", c.Subject), "/admin/newsletter/campaigns")
}

// campaignSendResult is the result object of a queued send.
type campaignSendResult struct {
	TrackingID string `json:"tracking_id"`
}

// handleCampaignSend handles POST /admin/newsletter/campaigns/send. The send
// is queued and runs in the background worker. Every outcome answers 200; the
// success flag tells the page what happened.
func handleCampaignSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusOK, jsonResponse{Message: "Invalid request"})
		return
	}
	if r.FormValue("action") != "send" {
		writeJSON(w, http.StatusOK, jsonResponse{Message: "Invalid action"})
		return
	}
	id, ok := parseID(r.FormValue("campaign_id"))
	if !ok {
		writeJSON(w, http.StatusOK, jsonResponse{Message: "Campaign ID is required"})
		return
	}

	trackingID, err := orchestrators.ExecuteEnqueueCampaignSend(r.Context(), orchestrators.SendCampaignInput{
		Actor:      actor(r),
		CampaignID: id,
	}, newsletterDeps())
	if err != nil {
		writeJSON(w, http.StatusOK, jsonResponse{Message: publicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		Success: true,
		Message: "Campaign queued for sending",
		Result:  campaignSendResult{TrackingID: trackingID},
	})
}
