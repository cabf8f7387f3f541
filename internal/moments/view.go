package moments

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/web"
)

const maxViewImages = 6

// View renders the latest moment, or a random one with ?random=true.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	useRandom, err := web.ParseBoolParam(r.URL.Query().Get("random"), false, "random")
	if err != nil {
		h.writeMessagePage(w, http.StatusBadRequest, "Bad request", err.Error())
		return
	}

	var doc Document
	if useRandom {
		doc, err = h.repo.Sample(r.Context())
	} else {
		doc, err = h.repo.Latest(r.Context())
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeMessagePage(w, http.StatusOK, "No moments yet", "No moments yet")
			return
		}
		h.log.Error("failed to load moment for view", logger.Error(err))
		h.writeMessagePage(w, http.StatusInternalServerError, "Internal error", "Failed to load moment")
		return
	}

	h.writeHTML(w, http.StatusOK, h.buildMomentCardHTML(Serialize(doc, h.log)))
}

// ViewByID renders a single moment card.
func (h *Handler) ViewByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.writeMessagePage(w, http.StatusNotFound, "Moment not found", "Moment not found")
		return
	}

	doc, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeMessagePage(w, http.StatusNotFound, "Moment not found", "Moment not found")
			return
		}
		h.log.Error("failed to load moment for view", logger.Error(err))
		h.writeMessagePage(w, http.StatusInternalServerError, "Internal error", "Failed to load moment")
		return
	}

	h.writeHTML(w, http.StatusOK, h.buildMomentCardHTML(Serialize(doc, h.log)))
}

func (h *Handler) writeHTML(w http.ResponseWriter, status int, content string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(content))
}

func (h *Handler) writeMessagePage(w http.ResponseWriter, status int, title, message string) {
	body := "<article class=\"message-card\">" +
		"<h1>" + html.EscapeString(title) + "</h1>" +
		"<p>" + html.EscapeString(message) + "</p>" +
		"</article>"
	h.writeHTML(w, status, h.buildLayoutHTML(title, body, ""))
}

func (h *Handler) buildMomentCardHTML(m Moment) string {
	title := m.Title
	if title == "" {
		title = "Untitled"
	}

	textBlock := ""
	if textHTML := toDisplayText(m.Text); textHTML != "" {
		textBlock = "<section class=\"text\" data-testid=\"moment-text\">" + textHTML + "</section>"
	}

	body := "<article class=\"moment-card\" data-testid=\"moment-card\">" +
		"<h1 class=\"moment-title\" data-testid=\"moment-title\">" + html.EscapeString(title) + "</h1>" +
		"<p class=\"date\" data-testid=\"moment-date\">" + html.EscapeString(formatViewDate(m.Date)) + "</p>" +
		"<section class=\"moment-content\">" + textBlock + buildImagesHTML(m.Images, title) + "</section>" +
		"</article>"

	apiLink := ""
	if m.ID != "" {
		apiLink = "/api/v1/cards/" + url.PathEscape(m.ID)
	}
	return h.buildLayoutHTML(title, body, apiLink)
}

// formatViewDate renders a serialized UTC timestamp at minute precision.
func formatViewDate(value string) string {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return "Unknown date"
	}
	return parsed.UTC().Format("2006-01-02T15:04Z")
}

func toDisplayText(value *string) string {
	if value == nil || *value == "" {
		return ""
	}
	return strings.ReplaceAll(html.EscapeString(*value), "\n", "<br />")
}

// BuildMediaImageURL maps a stored filename to the image-service URL the
// card page embeds, or "" when the filename has no usable basename.
func BuildMediaImageURL(filename string) string {
	_, name, err := PhotostockBasename(filename)
	if err != nil {
		return ""
	}
	return "/api/images/" + url.PathEscape(name)
}

func buildImagesHTML(images []string, title string) string {
	if len(images) == 0 {
		return ""
	}

	limited := images
	if len(limited) > maxViewImages {
		limited = limited[:maxViewImages]
	}
	hidden := len(images) - len(limited)

	var items strings.Builder
	for i, image := range limited {
		itemClass := fmt.Sprintf("spiral-item spiral-item-%d", i+1)
		imageURL := BuildMediaImageURL(image)
		if imageURL == "" {
			items.WriteString("<div class=\"" + itemClass + " spiral-item-unavailable\">" +
				"<p class=\"image-unavailable\">image unavailable</p>" +
				"</div>")
			continue
		}

		altText := html.EscapeString(fmt.Sprintf("%s image %d", title, i+1))
		items.WriteString("<figure class=\"" + itemClass + "\">" +
			"<img src=\"" + imageURL + "\" alt=\"" + altText + "\" loading=\"lazy\" " +
			"onerror=\"this.onerror=null;this.style.display='none';" +
			"this.insertAdjacentHTML('afterend','<p class=&quot;image-unavailable&quot;>image unavailable</p>');\" />" +
			"</figure>")
	}

	moreHTML := ""
	if hidden > 0 {
		moreHTML = fmt.Sprintf("<p class=\"gallery-more\">+%d more</p>", hidden)
	}

	return "<section class=\"media-block\">" +
		fmt.Sprintf("<div class=\"spiral-grid count-%d\" data-testid=\"moment-gallery\">%s</div>", len(limited), items.String()) +
		moreHTML +
		"</section>"
}

func (h *Handler) buildLayoutHTML(title, body, apiLink string) string {
	apiItem := ""
	if apiLink != "" {
		apiItem = "<a href=\"" + apiLink + "\">Open JSON</a>"
	}

	return "<!doctype html>" +
		"<html lang=\"en\">" +
		"<head>" +
		"<meta charset=\"utf-8\" />" +
		"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />" +
		fmt.Sprintf("<meta name=\"photostock-timeout-ms\" content=\"%d\" />", h.photostockTimeout.Milliseconds()) +
		"<title>" + html.EscapeString(title) + "</title>" +
		"<style>" + cardPageCSS + "</style>" +
		"</head>" +
		"<body>" +
		"<main class=\"page\">" +
		"<div class=\"canvas\">" +
		body +
		"<nav class=\"nav\"><a href=\"/cards/view\">Latest</a><a href=\"/cards/view?random=true\">Random</a>" + apiItem + "</nav>" +
		"</div>" +
		"</main>" +
		"</body>" +
		"</html>"
}

const cardPageCSS = ":root{--card-surface:#fcfcfd;--card-shadow:0 20px 50px rgba(17,24,39,.15);" +
	"--muted:#6f7282;--text:#1c1d22;--gap:clamp(10px,1.6vmin,14px)}" +
	"html,body{margin:0;min-height:100%;color:var(--text)}" +
	"body{font-family:'Avenir Next','Trebuchet MS','Segoe UI',sans-serif;" +
	"background:radial-gradient(circle at 14% 20%,#f4f6f8 0,#eef2f4 38%,#e8ecef 100%)}" +
	".page{min-height:100vh;display:grid;place-items:center;padding:20px;box-sizing:border-box}" +
	".canvas{display:grid;justify-items:center;gap:12px;width:100%}" +
	".moment-card{width:min(70vmin,720px,calc(100vw - 30px),calc(100vh - 140px));" +
	"aspect-ratio:1/1;background:var(--card-surface);border-radius:24px;padding:clamp(16px,2.7vmin,26px);" +
	"box-sizing:border-box;display:grid;grid-template-rows:auto auto minmax(0,1fr);gap:var(--gap);" +
	"box-shadow:var(--card-shadow);border:1px solid rgba(255,255,255,.8);overflow:hidden}" +
	".moment-title{margin:0;font-family:'Georgia','Times New Roman',serif;font-size:clamp(30px,5.4vmin,48px);" +
	"line-height:1.04;letter-spacing:-.02em;overflow-wrap:anywhere}" +
	".date{margin:0;color:var(--muted);font-size:clamp(12px,1.5vmin,14px)}" +
	".moment-content{min-height:0;display:grid;grid-template-rows:auto minmax(0,1fr);gap:var(--gap)}" +
	".text{margin:0;font-size:clamp(14px,1.9vmin,18px);line-height:1.54;color:#333843;" +
	"overflow:auto;max-height:7.7em;padding-right:4px;word-break:break-word}" +
	".media-block{min-height:0;display:grid;grid-template-rows:minmax(0,1fr) auto;gap:8px}" +
	".spiral-grid{min-height:0;height:100%;display:grid;grid-template-columns:repeat(13,minmax(0,1fr));" +
	"grid-template-rows:repeat(8,minmax(0,1fr));gap:6px}" +
	".spiral-item{margin:0;position:relative;overflow:hidden;border-radius:10px;background:#e4e8ec}" +
	".spiral-item img{display:block;width:100%;height:100%;object-fit:cover}" +
	".spiral-item .image-unavailable{display:grid;place-items:center;height:100%;margin:0;padding:8px;" +
	"color:var(--muted);font-size:12px;background:#f3f4f6}" +
	".spiral-item-1{grid-area:1/1/9/9}" +
	".spiral-item-2{grid-area:1/9/6/14}" +
	".spiral-item-3{grid-area:6/11/9/14}" +
	".spiral-item-4{grid-area:7/9/9/11}" +
	".spiral-item-5{grid-area:6/9/7/10}" +
	".spiral-item-6{grid-area:6/10/7/11}" +
	".spiral-grid.count-1 .spiral-item-1{grid-area:1/1/9/14}" +
	".spiral-grid.count-2 .spiral-item-1{grid-area:1/1/9/9}" +
	".spiral-grid.count-2 .spiral-item-2{grid-area:1/9/9/14}" +
	".spiral-grid.count-3 .spiral-item-3{grid-area:6/9/9/14}" +
	".spiral-grid.count-4 .spiral-item-4{grid-area:6/9/9/11}" +
	".spiral-grid.count-5 .spiral-item-5{grid-area:6/9/7/11}" +
	".gallery-more{margin:0;color:var(--muted);font-size:12px;text-align:right;letter-spacing:.01em}" +
	".nav{display:flex;gap:12px;font-size:13px;color:var(--muted)}" +
	".nav a{color:inherit;text-decoration:none;padding:4px 0;border-bottom:1px solid transparent}" +
	".nav a:hover{border-color:currentColor}" +
	".message-card{width:min(72vmin,520px,calc(100vw - 30px));background:var(--card-surface);" +
	"border-radius:20px;padding:22px;box-sizing:border-box;box-shadow:var(--card-shadow)}" +
	".message-card h1{margin:0;font-family:'Georgia','Times New Roman',serif;font-size:clamp(28px,4.6vmin,40px)}" +
	".message-card p{margin:10px 0 0;color:#333843;font-size:16px;line-height:1.5}" +
	"@media (max-width:700px){.moment-card{width:min(92vw,calc(100vh - 132px));gap:10px}" +
	".spiral-grid{gap:5px}.nav{font-size:12px;gap:10px}}"
